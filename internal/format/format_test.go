package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateAU(t *testing.T) {
	ts := time.Date(2026, 2, 5, 9, 7, 0, 0, time.UTC)
	assert.Equal(t, "05-02-2026", DateAU(ts))
	assert.Equal(t, "05-02-2026 09:07", DateTimeAU(ts))
	assert.Equal(t, "", DateAU(time.Time{}))
	assert.Equal(t, "", DateTimeAU(time.Time{}))
}

func TestDateStringAU(t *testing.T) {
	cases := map[string]string{
		"2026-02-05":                "05-02-2026",
		"2026-02-05T13:45:00Z":      "05-02-2026",
		"  2026-02-05 ":             "05-02-2026",
		"due 2026-13-40 maybe":      "40-13-2026",
		"":                          "",
		"tomorrow":                  "tomorrow",
		"2026-02-05T13:45:00+10:00": "05-02-2026",
	}
	for in, want := range cases {
		assert.Equal(t, want, DateStringAU(in), in)
	}
}

func TestDateTimeStringAU(t *testing.T) {
	assert.Equal(t, "05-02-2026 13:45", DateTimeStringAU("2026-02-05T13:45:00Z"))
	assert.Equal(t, "05-02-2026 00:00", DateTimeStringAU("2026-02-05"))
	assert.Equal(t, "40-13-2026 25:61", DateTimeStringAU("2026-13-40T25:61"))
	assert.Equal(t, "40-13-2026 00:00", DateTimeStringAU("2026-13-40"))
	assert.Equal(t, "soon", DateTimeStringAU("soon"))
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "$160.00", Currency(160, ""))
	assert.Equal(t, "$176.00", Currency(176, "aud"))
	assert.Equal(t, "-$16.50", Currency(-16.5, "AUD"))
	assert.Equal(t, "NZ$9.99", Currency(9.99, "NZD"))
	assert.Equal(t, "$0.10", Currency(0.1, "not-a-code"))
	assert.Equal(t, "JPY 5.00", Currency(5, "JPY"))
}

func TestFormatInvoiceNumber(t *testing.T) {
	issued := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	got, err := FormatInvoiceNumber(DefaultInvoiceNumberTemplate, issued, 7)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0007", got)

	got, err = FormatInvoiceNumber("INV-{YYYY}-{SEQ4}", issued, 12345)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-12345", got)

	got, err = FormatInvoiceNumber("{YY}{MM}{DD}/{SEQ}", issued, 3)
	require.NoError(t, err)
	assert.Equal(t, "260309/3", got)

	_, err = FormatInvoiceNumber("", issued, 1)
	assert.Error(t, err)
	_, err = FormatInvoiceNumber(DefaultInvoiceNumberTemplate, issued, 0)
	assert.Error(t, err)
	_, err = FormatInvoiceNumber("INV-{WEEK}-{SEQ}", issued, 1)
	assert.Error(t, err)
}

func TestParseInvoiceSequence(t *testing.T) {
	issued := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	seq, ok := ParseInvoiceSequence(DefaultInvoiceNumberTemplate, issued, "INV-2026-0042")
	require.True(t, ok)
	assert.Equal(t, int64(42), seq)

	seq, ok = ParseInvoiceSequence(DefaultInvoiceNumberTemplate, issued, "INV-2026-10001")
	require.True(t, ok)
	assert.Equal(t, int64(10001), seq)

	for _, number := range []string{"INV-2025-0042", "INV-2026-", "INV-2026-00A1", "XINV-2026-0001", ""} {
		_, ok := ParseInvoiceSequence(DefaultInvoiceNumberTemplate, issued, number)
		assert.False(t, ok, number)
	}

	seq, ok = ParseInvoiceSequence("{YYYY}/{SEQ}/AU", issued, "2026/9/AU")
	require.True(t, ok)
	assert.Equal(t, int64(9), seq)
}
