package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)
)

const DefaultInvoiceNumberTemplate = "INV-{YYYY}-{SEQ4}"

// FormatInvoiceNumber formats a human-readable invoice number
// based on a template, invoice issue time, and monotonic sequence.
func FormatInvoiceNumber(
	template string,
	issuedAt time.Time,
	seq int64,
) (string, error) {

	if template == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}

	if seq <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}

	out := InvoiceNumberPrefix(template, issuedAt)

	// Simple sequence
	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	// Padded sequence
	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m
		}

		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}

		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in invoice format: %s", out)
	}

	return out, nil
}

// InvoiceNumberPrefix resolves the date tokens of template, leaving the
// sequence token in place.
func InvoiceNumberPrefix(template string, issuedAt time.Time) string {
	out := template
	out = strings.ReplaceAll(out, "{YYYY}", issuedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", issuedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", issuedAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", issuedAt.Format("02"))
	return out
}

// ParseInvoiceSequence extracts the sequence from number when it was produced
// by template for the period of issuedAt. ok is false for numbers from other
// periods or templates.
func ParseInvoiceSequence(template string, issuedAt time.Time, number string) (int64, bool) {
	resolved := InvoiceNumberPrefix(template, issuedAt)
	loc := seqTokenRe.FindStringIndex(resolved)
	if loc == nil {
		return 0, false
	}
	prefix, suffix := resolved[:loc[0]], resolved[loc[1]:]
	if len(number) <= len(prefix)+len(suffix) {
		return 0, false
	}
	if !strings.HasPrefix(number, prefix) || !strings.HasSuffix(number, suffix) {
		return 0, false
	}
	digits := number[len(prefix) : len(number)-len(suffix)]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	seq, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return seq, true
}

var seqTokenRe = regexp.MustCompile(`\{SEQ\d*\}`)
