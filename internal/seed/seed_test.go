package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoices_TotalsConsistent(t *testing.T) {
	invoices := Invoices()
	require.Len(t, invoices, 1)
	inv := invoices[0]
	assert.Equal(t, 160.0, inv.Lines[0].Total)
	assert.InDelta(t, 160.0, inv.Subtotal, 1e-9)
	assert.InDelta(t, 16.0, inv.Tax, 1e-9)
	assert.InDelta(t, 176.0, inv.Total, 1e-9)
}

func TestDatasets_AreFresh(t *testing.T) {
	a := AppData()
	a.Bookings[0].CustomerName = "changed"
	assert.NotEqual(t, "changed", AppData().Bookings[0].CustomerName)

	r := Resources()
	r.Runsheets[0].Jobs[0].ID = "changed"
	assert.Equal(t, "job-1", Resources().Runsheets[0].Jobs[0].ID)
}

func TestResources_References(t *testing.T) {
	r := Resources()
	drivers := map[string]bool{}
	for _, d := range r.Drivers {
		drivers[d.ID] = true
	}
	for _, sh := range r.Shifts {
		assert.True(t, drivers[sh.DriverID], sh.ID)
	}
	for _, sheet := range r.Runsheets {
		assert.True(t, drivers[sheet.DriverID], sheet.ID)
	}
}
