package billing

import (
	"context"
	"testing"

	appdatadomain "github.com/smallbiznis/smh/internal/appdata/domain"
	appdataservice "github.com/smallbiznis/smh/internal/appdata/service"
	invoicedomain "github.com/smallbiznis/smh/internal/invoice/domain"
	invoiceservice "github.com/smallbiznis/smh/internal/invoice/service"
	"github.com/smallbiznis/smh/pkg/persist"
	"github.com/smallbiznis/smh/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	billing  *Service
	appdata  appdatadomain.Service
	invoices invoicedomain.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, appdatadomain.StorageKey, []byte(`{}`)))
	require.NoError(t, kv.Set(ctx, invoicedomain.StorageKey, []byte(`[]`)))

	adapter := persist.NewAdapter(kv, zap.NewNop(), nil)
	appdata := appdataservice.New(appdataservice.Params{Adapter: adapter, Log: zap.NewNop()})
	invoices := invoiceservice.NewService(invoiceservice.ServiceParam{Adapter: adapter, Log: zap.NewNop()})
	return fixture{
		billing:  NewService(Params{AppData: appdata, Invoices: invoices, Log: zap.NewNop()}),
		appdata:  appdata,
		invoices: invoices,
	}
}

func TestInvoiceBookings_PoolsByCustomer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	add := func(b appdatadomain.Booking) appdatadomain.Booking {
		t.Helper()
		out, err := f.appdata.AddBooking(ctx, b)
		require.NoError(t, err)
		return out
	}
	a1 := add(appdatadomain.Booking{CustomerID: "c1", CustomerName: "Acme", Date: "2026-02-05", Status: appdatadomain.BookingStatusConfirmed, Pallets: 4, UnitPrice: 25})
	a2 := add(appdatadomain.Booking{CustomerID: "c1", CustomerName: "Acme", Date: "2026-02-05", Status: appdatadomain.BookingStatusCompleted, Spaces: 2, RateBasis: appdatadomain.RateBasisSpace, UnitPrice: 30})
	b1 := add(appdatadomain.Booking{CustomerID: "c2", CustomerName: "Bayside", Date: "2026-02-05", Status: appdatadomain.BookingStatusAllocated, Pallets: 1, UnitPrice: 50})
	draft := add(appdatadomain.Booking{CustomerID: "c1", CustomerName: "Acme", Date: "2026-02-05", Pallets: 9, UnitPrice: 10})
	otherDay := add(appdatadomain.Booking{CustomerID: "c1", CustomerName: "Acme", Date: "2026-02-06", Status: appdatadomain.BookingStatusConfirmed, Pallets: 9, UnitPrice: 10})

	touched, err := f.billing.InvoiceBookings(ctx, "2026-02-05")
	require.NoError(t, err)
	require.Len(t, touched, 2)

	acme, err := f.invoices.GetByID(ctx, touched[0])
	require.NoError(t, err)
	assert.Equal(t, "c1", acme.CustomerID)
	require.Len(t, acme.Lines, 2)
	assert.InDelta(t, 160.0, acme.Subtotal, 1e-9)
	assert.InDelta(t, 176.0, acme.Total, 1e-9)
	assert.True(t, acme.HasBooking(a1.ID))
	assert.True(t, acme.HasBooking(a2.ID))

	bayside, err := f.invoices.GetByID(ctx, touched[1])
	require.NoError(t, err)
	assert.True(t, bayside.HasBooking(b1.ID))

	for _, id := range []string{a1.ID, a2.ID, b1.ID} {
		got, err := f.appdata.GetBooking(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, appdatadomain.BookingStatusInvoiced, got.Status)
	}
	for _, id := range []string{draft.ID, otherDay.ID} {
		got, err := f.appdata.GetBooking(ctx, id)
		require.NoError(t, err)
		assert.NotEqual(t, appdatadomain.BookingStatusInvoiced, got.Status)
	}

	again, err := f.billing.InvoiceBookings(ctx, "2026-02-05")
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestInvoiceBookings_SkipsAlreadyReferenced(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b, err := f.appdata.AddBooking(ctx, appdatadomain.Booking{CustomerName: "Acme", Date: "2026-02-05", Status: appdatadomain.BookingStatusConfirmed, Pallets: 1, UnitPrice: 10})
	require.NoError(t, err)
	inv, err := f.invoices.CreateInvoice(ctx, invoicedomain.Invoice{
		Customer: "Acme",
		Status:   invoicedomain.InvoiceStatusConfirmed,
		Sources:  []invoicedomain.Source{{Type: "booking", ID: b.ID, BookingID: b.ID}},
	})
	require.NoError(t, err)

	touched, err := f.billing.InvoiceBookings(ctx, "2026-02-05")
	require.NoError(t, err)
	assert.Empty(t, touched)
	assert.Len(t, f.invoices.Invoices(ctx), 1)
	assert.Equal(t, inv.ID, f.invoices.Invoices(ctx)[0].ID)
}

func TestInvoiceBookings_RequiresDate(t *testing.T) {
	f := newFixture(t)
	_, err := f.billing.InvoiceBookings(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestLineFor(t *testing.T) {
	line := lineFor(appdatadomain.Booking{BookingRef: "BK-1", PickupSuburb: "Port Melbourne", DropoffSuburb: "Geelong", Spaces: 3, RateBasis: appdatadomain.RateBasisSpace, UnitPrice: 45})
	assert.Equal(t, "BK-1 Port Melbourne to Geelong, 3 spaces", line.Description)
	assert.Equal(t, 3.0, line.Quantity)
	assert.Equal(t, 45.0, line.UnitPrice)
}
