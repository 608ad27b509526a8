// Package billing turns completed work into draft invoice lines.
package billing

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	appdatadomain "github.com/smallbiznis/smh/internal/appdata/domain"
	invoicedomain "github.com/smallbiznis/smh/internal/invoice/domain"
	"github.com/smallbiznis/smh/pkg/log/ctxlogger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidDate = errors.New("invalid_date")

// billable lists the booking statuses that can be invoiced.
var billable = []appdatadomain.BookingStatus{
	appdatadomain.BookingStatusConfirmed,
	appdatadomain.BookingStatusAllocated,
	appdatadomain.BookingStatusCompleted,
}

type Params struct {
	fx.In

	AppData  appdatadomain.Service
	Invoices invoicedomain.Service
	Log      *zap.Logger
}

type Service struct {
	appdata  appdatadomain.Service
	invoices invoicedomain.Service
	log      *zap.Logger
}

func NewService(p Params) *Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		appdata:  p.AppData,
		invoices: p.Invoices,
		log:      log.Named("billing"),
	}
}

// InvoiceBookings pools every billable booking on date into its customer's
// draft invoice and marks the booking Invoiced. Bookings already referenced
// by an invoice are skipped. It returns the ids of the invoices it touched.
func (s *Service) InvoiceBookings(ctx context.Context, date string) ([]string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, ErrInvalidDate
	}
	log := ctxlogger.WithContext(ctx, s.log).With(zap.String("date", date))

	invoiced := s.invoicedBookings(ctx)
	var touched []string
	for _, b := range s.appdata.Bookings(ctx) {
		if b.Date != date || !slices.Contains(billable, b.Status) || invoiced[b.ID] {
			continue
		}

		draft, err := s.invoices.FindOrCreateDraftByCustomer(ctx, b.CustomerID, b.CustomerName, date)
		if err != nil {
			return touched, fmt.Errorf("draft for booking %s: %w", b.ID, err)
		}
		if _, err := s.invoices.AddLine(ctx, draft.ID, lineFor(b)); err != nil {
			return touched, fmt.Errorf("line for booking %s: %w", b.ID, err)
		}
		if _, err := s.invoices.AddSource(ctx, draft.ID, invoicedomain.Source{
			Type:      invoicedomain.SourceTypeBooking,
			ID:        b.ID,
			BookingID: b.ID,
		}); err != nil {
			return touched, fmt.Errorf("source for booking %s: %w", b.ID, err)
		}
		if _, err := s.appdata.SetBookingStatus(ctx, b.ID, appdatadomain.BookingStatusInvoiced); err != nil {
			return touched, fmt.Errorf("status for booking %s: %w", b.ID, err)
		}

		if !slices.Contains(touched, draft.ID) {
			touched = append(touched, draft.ID)
		}
		log.Info("booking invoiced",
			zap.String("booking_id", b.ID),
			zap.String("invoice_id", draft.ID),
		)
	}
	return touched, nil
}

func (s *Service) invoicedBookings(ctx context.Context) map[string]bool {
	out := make(map[string]bool)
	for _, inv := range s.invoices.Invoices(ctx) {
		for _, src := range inv.Sources {
			out[src.BookingID] = true
		}
	}
	return out
}

func lineFor(b appdatadomain.Booking) invoicedomain.Line {
	unit := "pallets"
	if b.RateBasis == appdatadomain.RateBasisSpace {
		unit = "spaces"
	}
	desc := fmt.Sprintf("%s %s to %s, %d %s", b.BookingRef, b.PickupSuburb, b.DropoffSuburb, b.Quantity(), unit)
	return invoicedomain.Line{
		Description: strings.Join(strings.Fields(desc), " "),
		Quantity:    float64(b.Quantity()),
		UnitPrice:   b.UnitPrice,
	}
}
