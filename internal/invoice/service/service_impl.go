package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/smallbiznis/smh/internal/clock"
	"github.com/smallbiznis/smh/internal/config"
	"github.com/smallbiznis/smh/internal/format"
	"github.com/smallbiznis/smh/internal/ids"
	invoicedomain "github.com/smallbiznis/smh/internal/invoice/domain"
	"github.com/smallbiznis/smh/internal/observability/metrics"
	"github.com/smallbiznis/smh/internal/seed"
	"github.com/smallbiznis/smh/pkg/lifecycle"
	"github.com/smallbiznis/smh/pkg/log/ctxlogger"
	"github.com/smallbiznis/smh/pkg/persist"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	storeName  = "invoice"
	dateLayout = "2006-01-02"
)

type ServiceParam struct {
	fx.In

	Adapter  *persist.Adapter
	Log      *zap.Logger
	Clock    clock.Clock            `optional:"true"`
	Settings *config.SettingsHolder `optional:"true"`
	Metrics  *metrics.StoreMetrics  `optional:"true"`
}

type Service struct {
	adapter  *persist.Adapter
	log      *zap.Logger
	clock    clock.Clock
	settings *config.SettingsHolder
	metrics  *metrics.StoreMetrics

	mu       sync.RWMutex
	invoices []invoicedomain.Invoice
}

func NewService(p ServiceParam) invoicedomain.Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	s := &Service{
		adapter:  p.Adapter,
		log:      log.Named("invoice.store"),
		clock:    clk,
		settings: p.Settings,
		metrics:  p.Metrics,
	}
	s.Reload(context.Background())
	return s
}

func (s *Service) Reload(ctx context.Context) {
	invoices := persist.Load(ctx, s.adapter, invoicedomain.StorageKey, persist.ShapeArray, seed.Invoices)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = invoices
}

func (s *Service) Invoices(ctx context.Context) []invoicedomain.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneInvoices(s.invoices)
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.find(id)
	if idx < 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}
	return cloneInvoice(s.invoices[idx]), nil
}

// NextInvoiceNo returns the number following the highest one issued in the
// current year, e.g. INV-2026-0004 after INV-2026-0003.
func (s *Service) NextInvoiceNo(ctx context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextInvoiceNo(ctx)
}

// CreateInvoice upserts by id. Replacing an invoice keeps its createdAt and,
// when none is given, its number.
func (s *Service) CreateInvoice(ctx context.Context, invoice invoicedomain.Invoice) (invoicedomain.Invoice, error) {
	if invoice.Status != "" && !invoice.Status.Valid() {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidStatus
	}

	defer s.begin(ctx)()

	idx := -1
	if invoice.ID != "" {
		idx = s.find(invoice.ID)
	}
	if idx >= 0 && invoice.InvoiceNo == "" {
		invoice.InvoiceNo = s.invoices[idx].InvoiceNo
	}
	invoice = cloneInvoice(s.prepare(ctx, invoice))

	next := cloneInvoices(s.invoices)
	if idx >= 0 {
		invoice.CreatedAt = s.invoices[idx].CreatedAt
		next[idx] = invoice
	} else {
		next = append(next, invoice)
	}
	s.commit(ctx, "create_invoice", next)
	return cloneInvoice(invoice), nil
}

func (s *Service) UpdateInvoice(ctx context.Context, id string, req invoicedomain.UpdateInvoiceRequest) (invoicedomain.Invoice, error) {
	return s.mutate(ctx, "update_invoice", id, func(inv *invoicedomain.Invoice) error {
		if req.InvoiceNo != nil {
			inv.InvoiceNo = strings.TrimSpace(*req.InvoiceNo)
		}
		if req.CustomerID != nil {
			inv.CustomerID = *req.CustomerID
		}
		if req.Customer != nil {
			inv.Customer = *req.Customer
		}
		if req.Date != nil {
			inv.Date = *req.Date
		}
		if req.TaxInclusive != nil {
			inv.TaxInclusive = *req.TaxInclusive
		}
		if req.Notes != nil {
			inv.Notes = *req.Notes
		}
		if req.Lines != nil {
			inv.Lines = withLineIDs(slices.Clone(*req.Lines))
		}
		if req.Sources != nil {
			inv.Sources = slices.Clone(*req.Sources)
		}
		return nil
	})
}

func (s *Service) RemoveInvoice(ctx context.Context, id string) error {
	defer s.begin(ctx)()

	if s.find(id) < 0 {
		return invoicedomain.ErrNotFound
	}
	next := slices.DeleteFunc(cloneInvoices(s.invoices), func(inv invoicedomain.Invoice) bool { return inv.ID == id })
	s.commit(ctx, "remove_invoice", next)
	return nil
}

func (s *Service) AddLine(ctx context.Context, invoiceID string, line invoicedomain.Line) (invoicedomain.Invoice, error) {
	if line.ID == "" {
		line.ID = ids.UUID()
	}
	return s.mutate(ctx, "add_line", invoiceID, func(inv *invoicedomain.Invoice) error {
		inv.Lines = append(inv.Lines, line)
		return nil
	})
}

func (s *Service) UpdateLine(ctx context.Context, invoiceID, lineID string, req invoicedomain.UpdateLineRequest) (invoicedomain.Invoice, error) {
	return s.mutate(ctx, "update_line", invoiceID, func(inv *invoicedomain.Invoice) error {
		idx := slices.IndexFunc(inv.Lines, func(l invoicedomain.Line) bool { return l.ID == lineID })
		if idx < 0 {
			return invoicedomain.ErrLineNotFound
		}
		line := &inv.Lines[idx]
		if req.Description != nil {
			line.Description = *req.Description
		}
		if req.Quantity != nil {
			line.Quantity = *req.Quantity
		}
		if req.UnitPrice != nil {
			line.UnitPrice = *req.UnitPrice
		}
		return nil
	})
}

func (s *Service) RemoveLine(ctx context.Context, invoiceID, lineID string) (invoicedomain.Invoice, error) {
	return s.mutate(ctx, "remove_line", invoiceID, func(inv *invoicedomain.Invoice) error {
		if !slices.ContainsFunc(inv.Lines, func(l invoicedomain.Line) bool { return l.ID == lineID }) {
			return invoicedomain.ErrLineNotFound
		}
		inv.Lines = slices.DeleteFunc(inv.Lines, func(l invoicedomain.Line) bool { return l.ID == lineID })
		return nil
	})
}

// AddSource records that the invoice bills a booking. Adding the same booking
// twice is a no-op.
func (s *Service) AddSource(ctx context.Context, invoiceID string, source invoicedomain.Source) (invoicedomain.Invoice, error) {
	if source.Type == "" {
		source.Type = invoicedomain.SourceTypeBooking
	}
	if source.ID == "" {
		source.ID = source.BookingID
	}
	return s.mutate(ctx, "add_source", invoiceID, func(inv *invoicedomain.Invoice) error {
		if !inv.HasBooking(source.BookingID) {
			inv.Sources = append(inv.Sources, source)
		}
		return nil
	})
}

// MarkStatus moves an invoice to status under the configured policy. Moving
// to Delivered stamps deliveredAt.
func (s *Service) MarkStatus(ctx context.Context, id string, status invoicedomain.InvoiceStatus) (invoicedomain.Invoice, error) {
	if !status.Valid() {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidStatus
	}
	return s.mutate(ctx, "mark_status", id, func(inv *invoicedomain.Invoice) error {
		if err := s.transitions().Check(inv.Status, status); err != nil {
			return err
		}
		if status == invoicedomain.InvoiceStatusDelivered && inv.Status != status {
			now := s.clock.Now()
			inv.DeliveredAt = &now
		}
		inv.Status = status
		return nil
	})
}

// FindOrCreateDraftByCustomer returns the customer's open draft, matching by
// id first and then by name. A name match adopts customerID. Drafts pool
// across dates; date only applies to a newly created draft.
func (s *Service) FindOrCreateDraftByCustomer(ctx context.Context, customerID, customerName, date string) (invoicedomain.Invoice, error) {
	customerID = strings.TrimSpace(customerID)
	customerName = strings.TrimSpace(customerName)
	if customerID == "" && customerName == "" {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidCustomer
	}

	defer s.begin(ctx)()

	isDraft := func(inv invoicedomain.Invoice) bool {
		return inv.Status == invoicedomain.InvoiceStatusDraft && inv.ArchivedAt == nil
	}

	if customerID != "" {
		if idx := slices.IndexFunc(s.invoices, func(inv invoicedomain.Invoice) bool {
			return isDraft(inv) && inv.CustomerID == customerID
		}); idx >= 0 {
			return cloneInvoice(s.invoices[idx]), nil
		}
	}

	if customerName != "" {
		if idx := slices.IndexFunc(s.invoices, func(inv invoicedomain.Invoice) bool {
			if customerID != "" && inv.CustomerID != "" && inv.CustomerID != customerID {
				return false
			}
			return isDraft(inv) && strings.EqualFold(strings.TrimSpace(inv.Customer), customerName)
		}); idx >= 0 {
			if customerID == "" || s.invoices[idx].CustomerID != "" {
				return cloneInvoice(s.invoices[idx]), nil
			}
			next := cloneInvoices(s.invoices)
			next[idx].CustomerID = customerID
			next[idx].UpdatedAt = s.clock.Now()
			s.commit(ctx, "backfill_customer", next)
			return cloneInvoice(next[idx]), nil
		}
	}

	invoice := s.prepare(ctx, invoicedomain.Invoice{
		CustomerID: customerID,
		Customer:   customerName,
		Date:       date,
		Status:     invoicedomain.InvoiceStatusDraft,
	})
	next := append(cloneInvoices(s.invoices), invoice)
	s.commit(ctx, "create_draft", next)
	return cloneInvoice(invoice), nil
}

func (s *Service) Archive(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	return s.mutate(ctx, "archive", id, func(inv *invoicedomain.Invoice) error {
		if inv.ArchivedAt == nil {
			now := s.clock.Now()
			inv.ArchivedAt = &now
		}
		return nil
	})
}

func (s *Service) Unarchive(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	return s.mutate(ctx, "unarchive", id, func(inv *invoicedomain.Invoice) error {
		inv.ArchivedAt = nil
		return nil
	})
}

// mutate applies fn to a copy of the invoice, recomputes its totals and
// commits. An error from fn leaves the store untouched.
func (s *Service) mutate(ctx context.Context, op, id string, fn func(*invoicedomain.Invoice) error) (invoicedomain.Invoice, error) {
	defer s.begin(ctx)()

	idx := s.find(id)
	if idx < 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}
	next := cloneInvoices(s.invoices)
	inv := &next[idx]
	if err := fn(inv); err != nil {
		return invoicedomain.Invoice{}, err
	}
	inv.Apply(s.taxRate())
	inv.UpdatedAt = s.clock.Now()
	s.commit(ctx, op, next)
	return cloneInvoice(*inv), nil
}

// prepare fills defaults for a new invoice. Callers hold mu.
func (s *Service) prepare(ctx context.Context, inv invoicedomain.Invoice) invoicedomain.Invoice {
	now := s.clock.Now()
	if inv.ID == "" {
		inv.ID = ids.UUID()
	}
	if inv.InvoiceNo == "" {
		inv.InvoiceNo = s.nextInvoiceNo(ctx)
	}
	if inv.Status == "" {
		inv.Status = invoicedomain.InvoiceStatusDraft
	}
	if inv.Date == "" {
		inv.Date = now.Format(dateLayout)
	}
	inv.Lines = withLineIDs(slices.Clone(inv.Lines))
	if inv.Lines == nil {
		inv.Lines = []invoicedomain.Line{}
	}
	inv.Sources = slices.Clone(inv.Sources)
	inv.Apply(s.taxRate())
	inv.CreatedAt = now
	inv.UpdatedAt = now
	return inv
}

// nextInvoiceNo must be called with mu held.
func (s *Service) nextInvoiceNo(ctx context.Context) string {
	template := s.numberTemplate()
	now := s.clock.Now()

	var maxSeq int64
	for _, inv := range s.invoices {
		if seq, ok := format.ParseInvoiceSequence(template, now, inv.InvoiceNo); ok && seq > maxSeq {
			maxSeq = seq
		}
	}
	number, err := format.FormatInvoiceNumber(template, now, maxSeq+1)
	if err != nil {
		ctxlogger.WithContext(ctx, s.log).Warn("invalid invoice number template, using default",
			zap.String("template", template),
			zap.Error(err),
		)
		number, _ = format.FormatInvoiceNumber(format.DefaultInvoiceNumberTemplate, now, maxSeq+1)
	}
	return number
}

// begin takes mu and the backend writer lock. When the lock is held the
// invoices are reloaded so the mutation applies to the latest write.
func (s *Service) begin(ctx context.Context) func() {
	s.mu.Lock()
	unlock, held := s.adapter.Lock(ctx, invoicedomain.StorageKey)
	if held {
		s.invoices = persist.Load(ctx, s.adapter, invoicedomain.StorageKey, persist.ShapeArray, seed.Invoices)
	}
	return func() {
		unlock()
		s.mu.Unlock()
	}
}

// commit must be called with mu held.
func (s *Service) commit(ctx context.Context, op string, next []invoicedomain.Invoice) {
	s.invoices = next
	s.metrics.IncMutation(storeName, op)
	ctxlogger.WithContext(ctx, s.log).Debug("invoice mutation", zap.String("op", op))
	s.adapter.Save(ctx, invoicedomain.StorageKey, s.invoices)
}

func (s *Service) find(id string) int {
	return slices.IndexFunc(s.invoices, func(inv invoicedomain.Invoice) bool { return inv.ID == id })
}

func (s *Service) taxRate() float64 {
	if s.settings == nil {
		return invoicedomain.DefaultTaxRate
	}
	return s.settings.Get().Tax.Rate
}

func (s *Service) numberTemplate() string {
	if s.settings == nil || s.settings.Get().Invoice.NumberTemplate == "" {
		return format.DefaultInvoiceNumberTemplate
	}
	return s.settings.Get().Invoice.NumberTemplate
}

func (s *Service) transitions() lifecycle.Table[invoicedomain.InvoiceStatus] {
	if s.settings != nil && s.settings.Get().Invoice.StatusPolicy == config.StatusPolicyStrict {
		return invoicedomain.StrictTransitions
	}
	return invoicedomain.PermissiveTransitions
}

func withLineIDs(lines []invoicedomain.Line) []invoicedomain.Line {
	for i := range lines {
		if lines[i].ID == "" {
			lines[i].ID = ids.UUID()
		}
	}
	return lines
}

func cloneInvoice(inv invoicedomain.Invoice) invoicedomain.Invoice {
	inv.Lines = slices.Clone(inv.Lines)
	inv.Sources = slices.Clone(inv.Sources)
	inv.ArchivedAt = cloneTime(inv.ArchivedAt)
	inv.DeliveredAt = cloneTime(inv.DeliveredAt)
	return inv
}

func cloneInvoices(in []invoicedomain.Invoice) []invoicedomain.Invoice {
	if in == nil {
		return nil
	}
	out := make([]invoicedomain.Invoice, len(in))
	for i, inv := range in {
		out[i] = cloneInvoice(inv)
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
