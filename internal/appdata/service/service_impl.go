package service

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/smallbiznis/smh/internal/appdata/domain"
	"github.com/smallbiznis/smh/internal/clock"
	"github.com/smallbiznis/smh/internal/config"
	"github.com/smallbiznis/smh/internal/ids"
	"github.com/smallbiznis/smh/internal/observability/metrics"
	"github.com/smallbiznis/smh/internal/seed"
	"github.com/smallbiznis/smh/pkg/db/pagination"
	"github.com/smallbiznis/smh/pkg/lifecycle"
	"github.com/smallbiznis/smh/pkg/log/ctxlogger"
	"github.com/smallbiznis/smh/pkg/persist"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	storeName  = "appdata"
	dateLayout = "2006-01-02"
)

type Params struct {
	fx.In

	Adapter  *persist.Adapter
	Log      *zap.Logger
	Clock    clock.Clock            `optional:"true"`
	IDs      *ids.Generator         `optional:"true"`
	Settings *config.SettingsHolder `optional:"true"`
	Metrics  *metrics.StoreMetrics  `optional:"true"`
}

type Service struct {
	adapter  *persist.Adapter
	log      *zap.Logger
	clock    clock.Clock
	ids      *ids.Generator
	settings *config.SettingsHolder
	metrics  *metrics.StoreMetrics

	mu    sync.RWMutex
	state domain.Snapshot
	views []domain.SavedView
}

func New(p Params) domain.Service {
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
		log:      log.Named("appdata.store"),
		clock:    clk,
		ids:      p.IDs,
		settings: p.Settings,
		metrics:  p.Metrics,
	}
	s.Reload(context.Background())
	return s
}

func (s *Service) Reload(ctx context.Context) {
	state := persist.Load(ctx, s.adapter, domain.StorageKey, persist.ShapeObject, seed.AppData)
	views := persist.Load(ctx, s.adapter, domain.SavedViewsKey, persist.ShapeArray, func() []domain.SavedView { return nil })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.views = views
}

func (s *Service) Customers(ctx context.Context) []domain.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.state.Customers, domain.Customer.Clone)
}

func (s *Service) Vendors(ctx context.Context) []domain.Vendor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Vendors)
}

func (s *Service) Bookings(ctx context.Context) []domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.state.Bookings, domain.Booking.Clone)
}

func (s *Service) Snapshot(ctx context.Context) domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.state)
}

func (s *Service) AddCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	customer.CompanyName = strings.TrimSpace(customer.CompanyName)
	if customer.CompanyName == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	if customer.ID == "" {
		customer.ID = ids.UUID()
	}
	customer = customer.Clone()
	now := s.clock.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	defer s.begin(ctx, domain.StorageKey)()

	next := cloneSnapshot(s.state)
	next.Customers, customer = upsert(next.Customers, customer,
		func(c domain.Customer) string { return c.ID },
		func(prev domain.Customer, c *domain.Customer) { c.CreatedAt = prev.CreatedAt },
	)
	s.commit(ctx, "add_customer", next)
	return customer.Clone(), nil
}

// UpdateCustomer patches a customer. A new company name is copied onto every
// booking that references the customer.
func (s *Service) UpdateCustomer(ctx context.Context, id string, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	defer s.begin(ctx, domain.StorageKey)()

	idx := slices.IndexFunc(s.state.Customers, func(c domain.Customer) bool { return c.ID == id })
	if idx < 0 {
		return domain.Customer{}, domain.ErrNotFound
	}
	customer := s.state.Customers[idx]
	renamed := false
	if req.CompanyName != nil {
		name := strings.TrimSpace(*req.CompanyName)
		if name == "" {
			return domain.Customer{}, domain.ErrInvalidName
		}
		renamed = name != customer.CompanyName
		customer.CompanyName = name
	}
	if req.Contact != nil {
		customer.Contact = *req.Contact
	}
	if req.Emails != nil {
		customer.Emails = slices.Clone(*req.Emails)
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Addresses != nil {
		customer.Addresses = slices.Clone(*req.Addresses)
	}
	now := s.clock.Now()
	if req.Archived != nil {
		if *req.Archived {
			if customer.ArchivedAt == nil {
				customer.ArchivedAt = &now
			}
		} else {
			customer.ArchivedAt = nil
		}
	}
	customer.UpdatedAt = now

	next := cloneSnapshot(s.state)
	next.Customers[idx] = customer.Clone()
	if renamed {
		for i := range next.Bookings {
			if next.Bookings[i].CustomerID == id {
				next.Bookings[i].CustomerName = customer.CompanyName
			}
		}
	}
	s.commit(ctx, "update_customer", next)
	return customer.Clone(), nil
}

// RemoveCustomer drops the customer and blanks customerId on its bookings.
// Nothing else on the bookings changes.
func (s *Service) RemoveCustomer(ctx context.Context, id string) error {
	defer s.begin(ctx, domain.StorageKey)()

	if !slices.ContainsFunc(s.state.Customers, func(c domain.Customer) bool { return c.ID == id }) {
		return domain.ErrNotFound
	}
	next := cloneSnapshot(s.state)
	next.Customers = slices.DeleteFunc(next.Customers, func(c domain.Customer) bool { return c.ID == id })
	for i := range next.Bookings {
		if next.Bookings[i].CustomerID == id {
			next.Bookings[i].CustomerID = ""
		}
	}
	s.commit(ctx, "remove_customer", next)
	return nil
}

func (s *Service) AddVendor(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error) {
	vendor.Name = strings.TrimSpace(vendor.Name)
	if vendor.Name == "" {
		return domain.Vendor{}, domain.ErrInvalidName
	}
	if vendor.ID == "" {
		vendor.ID = ids.UUID()
	}

	defer s.begin(ctx, domain.StorageKey)()

	next := cloneSnapshot(s.state)
	next.Vendors, vendor = upsert(next.Vendors, vendor, func(v domain.Vendor) string { return v.ID }, nil)
	s.commit(ctx, "add_vendor", next)
	return vendor, nil
}

func (s *Service) UpdateVendor(ctx context.Context, id string, req domain.UpdateVendorRequest) (domain.Vendor, error) {
	defer s.begin(ctx, domain.StorageKey)()

	idx := slices.IndexFunc(s.state.Vendors, func(v domain.Vendor) bool { return v.ID == id })
	if idx < 0 {
		return domain.Vendor{}, domain.ErrNotFound
	}
	vendor := s.state.Vendors[idx]
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Vendor{}, domain.ErrInvalidName
		}
		vendor.Name = name
	}
	if req.Type != nil {
		vendor.Type = *req.Type
	}
	if req.Contact != nil {
		vendor.Contact = *req.Contact
	}
	if req.LastPaymentDate != nil {
		vendor.LastPaymentDate = *req.LastPaymentDate
	}

	next := cloneSnapshot(s.state)
	next.Vendors[idx] = vendor
	s.commit(ctx, "update_vendor", next)
	return vendor, nil
}

func (s *Service) RemoveVendor(ctx context.Context, id string) error {
	defer s.begin(ctx, domain.StorageKey)()

	if !slices.ContainsFunc(s.state.Vendors, func(v domain.Vendor) bool { return v.ID == id }) {
		return domain.ErrNotFound
	}
	next := cloneSnapshot(s.state)
	next.Vendors = slices.DeleteFunc(next.Vendors, func(v domain.Vendor) bool { return v.ID == id })
	s.commit(ctx, "remove_vendor", next)
	return nil
}

func (s *Service) AddBooking(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	if booking.ID == "" {
		booking.ID = ids.UUID()
	}
	if booking.BookingRef == "" {
		booking.BookingRef = s.ids.BookingRef()
	}
	if booking.Status == "" {
		booking.Status = domain.BookingStatusDraft
	}
	if booking.RateBasis == "" {
		booking.RateBasis = domain.RateBasisPallet
	}
	now := s.clock.Now()
	if booking.Date == "" {
		booking.Date = now.Format(dateLayout)
	}
	booking = booking.Clone()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	defer s.begin(ctx, domain.StorageKey)()

	if booking.CustomerName == "" && booking.CustomerID != "" {
		booking.CustomerName = s.customerName(booking.CustomerID)
	}

	next := cloneSnapshot(s.state)
	next.Bookings, booking = upsert(next.Bookings, booking,
		func(b domain.Booking) string { return b.ID },
		func(prev domain.Booking, b *domain.Booking) { b.CreatedAt = prev.CreatedAt },
	)
	s.commit(ctx, "add_booking", next)
	return booking.Clone(), nil
}

// UpdateBooking patches a booking. Status changes go through SetBookingStatus.
func (s *Service) UpdateBooking(ctx context.Context, id string, req domain.UpdateBookingRequest) (domain.Booking, error) {
	defer s.begin(ctx, domain.StorageKey)()

	idx := slices.IndexFunc(s.state.Bookings, func(b domain.Booking) bool { return b.ID == id })
	if idx < 0 {
		return domain.Booking{}, domain.ErrNotFound
	}
	b := s.state.Bookings[idx]
	if req.CustomerID != nil {
		b.CustomerID = *req.CustomerID
		if req.CustomerName == nil {
			if name := s.customerName(b.CustomerID); name != "" {
				b.CustomerName = name
			}
		}
	}
	applyString(&b.CustomerName, req.CustomerName)
	applyString(&b.PickupAddress, req.PickupAddress)
	applyString(&b.PickupSuburb, req.PickupSuburb)
	applyString(&b.DropoffAddress, req.DropoffAddress)
	applyString(&b.DropoffSuburb, req.DropoffSuburb)
	applyString(&b.Date, req.Date)
	applyString(&b.DriverName, req.DriverName)
	applyString(&b.ChargeTo, req.ChargeTo)
	applyString(&b.PalletType, req.PalletType)
	applyString(&b.TransferType, req.TransferType)
	applyString(&b.PODMethod, req.PODMethod)
	applyString(&b.CustomerRef1, req.CustomerRef1)
	applyString(&b.CustomerRef2, req.CustomerRef2)
	if req.Pallets != nil {
		b.Pallets = *req.Pallets
	}
	if req.Spaces != nil {
		b.Spaces = *req.Spaces
	}
	if req.PODReceived != nil {
		b.PODReceived = *req.PODReceived
	}
	if req.RateBasis != nil {
		b.RateBasis = *req.RateBasis
	}
	if req.UnitPrice != nil {
		b.UnitPrice = *req.UnitPrice
	}
	if req.InvoiceTotal != nil {
		total := *req.InvoiceTotal
		b.InvoiceTotal = &total
	}
	b.UpdatedAt = s.clock.Now()

	next := cloneSnapshot(s.state)
	next.Bookings[idx] = b
	s.commit(ctx, "update_booking", next)
	return b.Clone(), nil
}

func (s *Service) SetBookingStatus(ctx context.Context, id string, status domain.BookingStatus) (domain.Booking, error) {
	defer s.begin(ctx, domain.StorageKey)()

	idx := slices.IndexFunc(s.state.Bookings, func(b domain.Booking) bool { return b.ID == id })
	if idx < 0 {
		return domain.Booking{}, domain.ErrNotFound
	}
	b := s.state.Bookings[idx].Clone()
	if err := s.transitions().Check(b.Status, status); err != nil {
		return domain.Booking{}, err
	}
	b.Status = status
	b.UpdatedAt = s.clock.Now()

	next := cloneSnapshot(s.state)
	next.Bookings[idx] = b
	s.commit(ctx, "set_booking_status", next)
	return b, nil
}

func (s *Service) RemoveBooking(ctx context.Context, id string) error {
	defer s.begin(ctx, domain.StorageKey)()

	if !slices.ContainsFunc(s.state.Bookings, func(b domain.Booking) bool { return b.ID == id }) {
		return domain.ErrNotFound
	}
	next := cloneSnapshot(s.state)
	next.Bookings = slices.DeleteFunc(next.Bookings, func(b domain.Booking) bool { return b.ID == id })
	s.commit(ctx, "remove_booking", next)
	return nil
}

func (s *Service) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := slices.IndexFunc(s.state.Bookings, func(b domain.Booking) bool { return b.ID == id })
	if idx < 0 {
		return domain.Booking{}, domain.ErrNotFound
	}
	return s.state.Bookings[idx].Clone(), nil
}

func (s *Service) ListBookings(ctx context.Context, req domain.ListBookingsRequest) (domain.ListBookingsResponse, error) {
	s.mu.RLock()
	matched := make([]domain.Booking, 0, len(s.state.Bookings))
	for _, b := range s.state.Bookings {
		if matchBooking(b, req.Filter) {
			matched = append(matched, b.Clone())
		}
	}
	s.mu.RUnlock()

	page, info, err := pagination.Paginate(matched, req.PageToken, req.PageSize, func(b domain.Booking) string { return b.ID })
	if err != nil {
		return domain.ListBookingsResponse{}, domain.ErrInvalidPageToken
	}
	return domain.ListBookingsResponse{PageInfo: info, Bookings: page}, nil
}

func (s *Service) SavedViews(ctx context.Context) []domain.SavedView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.views)
}

func (s *Service) SaveView(ctx context.Context, name string, filter domain.BookingFilter) (domain.SavedView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.SavedView{}, domain.ErrInvalidName
	}
	view := domain.SavedView{ID: ids.UUID(), Name: name, Filter: filter}

	defer s.begin(ctx, domain.SavedViewsKey)()

	views := slices.Clone(s.views)
	if idx := slices.IndexFunc(views, func(v domain.SavedView) bool { return strings.EqualFold(v.Name, name) }); idx >= 0 {
		view.ID = views[idx].ID
		views[idx] = view
	} else {
		views = append(views, view)
	}
	s.commitViews(ctx, "save_view", views)
	return view, nil
}

func (s *Service) DeleteView(ctx context.Context, id string) error {
	defer s.begin(ctx, domain.SavedViewsKey)()

	if !slices.ContainsFunc(s.views, func(v domain.SavedView) bool { return v.ID == id }) {
		return domain.ErrNotFound
	}
	views := slices.DeleteFunc(slices.Clone(s.views), func(v domain.SavedView) bool { return v.ID == id })
	s.commitViews(ctx, "delete_view", views)
	return nil
}

// CoerceBookingDates moves every booking onto today's date so demo data stays
// current. It runs at most once per calendar day and reports whether it ran.
func (s *Service) CoerceBookingDates(ctx context.Context) bool {
	today := s.clock.Now().Format(dateLayout)
	flag := domain.DateCoercedPrefix + today

	defer s.begin(ctx, domain.StorageKey)()

	if s.adapter.Flag(ctx, flag) {
		return false
	}
	next := cloneSnapshot(s.state)
	for i := range next.Bookings {
		next.Bookings[i].Date = today
	}
	s.commit(ctx, "coerce_dates", next)
	s.adapter.SetFlag(ctx, flag)
	ctxlogger.WithContext(ctx, s.log).Info("booking dates coerced",
		zap.String("date", today),
		zap.Int("bookings", len(next.Bookings)),
	)
	return true
}

// begin takes mu and the backend writer lock for key. When the lock is held
// the value at key is reloaded so the mutation applies to the latest write.
func (s *Service) begin(ctx context.Context, key string) func() {
	s.mu.Lock()
	unlock, held := s.adapter.Lock(ctx, key)
	if held {
		switch key {
		case domain.SavedViewsKey:
			s.views = persist.Load(ctx, s.adapter, key, persist.ShapeArray, func() []domain.SavedView { return nil })
		default:
			s.state = persist.Load(ctx, s.adapter, key, persist.ShapeObject, seed.AppData)
		}
	}
	return func() {
		unlock()
		s.mu.Unlock()
	}
}

// commit must be called with mu held.
func (s *Service) commit(ctx context.Context, op string, next domain.Snapshot) {
	s.state = next
	s.metrics.IncMutation(storeName, op)
	ctxlogger.WithContext(ctx, s.log).Debug("appdata mutation", zap.String("op", op))
	s.adapter.Save(ctx, domain.StorageKey, s.state)
}

func (s *Service) commitViews(ctx context.Context, op string, views []domain.SavedView) {
	s.views = views
	s.metrics.IncMutation(storeName, op)
	s.adapter.Save(ctx, domain.SavedViewsKey, s.views)
}

func (s *Service) transitions() lifecycle.Table[domain.BookingStatus] {
	if s.settings != nil && s.settings.Get().Invoice.StatusPolicy == config.StatusPolicyStrict {
		return domain.StrictBookingTransitions
	}
	return domain.PermissiveBookingTransitions
}

func (s *Service) customerName(id string) string {
	idx := slices.IndexFunc(s.state.Customers, func(c domain.Customer) bool { return c.ID == id })
	if idx < 0 {
		return ""
	}
	return s.state.Customers[idx].CompanyName
}

func matchBooking(b domain.Booking, f domain.BookingFilter) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.CustomerID != "" && b.CustomerID != f.CustomerID {
		return false
	}
	// ISO dates compare lexically.
	if f.DateFrom != "" && b.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && b.Date > f.DateTo {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		fields := []string{b.BookingRef, b.CustomerName, b.PickupSuburb, b.DropoffSuburb, b.DriverName, b.CustomerRef1, b.CustomerRef2}
		return slices.ContainsFunc(fields, func(v string) bool { return strings.Contains(strings.ToLower(v), q) })
	}
	return true
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// upsert replaces the item with the same key, or appends it. keep, when set,
// carries fields over from the replaced item. It returns the stored item.
func upsert[T any](items []T, item T, key func(T) string, keep func(prev T, item *T)) ([]T, T) {
	id := key(item)
	idx := slices.IndexFunc(items, func(v T) bool { return key(v) == id })
	if idx < 0 {
		return append(items, item), item
	}
	if keep != nil {
		keep(items[idx], &item)
	}
	items[idx] = item
	return items, item
}

func cloneAll[T any](items []T, clone func(T) T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, v := range items {
		out[i] = clone(v)
	}
	return out
}

func cloneSnapshot(s domain.Snapshot) domain.Snapshot {
	return domain.Snapshot{
		Customers: cloneAll(s.Customers, domain.Customer.Clone),
		Vendors:   slices.Clone(s.Vendors),
		Bookings:  cloneAll(s.Bookings, domain.Booking.Clone),
	}
}
