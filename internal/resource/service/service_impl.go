package service

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/smallbiznis/smh/internal/config"
	"github.com/smallbiznis/smh/internal/ids"
	"github.com/smallbiznis/smh/internal/observability/metrics"
	"github.com/smallbiznis/smh/internal/resource/domain"
	"github.com/smallbiznis/smh/internal/seed"
	"github.com/smallbiznis/smh/pkg/log/ctxlogger"
	"github.com/smallbiznis/smh/pkg/persist"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const storeName = "resource"

// defaultPalette colors drivers that were saved without one.
var defaultPalette = []string{"#2563eb", "#16a34a", "#db2777", "#ea580c", "#7c3aed", "#0891b2", "#ca8a04", "#dc2626"}

type Params struct {
	fx.In

	Adapter  *persist.Adapter
	Log      *zap.Logger
	Settings *config.SettingsHolder `optional:"true"`
	Metrics  *metrics.StoreMetrics  `optional:"true"`
}

type Service struct {
	adapter  *persist.Adapter
	log      *zap.Logger
	settings *config.SettingsHolder
	metrics  *metrics.StoreMetrics

	mu    sync.RWMutex
	state domain.Snapshot
}

func New(p Params) domain.Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		adapter:  p.Adapter,
		log:      log.Named("resource.store"),
		settings: p.Settings,
		metrics:  p.Metrics,
	}
	s.Reload(context.Background())
	return s
}

func (s *Service) Reload(ctx context.Context) {
	state := persist.Load(ctx, s.adapter, domain.StorageKey, persist.ShapeObject, seed.Resources)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.mirrorColors(ctx)
}

func (s *Service) Drivers(ctx context.Context) []domain.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Drivers)
}

func (s *Service) Vehicles(ctx context.Context) []domain.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Vehicles)
}

func (s *Service) Shifts(ctx context.Context) []domain.Shift {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Shifts)
}

func (s *Service) Runsheets(ctx context.Context) []domain.RunSheet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRunsheets(s.state.Runsheets)
}

func (s *Service) Snapshot(ctx context.Context) domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.state)
}

func (s *Service) AddDriver(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	driver.Name = strings.TrimSpace(driver.Name)
	if driver.Name == "" {
		return domain.Driver{}, domain.ErrInvalidName
	}
	if driver.ID == "" {
		driver.ID = ids.UUID()
	}
	if driver.Status == "" {
		driver.Status = domain.DriverStatusActive
	}

	defer s.begin(ctx)()

	if s.enforceUniqueness() && s.driverNameTaken(driver.Name, driver.ID) {
		return domain.Driver{}, domain.ErrDuplicateDriverName
	}

	next := cloneSnapshot(s.state)
	next.Drivers = upsert(next.Drivers, driver, func(d domain.Driver) string { return d.ID })
	s.commit(ctx, "add_driver", next, true)
	return driver, nil
}

func (s *Service) UpdateDriver(ctx context.Context, id string, req domain.UpdateDriverRequest) (domain.Driver, error) {
	defer s.begin(ctx)()

	idx := slices.IndexFunc(s.state.Drivers, func(d domain.Driver) bool { return d.ID == id })
	if idx < 0 {
		return domain.Driver{}, domain.ErrNotFound
	}
	driver := s.state.Drivers[idx]
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Driver{}, domain.ErrInvalidName
		}
		if s.enforceUniqueness() && s.driverNameTaken(name, id) {
			return domain.Driver{}, domain.ErrDuplicateDriverName
		}
		driver.Name = name
	}
	if req.Phone != nil {
		driver.Phone = *req.Phone
	}
	if req.Status != nil {
		driver.Status = *req.Status
	}
	if req.LicenseExpiry != nil {
		driver.LicenseExpiry = *req.LicenseExpiry
	}
	if req.Color != nil {
		driver.Color = *req.Color
	}

	next := cloneSnapshot(s.state)
	next.Drivers[idx] = driver
	s.commit(ctx, "update_driver", next, true)
	return driver, nil
}

func (s *Service) RemoveDriver(ctx context.Context, id string) error {
	defer s.begin(ctx)()

	if !slices.ContainsFunc(s.state.Drivers, func(d domain.Driver) bool { return d.ID == id }) {
		return domain.ErrNotFound
	}
	next := cloneSnapshot(s.state)
	next.Drivers = slices.DeleteFunc(next.Drivers, func(d domain.Driver) bool { return d.ID == id })
	s.commit(ctx, "remove_driver", next, true)
	return nil
}

// DriverColorMap maps driver names to their display colors.
func (s *Service) DriverColorMap(ctx context.Context) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return colorMap(s.state.Drivers)
}

func (s *Service) AddVehicle(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	vehicle.Registration = strings.TrimSpace(vehicle.Registration)
	if vehicle.Registration == "" {
		return domain.Vehicle{}, domain.ErrInvalidName
	}
	if vehicle.ID == "" {
		vehicle.ID = ids.UUID()
	}
	if vehicle.Status == "" {
		vehicle.Status = domain.VehicleStatusAvailable
	}

	defer s.begin(ctx)()

	if s.enforceUniqueness() && s.registrationTaken(vehicle.Registration, vehicle.ID) {
		return domain.Vehicle{}, domain.ErrDuplicateRegistration
	}

	next := cloneSnapshot(s.state)
	next.Vehicles = upsert(next.Vehicles, vehicle, func(v domain.Vehicle) string { return v.ID })
	s.commit(ctx, "add_vehicle", next, false)
	return vehicle, nil
}

func (s *Service) UpdateVehicle(ctx context.Context, id string, req domain.UpdateVehicleRequest) (domain.Vehicle, error) {
	defer s.begin(ctx)()

	idx := slices.IndexFunc(s.state.Vehicles, func(v domain.Vehicle) bool { return v.ID == id })
	if idx < 0 {
		return domain.Vehicle{}, domain.ErrNotFound
	}
	vehicle := s.state.Vehicles[idx]
	if req.Registration != nil {
		rego := strings.TrimSpace(*req.Registration)
		if rego == "" {
			return domain.Vehicle{}, domain.ErrInvalidName
		}
		if s.enforceUniqueness() && s.registrationTaken(rego, id) {
			return domain.Vehicle{}, domain.ErrDuplicateRegistration
		}
		vehicle.Registration = rego
	}
	if req.Type != nil {
		vehicle.Type = *req.Type
	}
	if req.Capacity != nil {
		vehicle.Capacity = *req.Capacity
	}
	if req.Status != nil {
		vehicle.Status = *req.Status
	}
	if req.NextService != nil {
		vehicle.NextService = *req.NextService
	}

	next := cloneSnapshot(s.state)
	next.Vehicles[idx] = vehicle
	s.commit(ctx, "update_vehicle", next, false)
	return vehicle, nil
}

func (s *Service) RemoveVehicle(ctx context.Context, id string) error {
	defer s.begin(ctx)()

	if !slices.ContainsFunc(s.state.Vehicles, func(v domain.Vehicle) bool { return v.ID == id }) {
		return domain.ErrNotFound
	}
	next := cloneSnapshot(s.state)
	next.Vehicles = slices.DeleteFunc(next.Vehicles, func(v domain.Vehicle) bool { return v.ID == id })
	s.commit(ctx, "remove_vehicle", next, false)
	return nil
}

func (s *Service) AddShift(ctx context.Context, shift domain.Shift) (domain.Shift, error) {
	if strings.TrimSpace(shift.Date) == "" {
		return domain.Shift{}, domain.ErrInvalidDate
	}
	if strings.TrimSpace(shift.DriverID) == "" {
		return domain.Shift{}, domain.ErrInvalidID
	}
	if shift.ID == "" {
		shift.ID = ids.UUID()
	}
	if shift.Status == "" {
		shift.Status = domain.ShiftStatusPlanned
	}

	defer s.begin(ctx)()

	if s.enforceUniqueness() {
		if existing := s.findShift(shift.Date, shift.DriverID); existing >= 0 && s.state.Shifts[existing].ID != shift.ID {
			return domain.Shift{}, domain.ErrDuplicateShift
		}
	}

	next := cloneSnapshot(s.state)
	next.Shifts = upsert(next.Shifts, shift, func(sh domain.Shift) string { return sh.ID })
	s.commit(ctx, "add_shift", next, false)
	return shift, nil
}

func (s *Service) UpdateShift(ctx context.Context, id string, req domain.UpdateShiftRequest) (domain.Shift, error) {
	defer s.begin(ctx)()

	idx := slices.IndexFunc(s.state.Shifts, func(sh domain.Shift) bool { return sh.ID == id })
	if idx < 0 {
		return domain.Shift{}, domain.ErrNotFound
	}
	shift := s.state.Shifts[idx]
	if req.VehicleID != nil {
		shift.VehicleID = *req.VehicleID
	}
	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if req.Notes != nil {
		shift.Notes = *req.Notes
	}

	next := cloneSnapshot(s.state)
	next.Shifts[idx] = shift
	s.commit(ctx, "update_shift", next, false)
	return shift, nil
}

func (s *Service) SetShiftStatus(ctx context.Context, id string, status domain.ShiftStatus) (domain.Shift, error) {
	defer s.begin(ctx)()

	idx := slices.IndexFunc(s.state.Shifts, func(sh domain.Shift) bool { return sh.ID == id })
	if idx < 0 {
		return domain.Shift{}, domain.ErrNotFound
	}
	shift := s.state.Shifts[idx]
	if err := domain.ShiftTransitions.Check(shift.Status, status); err != nil {
		return domain.Shift{}, err
	}
	shift.Status = status

	next := cloneSnapshot(s.state)
	next.Shifts[idx] = shift
	s.commit(ctx, "set_shift_status", next, false)
	return shift, nil
}

func (s *Service) RemoveShift(ctx context.Context, id string) error {
	defer s.begin(ctx)()

	if !slices.ContainsFunc(s.state.Shifts, func(sh domain.Shift) bool { return sh.ID == id }) {
		return domain.ErrNotFound
	}
	next := cloneSnapshot(s.state)
	next.Shifts = slices.DeleteFunc(next.Shifts, func(sh domain.Shift) bool { return sh.ID == id })
	s.commit(ctx, "remove_shift", next, false)
	return nil
}

// EnsureShift returns the shift for (date, driverID), creating a planned one
// when none exists.
func (s *Service) EnsureShift(ctx context.Context, date, driverID string) (string, error) {
	date = strings.TrimSpace(date)
	driverID = strings.TrimSpace(driverID)
	if date == "" {
		return "", domain.ErrInvalidDate
	}
	if driverID == "" {
		return "", domain.ErrInvalidID
	}

	defer s.begin(ctx)()

	if idx := s.findShift(date, driverID); idx >= 0 {
		return s.state.Shifts[idx].ID, nil
	}

	shift := domain.Shift{
		ID:       ids.UUID(),
		Date:     date,
		DriverID: driverID,
		Status:   domain.ShiftStatusPlanned,
	}
	next := cloneSnapshot(s.state)
	next.Shifts = append(next.Shifts, shift)
	s.commit(ctx, "ensure_shift", next, false)
	return shift.ID, nil
}

// EnsureRunsheet returns the run sheet of shiftID, creating an empty one when
// none exists.
func (s *Service) EnsureRunsheet(ctx context.Context, shiftID string) (string, error) {
	shiftID = strings.TrimSpace(shiftID)
	if shiftID == "" {
		return "", domain.ErrInvalidID
	}

	defer s.begin(ctx)()

	if idx := s.findRunsheet(shiftID); idx >= 0 {
		return s.state.Runsheets[idx].ID, nil
	}

	sheet := domain.RunSheet{ID: ids.UUID(), ShiftID: shiftID, Jobs: []domain.RunJob{}}
	if idx := slices.IndexFunc(s.state.Shifts, func(sh domain.Shift) bool { return sh.ID == shiftID }); idx >= 0 {
		sheet.Date = s.state.Shifts[idx].Date
		sheet.DriverID = s.state.Shifts[idx].DriverID
	}

	next := cloneSnapshot(s.state)
	next.Runsheets = append(next.Runsheets, sheet)
	s.commit(ctx, "ensure_runsheet", next, false)
	return sheet.ID, nil
}

func (s *Service) AddJobsToRunsheet(ctx context.Context, shiftID string, jobs []domain.RunJob) error {
	defer s.begin(ctx)()

	idx := s.findRunsheet(shiftID)
	if idx < 0 {
		return domain.ErrRunsheetNotFound
	}

	next := cloneSnapshot(s.state)
	sheet := &next.Runsheets[idx]
	for _, job := range jobs {
		if job.ID == "" {
			job.ID = ids.UUID()
		}
		sheet.Jobs = append(sheet.Jobs, job)
	}
	s.commit(ctx, "add_jobs", next, false)
	return nil
}

// MoveJobBetweenRunsheets removes jobID from the source run sheet and inserts
// it into the destination at toIndex, clamped to the destination's bounds.
// On a lookup miss the state is left unchanged.
func (s *Service) MoveJobBetweenRunsheets(ctx context.Context, fromShiftID, toShiftID, jobID string, toIndex int) error {
	defer s.begin(ctx)()

	fromIdx := s.findRunsheet(fromShiftID)
	toIdx := s.findRunsheet(toShiftID)
	if fromIdx < 0 || toIdx < 0 {
		return domain.ErrRunsheetNotFound
	}
	pos := slices.IndexFunc(s.state.Runsheets[fromIdx].Jobs, func(j domain.RunJob) bool { return j.ID == jobID })
	if pos < 0 {
		return domain.ErrJobNotFound
	}

	next := cloneSnapshot(s.state)
	from := &next.Runsheets[fromIdx]
	job := from.Jobs[pos]
	from.Jobs = slices.Delete(from.Jobs, pos, pos+1)

	to := &next.Runsheets[toIdx]
	toIndex = max(0, min(toIndex, len(to.Jobs)))
	to.Jobs = slices.Insert(to.Jobs, toIndex, job)

	s.commit(ctx, "move_job", next, false)
	return nil
}

func (s *Service) GetRunsheetBy(ctx context.Context, date, driverID string) (domain.RunSheet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shiftIdx := s.findShift(date, driverID)
	if shiftIdx < 0 {
		return domain.RunSheet{}, false
	}
	sheetIdx := s.findRunsheet(s.state.Shifts[shiftIdx].ID)
	if sheetIdx < 0 {
		return domain.RunSheet{}, false
	}
	return cloneRunsheets(s.state.Runsheets[sheetIdx : sheetIdx+1])[0], true
}

// DeleteRunsheet drops the run sheet of shiftID and keeps the shift.
func (s *Service) DeleteRunsheet(ctx context.Context, shiftID string) error {
	defer s.begin(ctx)()

	if s.findRunsheet(shiftID) < 0 {
		return domain.ErrRunsheetNotFound
	}
	next := cloneSnapshot(s.state)
	next.Runsheets = slices.DeleteFunc(next.Runsheets, func(r domain.RunSheet) bool { return r.ShiftID == shiftID })
	s.commit(ctx, "delete_runsheet", next, false)
	return nil
}

// begin takes mu and the backend writer lock. When the lock is held the
// snapshot is reloaded so the mutation applies to the latest write.
func (s *Service) begin(ctx context.Context) func() {
	s.mu.Lock()
	unlock, held := s.adapter.Lock(ctx, domain.StorageKey)
	if held {
		s.state = persist.Load(ctx, s.adapter, domain.StorageKey, persist.ShapeObject, seed.Resources)
	}
	return func() {
		unlock()
		s.mu.Unlock()
	}
}

// commit must be called with mu held.
func (s *Service) commit(ctx context.Context, op string, next domain.Snapshot, driversChanged bool) {
	s.state = next
	s.metrics.IncMutation(storeName, op)
	ctxlogger.WithContext(ctx, s.log).Debug("resource mutation", zap.String("op", op))
	s.adapter.Save(ctx, domain.StorageKey, s.state)
	if driversChanged {
		s.mirrorColors(ctx)
	}
}

// mirrorColors writes the legacy name → color map. Callers hold mu.
func (s *Service) mirrorColors(ctx context.Context) {
	s.adapter.Save(ctx, domain.DriverColorsKey, colorMap(s.state.Drivers))
}

func (s *Service) enforceUniqueness() bool {
	if s.settings == nil {
		return true
	}
	return s.settings.Get().Resources.EnforceUniqueness
}

func (s *Service) driverNameTaken(name, exceptID string) bool {
	return slices.ContainsFunc(s.state.Drivers, func(d domain.Driver) bool {
		return d.ID != exceptID && strings.EqualFold(strings.TrimSpace(d.Name), name)
	})
}

func (s *Service) registrationTaken(rego, exceptID string) bool {
	normalized := normalizeRegistration(rego)
	return slices.ContainsFunc(s.state.Vehicles, func(v domain.Vehicle) bool {
		return v.ID != exceptID && normalizeRegistration(v.Registration) == normalized
	})
}

func (s *Service) findShift(date, driverID string) int {
	return slices.IndexFunc(s.state.Shifts, func(sh domain.Shift) bool {
		return sh.Date == date && sh.DriverID == driverID
	})
}

func (s *Service) findRunsheet(shiftID string) int {
	return slices.IndexFunc(s.state.Runsheets, func(r domain.RunSheet) bool { return r.ShiftID == shiftID })
}

func normalizeRegistration(rego string) string {
	return strings.ToUpper(strings.Join(strings.Fields(rego), ""))
}

func colorMap(drivers []domain.Driver) map[string]string {
	out := make(map[string]string, len(drivers))
	for i, d := range drivers {
		if d.Name == "" {
			continue
		}
		color := d.Color
		if color == "" {
			color = defaultPalette[i%len(defaultPalette)]
		}
		out[d.Name] = color
	}
	return out
}

func upsert[T any](items []T, item T, key func(T) string) []T {
	id := key(item)
	if idx := slices.IndexFunc(items, func(existing T) bool { return key(existing) == id }); idx >= 0 {
		items[idx] = item
		return items
	}
	return append(items, item)
}

func cloneSnapshot(s domain.Snapshot) domain.Snapshot {
	return domain.Snapshot{
		Drivers:   slices.Clone(s.Drivers),
		Vehicles:  slices.Clone(s.Vehicles),
		Shifts:    slices.Clone(s.Shifts),
		Runsheets: cloneRunsheets(s.Runsheets),
	}
}

func cloneRunsheets(in []domain.RunSheet) []domain.RunSheet {
	if in == nil {
		return nil
	}
	out := make([]domain.RunSheet, len(in))
	for i, r := range in {
		r.Jobs = slices.Clone(r.Jobs)
		out[i] = r
	}
	return out
}
