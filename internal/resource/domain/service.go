package domain

import (
	"context"
	"errors"
)

type UpdateDriverRequest struct {
	Name          *string
	Phone         *string
	Status        *DriverStatus
	LicenseExpiry *string
	Color         *string
}

type UpdateVehicleRequest struct {
	Registration *string
	Type         *string
	Capacity     *int
	Status       *VehicleStatus
	NextService  *string
}

type UpdateShiftRequest struct {
	VehicleID *string
	StartTime *string
	EndTime   *string
	Notes     *string
}

type Service interface {
	Drivers(ctx context.Context) []Driver
	Vehicles(ctx context.Context) []Vehicle
	Shifts(ctx context.Context) []Shift
	Runsheets(ctx context.Context) []RunSheet
	Snapshot(ctx context.Context) Snapshot
	Reload(ctx context.Context)

	AddDriver(ctx context.Context, driver Driver) (Driver, error)
	UpdateDriver(ctx context.Context, id string, req UpdateDriverRequest) (Driver, error)
	RemoveDriver(ctx context.Context, id string) error
	DriverColorMap(ctx context.Context) map[string]string

	AddVehicle(ctx context.Context, vehicle Vehicle) (Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, req UpdateVehicleRequest) (Vehicle, error)
	RemoveVehicle(ctx context.Context, id string) error

	AddShift(ctx context.Context, shift Shift) (Shift, error)
	UpdateShift(ctx context.Context, id string, req UpdateShiftRequest) (Shift, error)
	SetShiftStatus(ctx context.Context, id string, status ShiftStatus) (Shift, error)
	RemoveShift(ctx context.Context, id string) error
	EnsureShift(ctx context.Context, date, driverID string) (string, error)

	EnsureRunsheet(ctx context.Context, shiftID string) (string, error)
	AddJobsToRunsheet(ctx context.Context, shiftID string, jobs []RunJob) error
	MoveJobBetweenRunsheets(ctx context.Context, fromShiftID, toShiftID, jobID string, toIndex int) error
	GetRunsheetBy(ctx context.Context, date, driverID string) (RunSheet, bool)
	DeleteRunsheet(ctx context.Context, shiftID string) error
}

var (
	ErrInvalidID             = errors.New("invalid_id")
	ErrInvalidName           = errors.New("invalid_name")
	ErrInvalidDate           = errors.New("invalid_date")
	ErrNotFound              = errors.New("not_found")
	ErrRunsheetNotFound      = errors.New("runsheet_not_found")
	ErrJobNotFound           = errors.New("job_not_found")
	ErrDuplicateDriverName   = errors.New("duplicate_driver_name")
	ErrDuplicateRegistration = errors.New("duplicate_registration")
	ErrDuplicateShift        = errors.New("duplicate_shift")
)
