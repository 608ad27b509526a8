// Package domain contains the fleet resources: drivers, vehicles, shifts and
// run sheets.
package domain

type DriverStatus string

const (
	DriverStatusActive         DriverStatus = "Active"
	DriverStatusInactive       DriverStatus = "Inactive"
	DriverStatusLicenseExpired DriverStatus = "License Expired"
)

type Driver struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Phone         string       `json:"phone,omitempty"`
	Status        DriverStatus `json:"status"`
	LicenseExpiry string       `json:"licenseExpiry,omitempty"`
	Color         string       `json:"color,omitempty"`
}

type VehicleStatus string

const (
	VehicleStatusAvailable VehicleStatus = "Available"
	VehicleStatusInService VehicleStatus = "In Service"
)

type Vehicle struct {
	ID           string        `json:"id"`
	Registration string        `json:"registration"`
	Type         string        `json:"type,omitempty"`
	Capacity     int           `json:"capacity,omitempty"`
	Status       VehicleStatus `json:"status"`
	NextService  string        `json:"nextService,omitempty"`
}

type ShiftStatus string

const (
	ShiftStatusPlanned    ShiftStatus = "planned"
	ShiftStatusInProgress ShiftStatus = "in_progress"
	ShiftStatusCompleted  ShiftStatus = "completed"
	ShiftStatusCancelled  ShiftStatus = "cancelled"
)

// Shift is one driver's working period on a date. By convention there is at
// most one shift per (date, driver).
type Shift struct {
	ID        string      `json:"id"`
	Date      string      `json:"date"`
	DriverID  string      `json:"driverId"`
	VehicleID string      `json:"vehicleId,omitempty"`
	StartTime string      `json:"startTime,omitempty"`
	EndTime   string      `json:"endTime,omitempty"`
	Status    ShiftStatus `json:"status"`
	Notes     string      `json:"notes,omitempty"`
}

// RunJob is one booking's leg on a run sheet.
type RunJob struct {
	ID           string `json:"id"`
	BookingID    string `json:"bookingId,omitempty"`
	Pickup       string `json:"pickup,omitempty"`
	Dropoff      string `json:"dropoff,omitempty"`
	Pallets      int    `json:"pallets,omitempty"`
	Spaces       int    `json:"spaces,omitempty"`
	PalletType   string `json:"palletType,omitempty"`
	TransferType string `json:"transferType,omitempty"`
}

// RunSheet is the ordered job list of a shift. Date and DriverID copy the
// shift's values at creation time.
type RunSheet struct {
	ID       string   `json:"id"`
	ShiftID  string   `json:"shiftId"`
	Date     string   `json:"date"`
	DriverID string   `json:"driverId"`
	Jobs     []RunJob `json:"jobs"`
}

// Snapshot is the document persisted under StorageKey.
type Snapshot struct {
	Drivers   []Driver   `json:"drivers"`
	Vehicles  []Vehicle  `json:"vehicles"`
	Shifts    []Shift    `json:"shifts"`
	Runsheets []RunSheet `json:"runsheets"`
}

const (
	StorageKey      = "smh.resources"
	DriverColorsKey = "driverColors"
)
