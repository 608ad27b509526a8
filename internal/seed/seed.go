// Package seed holds the first-run datasets for the stores. Every call
// returns fresh slices so callers may mutate them.
package seed

import (
	"time"

	appdatadomain "github.com/smallbiznis/smh/internal/appdata/domain"
	invoicedomain "github.com/smallbiznis/smh/internal/invoice/domain"
	resourcedomain "github.com/smallbiznis/smh/internal/resource/domain"
)

const seedDate = "2026-02-05"

var seededAt = time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC)

func Resources() resourcedomain.Snapshot {
	return resourcedomain.Snapshot{
		Drivers: []resourcedomain.Driver{
			{ID: "driver-1", Name: "Sam Carter", Phone: "0412 555 101", Status: resourcedomain.DriverStatusActive, LicenseExpiry: "2027-06-30", Color: "#2563eb"},
			{ID: "driver-2", Name: "Priya Nair", Phone: "0412 555 102", Status: resourcedomain.DriverStatusActive, LicenseExpiry: "2026-11-15", Color: "#16a34a"},
			{ID: "driver-3", Name: "Luke Brennan", Phone: "0412 555 103", Status: resourcedomain.DriverStatusLicenseExpired, LicenseExpiry: "2025-12-01", Color: "#db2777"},
		},
		Vehicles: []resourcedomain.Vehicle{
			{ID: "vehicle-1", Registration: "XQG 984", Type: "Semi Trailer", Capacity: 22, Status: resourcedomain.VehicleStatusAvailable, NextService: "2026-04-10"},
			{ID: "vehicle-2", Registration: "BT 12 RX", Type: "Rigid 12 Pallet", Capacity: 12, Status: resourcedomain.VehicleStatusAvailable, NextService: "2026-03-02"},
			{ID: "vehicle-3", Registration: "YHN 221", Type: "Tautliner", Capacity: 20, Status: resourcedomain.VehicleStatusInService, NextService: "2026-02-20"},
		},
		Shifts: []resourcedomain.Shift{
			{ID: "shift-1", Date: seedDate, DriverID: "driver-1", VehicleID: "vehicle-1", StartTime: "06:00", EndTime: "14:30", Status: resourcedomain.ShiftStatusPlanned},
		},
		Runsheets: []resourcedomain.RunSheet{
			{
				ID:       "runsheet-1",
				ShiftID:  "shift-1",
				Date:     seedDate,
				DriverID: "driver-1",
				Jobs: []resourcedomain.RunJob{
					{ID: "job-1", BookingID: "booking-1", Pickup: "Port Melbourne", Dropoff: "Dandenong South", Pallets: 8, PalletType: "CHEP", TransferType: "Pallet"},
				},
			},
		},
	}
}

func AppData() appdatadomain.Snapshot {
	return appdatadomain.Snapshot{
		Customers: []appdatadomain.Customer{
			{ID: "customer-1", CompanyName: "Harbour Foods", Contact: "Mia Lawson", Emails: []string{"accounts@harbourfoods.example"}, Phone: "03 9555 0101", Addresses: []string{"12 Dock Rd, Port Melbourne VIC 3207"}, CreatedAt: seededAt, UpdatedAt: seededAt},
			{ID: "customer-2", CompanyName: "Southern Timber Co", Contact: "Ben Ortiz", Emails: []string{"ops@southerntimber.example"}, Phone: "03 9555 0202", Addresses: []string{"4 Mill St, Dandenong VIC 3175"}, CreatedAt: seededAt, UpdatedAt: seededAt},
			{ID: "customer-3", CompanyName: "Bayside Beverages", Contact: "Ava Chen", Emails: []string{"freight@baysidebev.example"}, Phone: "03 9555 0303", CreatedAt: seededAt, UpdatedAt: seededAt},
		},
		Vendors: []appdatadomain.Vendor{
			{ID: "vendor-1", Name: "Metro Fuel Cards", Type: "Fuel", Contact: "accounts@metrofuel.example", LastPaymentDate: "2026-01-28"},
			{ID: "vendor-2", Name: "Westside Tyres", Type: "Maintenance", Contact: "03 9555 0909", LastPaymentDate: "2026-01-15"},
		},
		Bookings: []appdatadomain.Booking{
			{
				ID: "booking-1", BookingRef: "BK-1001", CustomerID: "customer-1", CustomerName: "Harbour Foods",
				PickupAddress: "12 Dock Rd", PickupSuburb: "Port Melbourne", DropoffAddress: "88 Abbotts Rd", DropoffSuburb: "Dandenong South",
				Date: seedDate, Status: appdatadomain.BookingStatusAllocated, DriverName: "Sam Carter",
				Pallets: 8, ChargeTo: "Harbour Foods", PalletType: "CHEP", TransferType: "Pallet", PODMethod: "Signature",
				CustomerRef1: "PO-55120", RateBasis: appdatadomain.RateBasisPallet, UnitPrice: 20,
				CreatedAt: seededAt, UpdatedAt: seededAt,
			},
			{
				ID: "booking-2", BookingRef: "BK-1002", CustomerID: "customer-2", CustomerName: "Southern Timber Co",
				PickupAddress: "4 Mill St", PickupSuburb: "Dandenong", DropoffAddress: "210 Princes Hwy", DropoffSuburb: "Geelong",
				Date: seedDate, Status: appdatadomain.BookingStatusConfirmed,
				Spaces: 6, ChargeTo: "Southern Timber Co", TransferType: "Loose", PODMethod: "Photo",
				RateBasis: appdatadomain.RateBasisSpace, UnitPrice: 45,
				CreatedAt: seededAt, UpdatedAt: seededAt,
			},
			{
				ID: "booking-3", BookingRef: "BK-1003", CustomerID: "customer-3", CustomerName: "Bayside Beverages",
				PickupAddress: "1 Bay St", PickupSuburb: "Brighton", DropoffAddress: "55 Hume Hwy", DropoffSuburb: "Craigieburn",
				Date: "2026-02-06", Status: appdatadomain.BookingStatusDraft,
				Pallets: 4, PalletType: "Loscam", TransferType: "Pallet",
				RateBasis: appdatadomain.RateBasisPallet, UnitPrice: 22.5,
				CreatedAt: seededAt, UpdatedAt: seededAt,
			},
		},
	}
}

func Invoices() []invoicedomain.Invoice {
	inv := invoicedomain.Invoice{
		ID:         "invoice-1",
		InvoiceNo:  "INV-2026-0001",
		CustomerID: "customer-1",
		Customer:   "Harbour Foods",
		Date:       "2026-01-30",
		Lines: []invoicedomain.Line{
			{ID: "line-1", Description: "Port Melbourne to Dandenong South, 8 pallets", Quantity: 8, UnitPrice: 20},
		},
		Status:    invoicedomain.InvoiceStatusDelivered,
		CreatedAt: seededAt,
		UpdatedAt: seededAt,
	}
	deliveredAt := seededAt
	inv.DeliveredAt = &deliveredAt
	inv.Apply(invoicedomain.DefaultTaxRate)
	return []invoicedomain.Invoice{inv}
}
