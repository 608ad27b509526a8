package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/smh/pkg/db/pagination"
	"github.com/smallbiznis/smh/pkg/lifecycle"
)

type UpdateCustomerRequest struct {
	CompanyName *string
	Contact     *string
	Emails      *[]string
	Phone       *string
	Addresses   *[]string
	Archived    *bool
}

type UpdateVendorRequest struct {
	Name            *string
	Type            *string
	Contact         *string
	LastPaymentDate *string
}

type UpdateBookingRequest struct {
	CustomerID     *string
	CustomerName   *string
	PickupAddress  *string
	PickupSuburb   *string
	DropoffAddress *string
	DropoffSuburb  *string
	Date           *string
	DriverName     *string
	Pallets        *int
	Spaces         *int
	ChargeTo       *string
	PalletType     *string
	TransferType   *string
	PODMethod      *string
	PODReceived    *bool
	CustomerRef1   *string
	CustomerRef2   *string
	RateBasis      *RateBasis
	UnitPrice      *float64
	InvoiceTotal   *float64
}

type ListBookingsRequest struct {
	Filter    BookingFilter
	PageToken string
	PageSize  int
}

type ListBookingsResponse struct {
	pagination.PageInfo
	Bookings []Booking `json:"bookings"`
}

type Service interface {
	Customers(ctx context.Context) []Customer
	Vendors(ctx context.Context) []Vendor
	Bookings(ctx context.Context) []Booking
	Snapshot(ctx context.Context) Snapshot
	Reload(ctx context.Context)

	AddCustomer(ctx context.Context, customer Customer) (Customer, error)
	UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (Customer, error)
	RemoveCustomer(ctx context.Context, id string) error

	AddVendor(ctx context.Context, vendor Vendor) (Vendor, error)
	UpdateVendor(ctx context.Context, id string, req UpdateVendorRequest) (Vendor, error)
	RemoveVendor(ctx context.Context, id string) error

	AddBooking(ctx context.Context, booking Booking) (Booking, error)
	UpdateBooking(ctx context.Context, id string, req UpdateBookingRequest) (Booking, error)
	SetBookingStatus(ctx context.Context, id string, status BookingStatus) (Booking, error)
	RemoveBooking(ctx context.Context, id string) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context, req ListBookingsRequest) (ListBookingsResponse, error)

	SavedViews(ctx context.Context) []SavedView
	SaveView(ctx context.Context, name string, filter BookingFilter) (SavedView, error)
	DeleteView(ctx context.Context, id string) error

	CoerceBookingDates(ctx context.Context) bool
}

var (
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidPageToken  = errors.New("invalid_page_token")
	ErrNotFound          = errors.New("not_found")
	ErrInvalidTransition = lifecycle.ErrInvalidTransition
)
