// Package domain contains customers, vendors and bookings.
package domain

import (
	"slices"
	"time"
)

type Customer struct {
	ID          string     `json:"id"`
	CompanyName string     `json:"companyName"`
	Contact     string     `json:"contact,omitempty"`
	Emails      []string   `json:"emails,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Addresses   []string   `json:"addresses,omitempty"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Clone returns a copy that shares no slices or pointers with c.
func (c Customer) Clone() Customer {
	c.Emails = slices.Clone(c.Emails)
	c.Addresses = slices.Clone(c.Addresses)
	if c.ArchivedAt != nil {
		at := *c.ArchivedAt
		c.ArchivedAt = &at
	}
	return c
}

type Vendor struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type,omitempty"`
	Contact         string `json:"contact,omitempty"`
	LastPaymentDate string `json:"lastPaymentDate,omitempty"`
}

type BookingStatus string

const (
	BookingStatusDraft     BookingStatus = "Draft"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusAllocated BookingStatus = "Allocated"
	BookingStatusInvoiced  BookingStatus = "Invoiced"
	BookingStatusCompleted BookingStatus = "Completed"
)

type RateBasis string

const (
	RateBasisPallet RateBasis = "pallet"
	RateBasisSpace  RateBasis = "space"
)

// Booking is one transport job. CustomerName is a copy of the customer's
// company name, refreshed when the customer is renamed through the store.
// DriverName is display text, not a reference.
type Booking struct {
	ID             string        `json:"id"`
	BookingRef     string        `json:"bookingRef"`
	CustomerID     string        `json:"customerId"`
	CustomerName   string        `json:"customerName"`
	PickupAddress  string        `json:"pickupAddress,omitempty"`
	PickupSuburb   string        `json:"pickupSuburb,omitempty"`
	DropoffAddress string        `json:"dropoffAddress,omitempty"`
	DropoffSuburb  string        `json:"dropoffSuburb,omitempty"`
	Date           string        `json:"date"`
	Status         BookingStatus `json:"status"`
	DriverName     string        `json:"driverName,omitempty"`
	Pallets        int           `json:"pallets"`
	Spaces         int           `json:"spaces"`
	ChargeTo       string        `json:"chargeTo,omitempty"`
	PalletType     string        `json:"palletType,omitempty"`
	TransferType   string        `json:"transferType,omitempty"`
	PODMethod      string        `json:"podMethod,omitempty"`
	PODReceived    bool          `json:"podReceived"`
	CustomerRef1   string        `json:"customerRef1,omitempty"`
	CustomerRef2   string        `json:"customerRef2,omitempty"`
	RateBasis      RateBasis     `json:"rateBasis,omitempty"`
	UnitPrice      float64       `json:"unitPrice,omitempty"`
	InvoiceTotal   *float64      `json:"invoiceTotal,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Clone returns a copy that does not share InvoiceTotal with b.
func (b Booking) Clone() Booking {
	if b.InvoiceTotal != nil {
		total := *b.InvoiceTotal
		b.InvoiceTotal = &total
	}
	return b
}

// Quantity is the chargeable count under the booking's rate basis.
func (b Booking) Quantity() int {
	if b.RateBasis == RateBasisSpace {
		return b.Spaces
	}
	return b.Pallets
}

// ComputeInvoiceTotal returns quantity × unit price. The stores never call it
// on their own; callers set InvoiceTotal when they want it refreshed.
func (b Booking) ComputeInvoiceTotal() float64 {
	return float64(b.Quantity()) * b.UnitPrice
}

// BookingFilter narrows ListBookings. Zero fields match everything.
type BookingFilter struct {
	Status     BookingStatus `json:"status,omitempty"`
	CustomerID string        `json:"customerId,omitempty"`
	DateFrom   string        `json:"dateFrom,omitempty"`
	DateTo     string        `json:"dateTo,omitempty"`
	Query      string        `json:"query,omitempty"`
}

// SavedView is a named booking filter.
type SavedView struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Filter BookingFilter `json:"filter"`
}

// Snapshot is the document persisted under StorageKey.
type Snapshot struct {
	Customers []Customer `json:"customers"`
	Vendors   []Vendor   `json:"vendors"`
	Bookings  []Booking  `json:"bookings"`
}

const (
	StorageKey        = "smh.appdata"
	SavedViewsKey     = "bookings.savedViews"
	DateCoercedPrefix = "smh.dateCoerced."
)
