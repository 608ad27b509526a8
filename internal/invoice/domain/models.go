// Package domain contains invoices, their lines and the totals arithmetic.
package domain

import "time"

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "Draft"
	InvoiceStatusConfirmed InvoiceStatus = "Confirmed"
	InvoiceStatusDelivered InvoiceStatus = "Delivered"
	InvoiceStatusPaid      InvoiceStatus = "Paid"
	InvoiceStatusOverdue   InvoiceStatus = "Overdue"
)

// Line is one charge on an invoice. Total always equals Quantity × UnitPrice.
type Line struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

const SourceTypeBooking = "booking"

// Source links an invoice back to the booking it bills.
type Source struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	BookingID string `json:"bookingId"`
}

// Invoice keeps Customer as the name it was issued to; renaming the customer
// later does not touch it.
type Invoice struct {
	ID           string        `json:"id"`
	InvoiceNo    string        `json:"invoiceNo"`
	CustomerID   string        `json:"customerId,omitempty"`
	Customer     string        `json:"customer"`
	Date         string        `json:"date"`
	Lines        []Line        `json:"lines"`
	Subtotal     float64       `json:"subtotal"`
	Tax          float64       `json:"tax"`
	Total        float64       `json:"total"`
	TaxInclusive bool          `json:"taxInclusive"`
	Status       InvoiceStatus `json:"status"`
	ArchivedAt   *time.Time    `json:"archivedAt,omitempty"`
	DeliveredAt  *time.Time    `json:"deliveredAt,omitempty"`
	Sources      []Source      `json:"sources,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// HasBooking reports whether bookingID is already billed on the invoice.
func (i Invoice) HasBooking(bookingID string) bool {
	for _, src := range i.Sources {
		if src.BookingID == bookingID {
			return true
		}
	}
	return false
}

const (
	StorageKey     = "smh.invoices"
	DefaultTaxRate = 0.10
)
