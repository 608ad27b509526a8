package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/smh/pkg/lifecycle"
)

type UpdateInvoiceRequest struct {
	InvoiceNo    *string
	CustomerID   *string
	Customer     *string
	Date         *string
	TaxInclusive *bool
	Notes        *string
	Lines        *[]Line
	Sources      *[]Source
}

type UpdateLineRequest struct {
	Description *string
	Quantity    *float64
	UnitPrice   *float64
}

type Service interface {
	Invoices(ctx context.Context) []Invoice
	GetByID(ctx context.Context, id string) (Invoice, error)
	Reload(ctx context.Context)

	NextInvoiceNo(ctx context.Context) string
	CreateInvoice(ctx context.Context, invoice Invoice) (Invoice, error)
	UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) (Invoice, error)
	RemoveInvoice(ctx context.Context, id string) error

	AddLine(ctx context.Context, invoiceID string, line Line) (Invoice, error)
	UpdateLine(ctx context.Context, invoiceID, lineID string, req UpdateLineRequest) (Invoice, error)
	RemoveLine(ctx context.Context, invoiceID, lineID string) (Invoice, error)
	AddSource(ctx context.Context, invoiceID string, source Source) (Invoice, error)

	MarkStatus(ctx context.Context, id string, status InvoiceStatus) (Invoice, error)
	FindOrCreateDraftByCustomer(ctx context.Context, customerID, customerName, date string) (Invoice, error)
	Archive(ctx context.Context, id string) (Invoice, error)
	Unarchive(ctx context.Context, id string) (Invoice, error)
}

var (
	ErrNotFound          = errors.New("not_found")
	ErrLineNotFound      = errors.New("line_not_found")
	ErrInvalidCustomer   = errors.New("invalid_customer")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = lifecycle.ErrInvalidTransition
)
