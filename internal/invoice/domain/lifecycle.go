package domain

import "github.com/smallbiznis/smh/pkg/lifecycle"

var invoiceStates = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusConfirmed,
	InvoiceStatusDelivered,
	InvoiceStatusPaid,
	InvoiceStatusOverdue,
}

// PermissiveTransitions lets any status follow any other.
var PermissiveTransitions = lifecycle.Permissive("invoice", invoiceStates...)

// StrictTransitions only moves forward, except that an overdue invoice can
// still be paid and a confirmed one can go back to draft.
var StrictTransitions = lifecycle.NewTable("invoice", map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:     {InvoiceStatusConfirmed},
	InvoiceStatusConfirmed: {InvoiceStatusDraft, InvoiceStatusDelivered},
	InvoiceStatusDelivered: {InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusOverdue:   {InvoiceStatusPaid},
	InvoiceStatusPaid:      {},
})

// Valid reports whether s is one of the known invoice statuses.
func (s InvoiceStatus) Valid() bool {
	for _, known := range invoiceStates {
		if s == known {
			return true
		}
	}
	return false
}
