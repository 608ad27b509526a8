package domain

import "github.com/smallbiznis/smh/pkg/lifecycle"

var bookingStates = []BookingStatus{
	BookingStatusDraft,
	BookingStatusConfirmed,
	BookingStatusAllocated,
	BookingStatusInvoiced,
	BookingStatusCompleted,
}

// PermissiveBookingTransitions allows any status to follow any other.
var PermissiveBookingTransitions = lifecycle.Permissive("booking", bookingStates...)

// StrictBookingTransitions follows the job through allocation, delivery and
// billing. Invoicing can happen before or after completion.
var StrictBookingTransitions = lifecycle.NewTable("booking", map[BookingStatus][]BookingStatus{
	BookingStatusDraft:     {BookingStatusConfirmed},
	BookingStatusConfirmed: {BookingStatusDraft, BookingStatusAllocated, BookingStatusInvoiced},
	BookingStatusAllocated: {BookingStatusConfirmed, BookingStatusCompleted, BookingStatusInvoiced},
	BookingStatusCompleted: {BookingStatusInvoiced},
	BookingStatusInvoiced:  {BookingStatusCompleted},
})
