package domain

import "github.com/smallbiznis/smh/pkg/lifecycle"

// ShiftTransitions is the shift status graph. Cancelled and completed shifts
// can be re-planned; a shift cannot complete without starting.
var ShiftTransitions = lifecycle.NewTable("shift", map[ShiftStatus][]ShiftStatus{
	ShiftStatusPlanned:    {ShiftStatusInProgress, ShiftStatusCancelled},
	ShiftStatusInProgress: {ShiftStatusCompleted, ShiftStatusCancelled, ShiftStatusPlanned},
	ShiftStatusCompleted:  {ShiftStatusPlanned},
	ShiftStatusCancelled:  {ShiftStatusPlanned},
})
