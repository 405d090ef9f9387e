package model

import "errors"

var (
	// Precondition violations, detected before compilation
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyRoster        = errors.New("there must be at least one student")
	ErrNoTimeSlots        = errors.New("there must be at least one time slot")
	ErrInvalidConstraints = errors.New("invalid constraints")

	// ErrNoValidAssignment is returned when the solver proves infeasibility or stops before finding any assignment
	ErrNoValidAssignment = errors.New("no valid assignment exists under the given constraints")

	// ErrInvalidSchedule is returned by Verify when a result breaks a constraint of its input
	ErrInvalidSchedule = errors.New("invalid schedule")
)

// IsPrecondition tells whether err is a precondition violation (as opposed to infeasibility or a backend failure)
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyRoster) ||
		errors.Is(err, ErrNoTimeSlots) ||
		errors.Is(err, ErrInvalidConstraints)
}
