package model

import "context"

type Scheduler interface {
	// Schedule partitions the roster into groups, one time slot per group. It returns ErrNoValidAssignment when no
	// partition satisfies the constraints within the solver's budget, and a precondition error for invalid input
	Schedule(ctx context.Context, input ModelInput) (ScheduleResult, error)

	// Verify re-checks a result against the input it was built from
	Verify(result ScheduleResult, input ModelInput) error
}
