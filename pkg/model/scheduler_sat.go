package model

import (
	"context"
	"log/slog"
	"time"

	"github.com/limaJavier/groupscheduling/pkg/sat"
)

// Observer is notified once per solve with the size of the compiled problem, the solver's verdict and the time it took
type Observer func(statistics Statistics, status sat.Status, elapsed time.Duration)

type satScheduler struct {
	solver   sat.Solver
	timeout  time.Duration
	logger   *slog.Logger
	observer Observer
}

// Option applies a configuration option to the scheduler
type Option func(*satScheduler)

// WithTimeout bounds each solve. Zero leaves the caller's context as the only limit
func WithTimeout(timeout time.Duration) Option {
	return func(scheduler *satScheduler) {
		if timeout > 0 {
			scheduler.timeout = timeout
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(scheduler *satScheduler) {
		if logger != nil {
			scheduler.logger = logger
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(scheduler *satScheduler) {
		scheduler.observer = observer
	}
}

func NewSatScheduler(solver sat.Solver, options ...Option) Scheduler {
	scheduler := &satScheduler{
		solver: solver,
		logger: slog.Default(),
	}
	for _, option := range options {
		option(scheduler)
	}
	return scheduler
}

func (scheduler *satScheduler) Schedule(ctx context.Context, input ModelInput) (ScheduleResult, error) {
	//** Check preconditions
	if err := input.Validate(); err != nil {
		return ScheduleResult{}, err
	}

	//** Compile
	compilation := Compile(input)
	statistics := compilation.Statistics()
	scheduler.logger.Debug("problem compiled",
		"students", len(input.Students),
		"time_slots", len(input.TimeSlots),
		"group_slots", statistics.GroupSlots,
		"variables", statistics.Variables,
		"constraints", statistics.Constraints,
	)

	//** Solve
	if scheduler.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, scheduler.timeout)
		defer cancel()
	}

	start := time.Now()
	solution, err := scheduler.solver.Solve(ctx, compilation.Problem)
	elapsed := time.Since(start)
	if err != nil {
		scheduler.logger.Error("solver failed", "error", err, "elapsed", elapsed)
		return ScheduleResult{}, err
	}

	scheduler.logger.Debug("problem solved", "status", solution.Status, "elapsed", elapsed)
	if scheduler.observer != nil {
		scheduler.observer(statistics, solution.Status, elapsed)
	}

	//** Decode
	return Decode(solution, compilation, input)
}

func (scheduler *satScheduler) Verify(result ScheduleResult, input ModelInput) error {
	return Verify(result, input)
}
