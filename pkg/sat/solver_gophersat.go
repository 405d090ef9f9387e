package sat

import (
	"context"

	"github.com/crillab/gophersat/solver"
)

type gophersatSolver struct{}

// searchLock serializes gophersat searches: the library shares scratch buffers between solver instances, so two
// searches must never run at once. It is a channel so that callers can stop waiting when their context ends
var searchLock = make(chan struct{}, 1)

// NewGophersatSolver returns an in-process pseudo-boolean solver. Conditional constraints are translated with the
// big-M transformation Σ w·l + k·¬e >= k
func NewGophersatSolver() Solver {
	return &gophersatSolver{}
}

func (gophersat *gophersatSolver) Solve(ctx context.Context, problem *Problem) (Solution, error) {
	if ctx.Err() != nil {
		return Solution{Status: Unknown}, nil
	}

	constraints, feasible := normalizeProblem(problem)
	if !feasible {
		return Solution{Status: Infeasible}, nil
	}

	pb := solver.ParsePBConstrs(toPBConstrs(constraints))
	s := solver.New(pb)

	select {
	case searchLock <- struct{}{}:
	case <-ctx.Done():
		return Solution{Status: Unknown}, nil
	}

	// gophersat cannot be interrupted, so the search runs on its own goroutine and is abandoned on cancellation.
	// An abandoned search keeps the lock until it ends, so at most one search is ever running
	done := make(chan Solution, 1)
	go func() {
		defer func() { <-searchLock }()

		status := s.Solve()
		switch status {
		case solver.Sat:
			model := s.Model()
			solution := Solution{Status: Feasible, Model: make([]bool, problem.Variables)}
			copy(solution.Model, model)
			done <- solution
		case solver.Unsat:
			done <- Solution{Status: Infeasible}
		default:
			done <- Solution{Status: Unknown}
		}
	}()

	select {
	case solution := <-done:
		return solution, nil
	case <-ctx.Done():
		return Solution{Status: Unknown}, nil
	}
}

func toPBConstrs(constraints []pbConstraint) []solver.PBConstr {
	constrs := make([]solver.PBConstr, 0, len(constraints))
	for _, constraint := range constraints {
		size := len(constraint.lits)
		if constraint.enforcement != 0 {
			size++
		}

		lits, weights := make([]int, 0, size), make([]int, 0, size)
		for i, literal := range constraint.lits {
			lits = append(lits, int(literal))
			weights = append(weights, int(constraint.weights[i]))
		}
		if constraint.enforcement != 0 {
			lits = append(lits, int(-constraint.enforcement))
			weights = append(weights, int(constraint.atLeast))
		}

		constrs = append(constrs, solver.PBConstr{
			Lits:    lits,
			Weights: weights,
			AtLeast: int(constraint.atLeast),
		})
	}
	return constrs
}
