package sat

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

type Status int

const (
	Unknown Status = iota // The solver stopped (deadline, cancellation) before reaching a verdict
	Feasible
	Optimal
	Infeasible
)

func (status Status) String() string {
	switch status {
	case Feasible:
		return "feasible"
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	}
	return "unknown"
}

// Solution is the outcome of a solve. Model is indexed by variable-1 and is only meaningful when the status is Feasible or Optimal
type Solution struct {
	Status Status
	Model  []bool
}

// Satisfiable tells whether the solution carries a usable assignment
func (solution Solution) Satisfiable() bool {
	return solution.Status == Feasible || solution.Status == Optimal
}

// Value returns the binding of a variable (or negative literal). Unbound variables read as false
func (solution Solution) Value(literal int64) bool {
	variable := literal
	if variable < 0 {
		variable = -variable
	}
	value := variable > 0 && variable <= int64(len(solution.Model)) && solution.Model[variable-1]
	if literal < 0 {
		return !value
	}
	return value
}

// Solver decides a Problem. It blocks until a terminal status is reached or ctx is done, in which case the status is Unknown
type Solver interface {
	Solve(ctx context.Context, problem *Problem) (Solution, error)
}

const DefaultSolver = "gophersat"

var solvers = map[string]func(path string) Solver{
	"gophersat":     func(string) Solver { return NewGophersatSolver() },
	"kissat":        NewKissatSolver,
	"cadical":       NewCadicalSolver,
	"cryptominisat": NewCryptominisatSolver,
	"minisat":       NewMinisatSolver,
	"glucose":       NewGlucoseSolver,
	"slime":         NewSlimeSolver,
	"ortoolsat":     NewOrtoolsatSolver,
}

// SolverNames lists the available backends in alphabetical order
func SolverNames() []string {
	names := lo.Keys(solvers)
	slices.Sort(names)
	return names
}

// NewSolver builds the backend registered under name. External solvers take their executable path from paths (falling
// back to the executable's own name, looked up on PATH)
func NewSolver(name string, paths map[string]string) (Solver, error) {
	constructor, ok := solvers[name]
	if !ok {
		return nil, fmt.Errorf("unknown solver \"%v\": allowed values are %v", name, SolverNames())
	}
	return constructor(paths[name]), nil
}
