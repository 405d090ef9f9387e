package model

import (
	"sync"

	"github.com/limaJavier/groupscheduling/pkg/sat"
)

// Compilation is the problem built from a ModelInput together with the handles needed to decode its solutions
type Compilation struct {
	Problem   *sat.Problem
	variables variableTable
	groups    int
}

// Statistics returns the size of the compiled problem
func (compilation *Compilation) Statistics() Statistics {
	return Statistics{
		Variables:   compilation.Problem.Variables,
		Constraints: uint64(len(compilation.Problem.Constraints)),
		GroupSlots:  compilation.groups,
	}
}

// MaxGroups is the number of group slots: group_count_max capped by the number of students, or the number of students
func MaxGroups(input ModelInput) int {
	groups := len(input.Students)
	if countMax := input.Constraints.GroupCountMax; countMax != nil && *countMax < groups {
		groups = *countMax
	}
	return groups
}

// Compile translates the input into a constraint-satisfaction problem. It never fails: inconsistent bounds yield an
// unsatisfiable problem, so callers should validate the input first
func Compile(input ModelInput) *Compilation {
	//** Extract attributes's domains
	totalStudents, totalTimeSlots, totalGroups := len(input.Students), len(input.TimeSlots), MaxGroups(input)

	//** Declare variables
	problem := sat.NewProblem()
	variables := declareVariables(problem, totalStudents, totalGroups, totalTimeSlots)

	//** Build constraints
	constraints := []func(state constraintState) []sat.LinearConstraint{
		assignmentConstraints,
		timeSlotConstraints,
		groupSizeConstraints,
		groupCountConstraints,
		capacityConstraints,
		availabilityConstraints,
		attributeConstraints,
		symmetryConstraints,
	}
	state := newConstraintState(input, variables, totalGroups)

	for _, generated := range generateConstraints(constraints, state) {
		for _, constraint := range generated {
			problem.AddConstraint(constraint)
		}
	}

	return &Compilation{
		Problem:   problem,
		variables: variables,
		groups:    totalGroups,
	}
}

// generateConstraints executes the constraints functions on different goroutines and returns their output in the
// functions' order, so the compiled problem does not depend on scheduling
func generateConstraints(constraints []func(state constraintState) []sat.LinearConstraint, state constraintState) [][]sat.LinearConstraint {
	generated := make([][]sat.LinearConstraint, len(constraints))

	var wg sync.WaitGroup
	for i, constraint := range constraints {
		wg.Add(1)
		go func() {
			defer wg.Done()
			generated[i] = constraint(state)
		}()
	}
	wg.Wait()

	return generated
}
