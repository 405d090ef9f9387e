package model

import (
	"fmt"
	"maps"
	"slices"

	"github.com/limaJavier/groupscheduling/pkg/sat"
)

// Decode rebuilds the groups from a solver's solution. Only Feasible and Optimal solutions produce a result; any other
// status yields ErrNoValidAssignment and no partial schedule
func Decode(solution sat.Solution, compilation *Compilation, input ModelInput) (ScheduleResult, error) {
	switch solution.Status {
	case sat.Feasible, sat.Optimal:
	case sat.Infeasible:
		return ScheduleResult{}, ErrNoValidAssignment
	default:
		return ScheduleResult{}, fmt.Errorf("%w: the solver stopped before reaching a verdict", ErrNoValidAssignment)
	}

	variables := compilation.variables
	groups := make([]Group, 0)
	for g := range compilation.groups {
		if !solution.Value(variables.active[g]) {
			continue
		}

		// Find students in this group
		students := make([]Student, 0)
		for s, student := range input.Students {
			if solution.Value(variables.assign[s][g]) {
				students = append(students, snapshot(student, s))
			}
		}

		// Find time slot for this group
		timeSlot := UnassignedTimeSlot
		for t := range input.TimeSlots {
			if solution.Value(variables.usesTime[g][t]) {
				timeSlot = input.TimeSlots[t]
				break
			}
		}

		groups = append(groups, Group{
			GroupId:  g + 1,
			TimeSlot: timeSlot,
			Students: students,
			Size:     len(students),
		})
	}

	slices.SortFunc(groups, func(a, b Group) int { return a.GroupId - b.GroupId })

	return ScheduleResult{
		Groups:             groups,
		ConstraintsApplied: maps.Clone(input.Constraints.AttributeConstraints),
		TotalStudents:      len(input.Students),
		TotalGroups:        len(groups),
		GroupSizeRange:     input.Constraints.GroupSizeRange(),
		GroupCountRange:    input.Constraints.GroupCountRange(),
		Statistics:         compilation.Statistics(),
	}, nil
}

func snapshot(student Student, index int) Student {
	return Student{
		Index:        index,
		Name:         student.Name,
		Attributes:   student.Attributes.Clone(),
		Availability: student.Availability.Clone(),
	}
}
