package model

import (
	"slices"

	"github.com/limaJavier/groupscheduling/pkg/sat"
	"github.com/samber/lo"
)

type constraintState struct {
	input     ModelInput
	variables variableTable

	students,
	groups,
	timeSlots int

	// unavailable lists the <Student, TimeSlot> pairs where the student cannot meet
	unavailable [][2]int
}

func newConstraintState(input ModelInput, variables variableTable, groups int) constraintState {
	unavailable := make([][2]int, 0)
	for s, student := range input.Students {
		for t, timeSlot := range input.TimeSlots {
			if !student.Available(timeSlot) {
				unavailable = append(unavailable, [2]int{s, t})
			}
		}
	}

	return constraintState{
		input:       input,
		variables:   variables,
		students:    len(input.Students),
		groups:      groups,
		timeSlots:   len(input.TimeSlots),
		unavailable: unavailable,
	}
}

// Every student belongs to exactly one group: Σ_g assign(s, g) = 1
func assignmentConstraints(state constraintState) []sat.LinearConstraint {
	constraints := make([]sat.LinearConstraint, 0, state.students)
	for s := range state.students {
		constraints = append(constraints, sat.LinearConstraint{
			Terms:    sat.Ones(state.variables.assign[s]...),
			Relation: sat.Equal,
			Bound:    1,
		})
	}
	return constraints
}

// An active group meets at exactly one time slot and an inactive one at none: Σ_t usesTime(g, t) - active(g) = 0
func timeSlotConstraints(state constraintState) []sat.LinearConstraint {
	constraints := make([]sat.LinearConstraint, 0, state.groups)
	for g := range state.groups {
		terms := sat.Ones(state.variables.usesTime[g]...)
		terms = append(terms, sat.Term{Literal: state.variables.active[g], Coefficient: -1})
		constraints = append(constraints, sat.LinearConstraint{
			Terms:    terms,
			Relation: sat.Equal,
			Bound:    0,
		})
	}
	return constraints
}

// active(g) => min <= size(g) <= max, ¬active(g) => size(g) = 0.
// The lower bound is at least 1, so an active group can never be empty
func groupSizeConstraints(state constraintState) []sat.LinearConstraint {
	constraints := make([]sat.LinearConstraint, 0, 3*state.groups)
	sizeMin := int64(max(state.input.Constraints.GroupSizeMin, 1))
	sizeMax := state.input.Constraints.GroupSizeMax

	for g := range state.groups {
		members := sat.Ones(state.variables.groupMembers(g)...)
		active := state.variables.active[g]

		constraints = append(constraints, sat.LinearConstraint{
			Terms:       members,
			Relation:    sat.GreaterOrEqual,
			Bound:       sizeMin,
			Enforcement: active,
		})
		if sizeMax != nil {
			constraints = append(constraints, sat.LinearConstraint{
				Terms:       members,
				Relation:    sat.LessOrEqual,
				Bound:       int64(*sizeMax),
				Enforcement: active,
			})
		}
		constraints = append(constraints, sat.LinearConstraint{
			Terms:       members,
			Relation:    sat.LessOrEqual,
			Bound:       0,
			Enforcement: -active,
		})
	}
	return constraints
}

// min <= Σ_g active(g) <= max
func groupCountConstraints(state constraintState) []sat.LinearConstraint {
	active := sat.Ones(state.variables.active...)
	constraints := []sat.LinearConstraint{
		{
			Terms:    active,
			Relation: sat.GreaterOrEqual,
			Bound:    int64(state.input.Constraints.GroupCountMin),
		},
	}
	if countMax := state.input.Constraints.GroupCountMax; countMax != nil {
		constraints = append(constraints, sat.LinearConstraint{
			Terms:    active,
			Relation: sat.LessOrEqual,
			Bound:    int64(*countMax),
		})
	}
	return constraints
}

// The active groups must be able to hold every student: Σ_g max·active(g) >= N and Σ_g min·active(g) <= N.
// Both follow from the size and assignment constraints; without them the solver has to refute pigeonhole
// instances (more students than groups can hold) by search
func capacityConstraints(state constraintState) []sat.LinearConstraint {
	constraints := make([]sat.LinearConstraint, 0, 2)
	students := int64(state.students)
	sizeMin := int64(max(state.input.Constraints.GroupSizeMin, 1))

	if sizeMax := state.input.Constraints.GroupSizeMax; sizeMax != nil {
		constraints = append(constraints, sat.LinearConstraint{
			Terms:    weighted(state.variables.active, int64(*sizeMax)),
			Relation: sat.GreaterOrEqual,
			Bound:    students,
		})
	}
	if sizeMin*int64(state.groups) > students {
		constraints = append(constraints, sat.LinearConstraint{
			Terms:    weighted(state.variables.active, sizeMin),
			Relation: sat.LessOrEqual,
			Bound:    students,
		})
	}
	return constraints
}

func weighted(literals []int64, coefficient int64) []sat.Term {
	return lo.Map(literals, func(literal int64, _ int) sat.Term {
		return sat.Term{Literal: literal, Coefficient: coefficient}
	})
}

// A student cannot join a group meeting when the student is unavailable: assign(s, g) + usesTime(g, t) <= 1.
// Only unavailable <Student, TimeSlot> pairs produce constraints
func availabilityConstraints(state constraintState) []sat.LinearConstraint {
	constraints := make([]sat.LinearConstraint, 0, len(state.unavailable)*state.groups)
	for _, pair := range state.unavailable {
		s, t := pair[0], pair[1]
		for g := range state.groups {
			constraints = append(constraints, sat.LinearConstraint{
				Terms:    sat.Ones(state.variables.assign[s][g], state.variables.usesTime[g][t]),
				Relation: sat.LessOrEqual,
				Bound:    1,
			})
		}
	}
	return constraints
}

// active(g) => minPerGroup <= Σ_{s has attribute} assign(s, g) <= maxPerGroup, for every bounded attribute
func attributeConstraints(state constraintState) []sat.LinearConstraint {
	constraints := make([]sat.LinearConstraint, 0)

	attributes := lo.Keys(state.input.Constraints.AttributeConstraints)
	slices.Sort(attributes)

	for _, attribute := range attributes {
		bounds := state.input.Constraints.AttributeConstraints[attribute]
		holders := make([]int, 0)
		for s, student := range state.input.Students {
			if student.Has(attribute) {
				holders = append(holders, s)
			}
		}

		for g := range state.groups {
			members := sat.Ones(lo.Map(holders, func(s int, _ int) int64 {
				return state.variables.assign[s][g]
			})...)

			if bounds.MinPerGroup != nil {
				constraints = append(constraints, sat.LinearConstraint{
					Terms:       members,
					Relation:    sat.GreaterOrEqual,
					Bound:       int64(*bounds.MinPerGroup),
					Enforcement: state.variables.active[g],
				})
			}
			if bounds.MaxPerGroup != nil {
				constraints = append(constraints, sat.LinearConstraint{
					Terms:       members,
					Relation:    sat.LessOrEqual,
					Bound:       int64(*bounds.MaxPerGroup),
					Enforcement: state.variables.active[g],
				})
			}
		}
	}
	return constraints
}

// Group slots are used in increasing order: active(g+1) => active(g). Any feasible assignment can be renumbered to
// satisfy this, so it only prunes symmetric solutions
func symmetryConstraints(state constraintState) []sat.LinearConstraint {
	constraints := make([]sat.LinearConstraint, 0, max(state.groups-1, 0))
	for g := range state.groups - 1 {
		constraints = append(constraints, sat.LinearConstraint{
			Terms: []sat.Term{
				{Literal: state.variables.active[g], Coefficient: 1},
				{Literal: state.variables.active[g+1], Coefficient: -1},
			},
			Relation: sat.GreaterOrEqual,
			Bound:    0,
		})
	}
	return constraints
}
