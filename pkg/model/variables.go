package model

import (
	"fmt"

	"github.com/limaJavier/groupscheduling/pkg/sat"
)

// variableTable holds the handles of the decision variables of a compiled problem
type variableTable struct {
	// assign[s][g] holds iff student s is placed in group slot g
	assign [][]int64
	// usesTime[g][t] holds iff group slot g meets at time slot t
	usesTime [][]int64
	// active[g] holds iff group slot g is in use
	active []int64
}

// declareVariables declares every variable on the problem, in the order assign, usesTime, active
func declareVariables(problem *sat.Problem, students, groups, timeSlots int) variableTable {
	variables := variableTable{
		assign:   make([][]int64, students),
		usesTime: make([][]int64, groups),
		active:   make([]int64, groups),
	}

	for s := range students {
		variables.assign[s] = make([]int64, groups)
		for g := range groups {
			variables.assign[s][g] = problem.DeclareBoolVar(fmt.Sprintf("student_%d_in_group_%d", s, g))
		}
	}
	for g := range groups {
		variables.usesTime[g] = make([]int64, timeSlots)
		for t := range timeSlots {
			variables.usesTime[g][t] = problem.DeclareBoolVar(fmt.Sprintf("group_%d_uses_time_%d", g, t))
		}
	}
	for g := range groups {
		variables.active[g] = problem.DeclareBoolVar(fmt.Sprintf("group_%d_active", g))
	}

	return variables
}

// groupMembers returns the assign variables of group slot g, one per student
func (variables variableTable) groupMembers(g int) []int64 {
	members := make([]int64, len(variables.assign))
	for s := range variables.assign {
		members[s] = variables.assign[s][g]
	}
	return members
}
