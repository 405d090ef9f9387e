package model

import (
	"testing"

	"github.com/limaJavier/groupscheduling/pkg/sat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoStudentsInput() ModelInput {
	constraints := NewSchedulingConstraints()
	constraints.AttributeConstraints["leader"] = AttributeConstraint{MaxPerGroup: intPtr(1)}
	return newInput(
		[]TimeSlot{"Mon", "Tue"},
		[][]bool{{true, true}, {false, true}},
		[][]string{{"leader"}, {}},
		constraints,
	)
}

func modelOf(compilation *Compilation, trueVariables ...int64) []bool {
	model := make([]bool, compilation.Problem.Variables)
	for _, variable := range trueVariables {
		model[variable-1] = true
	}
	return model
}

func TestDecode(t *testing.T) {
	//** Arrange
	input := twoStudentsInput()
	compilation := Compile(input)
	variables := compilation.variables
	solution := sat.Solution{
		Status: sat.Feasible,
		Model: modelOf(compilation,
			variables.assign[0][0], variables.assign[1][0], variables.usesTime[0][1], variables.active[0],
		),
	}

	//** Act
	result, err := Decode(solution, compilation, input)

	//** Assert
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)
	group := result.Groups[0]
	assert.Equal(t, 1, group.GroupId)
	assert.Equal(t, TimeSlot("Tue"), group.TimeSlot)
	assert.Equal(t, 2, group.Size)
	assert.Equal(t, []string{"student_0", "student_1"}, []string{group.Students[0].Name, group.Students[1].Name})
	assert.Equal(t, []int{0, 1}, []int{group.Students[0].Index, group.Students[1].Index})
	assert.Equal(t, 2, result.TotalStudents)
	assert.Equal(t, 1, result.TotalGroups)
	assert.Equal(t, input.Constraints.AttributeConstraints, result.ConstraintsApplied)
	assert.Equal(t, Range{Min: 1}, result.GroupSizeRange)
	assert.NoError(t, Verify(result, input))
}

func TestDecodeSkipsInactiveGroups(t *testing.T) {
	//** Arrange
	input := twoStudentsInput()
	compilation := Compile(input)
	variables := compilation.variables
	solution := sat.Solution{
		Status: sat.Optimal,
		Model: modelOf(compilation,
			variables.assign[0][1], variables.usesTime[1][0], variables.active[1],
			variables.assign[1][0], variables.usesTime[0][1], variables.active[0],
		),
	}

	//** Act
	result, err := Decode(solution, compilation, input)

	//** Assert
	require.NoError(t, err)
	require.Len(t, result.Groups, 2)
	assert.Equal(t, 1, result.Groups[0].GroupId)
	assert.Equal(t, "student_1", result.Groups[0].Students[0].Name)
	assert.Equal(t, 2, result.Groups[1].GroupId)
	assert.Equal(t, TimeSlot("Mon"), result.Groups[1].TimeSlot)
}

func TestDecodeWithoutTimeSlot(t *testing.T) {
	//** Arrange
	input := twoStudentsInput()
	compilation := Compile(input)
	variables := compilation.variables
	solution := sat.Solution{
		Status: sat.Feasible,
		Model:  modelOf(compilation, variables.assign[0][0], variables.assign[1][0], variables.active[0]),
	}

	//** Act
	result, err := Decode(solution, compilation, input)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, UnassignedTimeSlot, result.Groups[0].TimeSlot)
	assert.ErrorIs(t, Verify(result, input), ErrInvalidSchedule)
}

func TestDecodeWithoutAssignment(t *testing.T) {
	input := twoStudentsInput()
	compilation := Compile(input)

	for _, status := range []sat.Status{sat.Infeasible, sat.Unknown} {
		result, err := Decode(sat.Solution{Status: status}, compilation, input)
		assert.ErrorIs(t, err, ErrNoValidAssignment, status.String())
		assert.Empty(t, result.Groups)
	}
}
