package sat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDIMACS(t *testing.T) {
	instance := SAT{
		Variables: 3,
		Clauses:   [][]int64{{1, -2}, {2, 3}, {-1}},
	}

	assert.Equal(t, "p cnf 3 3\n1 -2 0\n2 3 0\n-1 0\n", instance.ToDIMACS())
}

func TestNormalize(t *testing.T) {
	t.Run("Less or equal flips literals", func(t *testing.T) {
		constraints, feasible := normalize(LinearConstraint{Terms: Ones(1, 2, 3), Relation: LessOrEqual, Bound: 1})

		require.True(t, feasible)
		require.Len(t, constraints, 1)
		assert.Equal(t, []int64{-1, -2, -3}, constraints[0].lits)
		assert.Equal(t, []int64{1, 1, 1}, constraints[0].weights)
		assert.Equal(t, int64(2), constraints[0].atLeast)
	})

	t.Run("Equality splits in two", func(t *testing.T) {
		constraints, feasible := normalize(LinearConstraint{Terms: Ones(1, 2), Relation: Equal, Bound: 1, Enforcement: 7})

		require.True(t, feasible)
		require.Len(t, constraints, 2)
		for _, constraint := range constraints {
			assert.Equal(t, int64(7), constraint.enforcement)
			assert.Equal(t, int64(1), constraint.atLeast)
		}
	})

	t.Run("Terms on the same variable are merged", func(t *testing.T) {
		// x1 + ¬x1 + x2 >= 2  <=>  x2 >= 1
		constraints, feasible := normalize(LinearConstraint{Terms: Ones(1, -1, 2), Relation: GreaterOrEqual, Bound: 2})

		require.True(t, feasible)
		require.Len(t, constraints, 1)
		assert.Equal(t, []int64{2}, constraints[0].lits)
		assert.Equal(t, int64(1), constraints[0].atLeast)
	})

	t.Run("Trivially true constraints vanish", func(t *testing.T) {
		constraints, feasible := normalize(LinearConstraint{Terms: Ones(1, 2), Relation: LessOrEqual, Bound: 2})

		assert.True(t, feasible)
		assert.Empty(t, constraints)
	})

	t.Run("Trivially false constraints", func(t *testing.T) {
		_, feasible := normalize(LinearConstraint{Terms: Ones(1, 2), Relation: GreaterOrEqual, Bound: 3})
		assert.False(t, feasible)

		constraints, feasible := normalize(LinearConstraint{Terms: nil, Relation: GreaterOrEqual, Bound: 1, Enforcement: 4})
		require.True(t, feasible)
		require.Len(t, constraints, 1)
		assert.Equal(t, []int64{-4}, constraints[0].lits)
		assert.Zero(t, constraints[0].enforcement)
	})
}

// The CNF encoding must accept exactly the assignments that satisfy the original constraint, for some binding of the
// auxiliary counter variables
func TestToCNFEquivalence(t *testing.T) {
	type testCase struct {
		terms    []Term
		relation Relation
		bound    int64
		enforced bool
	}

	cases := make([]testCase, 0)
	for _, relation := range []Relation{LessOrEqual, Equal, GreaterOrEqual} {
		for bound := int64(0); bound <= 4; bound++ {
			for _, enforced := range []bool{false, true} {
				cases = append(cases,
					testCase{Ones(1, 2, 3, 4), relation, bound, enforced},
					testCase{[]Term{{1, 1}, {-2, 1}, {3, 2}}, relation, bound, enforced},
					testCase{[]Term{{1, 1}, {2, 1}, {3, -1}}, relation, bound - 1, enforced},
				)
			}
		}
	}

	for _, c := range cases {
		name := fmt.Sprintf("%v %v %v enforced=%v", c.terms, c.relation, c.bound, c.enforced)
		t.Run(name, func(t *testing.T) {
			//** Arrange
			problem := NewProblem()
			for i := range 5 {
				problem.DeclareBoolVar(fmt.Sprint(i))
			}
			constraint := LinearConstraint{Terms: c.terms, Relation: c.relation, Bound: c.bound}
			if c.enforced {
				constraint.Enforcement = 5
			}
			problem.AddConstraint(constraint)

			//** Act
			instance, feasible := problem.ToCNF()

			//** Assert
			for assignment := range 1 << problem.Variables {
				value := func(variable int64) bool { return assignment&(1<<(variable-1)) != 0 }
				expected := constraint.Satisfied(value)
				if !feasible {
					assert.False(t, expected)
					continue
				}
				assert.Equal(t, expected, extendable(instance, problem.Variables, value), "assignment %05b", assignment)
			}
		})
	}
}

// extendable tells whether some binding of the auxiliary variables satisfies every clause
func extendable(instance SAT, fixed uint64, value func(variable int64) bool) bool {
	auxiliaries := instance.Variables - fixed
	for extension := range 1 << auxiliaries {
		full := func(variable int64) bool {
			if uint64(variable) <= fixed {
				return value(variable)
			}
			return extension&(1<<(uint64(variable)-fixed-1)) != 0
		}
		if satisfiesAll(instance.Clauses, full) {
			return true
		}
	}
	return false
}

func satisfiesAll(clauses [][]int64, value func(variable int64) bool) bool {
	for _, clause := range clauses {
		satisfied := false
		for _, literal := range clause {
			if literalValue(literal, value) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

func TestParseSolution(t *testing.T) {
	solution, err := parseSolution("c comment\ns SATISFIABLE\nv 1 -2 3\nv -4 5 0\n")
	require.NoError(t, err)
	assert.Equal(t, SATSolution{1, -2, 3, -4, 5}, solution)
	assert.Equal(t, []bool{true, false, true, false}, solution.Model(4))

	solution, err = parseModelFile("SAT\n-1 2 0\n")
	require.NoError(t, err)
	assert.Equal(t, SATSolution{-1, 2}, solution)

	_, err = parseModelFile("UNSAT\n")
	assert.Error(t, err)

	_, err = parseSolution("v 1 x 0\n")
	assert.Error(t, err)
}
