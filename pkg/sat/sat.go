package sat

import (
	"fmt"
	"strings"
)

// SATSolution is a list of signed literals as printed by DIMACS solvers
type SATSolution []int64

// SAT is a CNF instance
type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Model turns the signed literals into a model indexed by variable-1, keeping only the first variables entries
func (solution SATSolution) Model(variables uint64) []bool {
	model := make([]bool, variables)
	for _, literal := range solution {
		variable := literal
		if variable < 0 {
			variable = -variable
		}
		if variable == 0 || uint64(variable) > variables {
			continue
		}
		model[variable-1] = literal > 0
	}
	return model
}
