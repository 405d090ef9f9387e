package sat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// parseSolution extracts the model from the "v ..." lines of a solver's standard output
func parseSolution(solverOutput string) (SATSolution, error) {
	fields := lo.Reduce(
		lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(values []string, line string, _ int) []string {
			return append(values, strings.Fields(line[1:])...)
		},
		[]string{},
	)
	return parseLiterals(fields)
}

// parseModelFile parses minisat-like output files: a "SAT" header followed by the model
func parseModelFile(output string) (SATSolution, error) {
	lines := strings.SplitN(output, "\n", 2)
	if strings.TrimSpace(lines[0]) != "SAT" {
		return nil, fmt.Errorf("unexpected header %q", lines[0])
	} else if len(lines) == 1 {
		return SATSolution{}, nil
	}
	return parseLiterals(strings.Fields(lines[1]))
}

func parseLiterals(fields []string) (SATSolution, error) {
	solution := make(SATSolution, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal in solver output: %w", err)
		}
		if value == 0 { // End of model
			break
		}
		solution = append(solution, value)
	}
	return solution, nil
}
