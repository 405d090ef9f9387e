package sat

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// dimacsSolver runs an external SAT solver binary over the CNF encoding of a problem.
// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
type dimacsSolver struct {
	name string
	path string
	args []string
	// inputFile passes the instance as a file argument instead of feeding the standard input
	inputFile bool
	// outputFile makes the solver write its model into a file given as the last argument (minisat-like solvers)
	outputFile bool
}

func newDimacsSolver(name, path string, inputFile, outputFile bool, args ...string) Solver {
	if path == "" {
		path = name
	}
	return &dimacsSolver{
		name:       name,
		path:       path,
		args:       args,
		inputFile:  inputFile,
		outputFile: outputFile,
	}
}

func NewKissatSolver(path string) Solver {
	return newDimacsSolver("kissat", path, false, false, "-q", "--relaxed")
}

func NewCadicalSolver(path string) Solver {
	return newDimacsSolver("cadical", path, false, false, "-q")
}

func NewCryptominisatSolver(path string) Solver {
	return newDimacsSolver("cryptominisat", path, false, false, "--verb", "0")
}

func NewMinisatSolver(path string) Solver {
	return newDimacsSolver("minisat", path, true, true, "-verb=0")
}

func NewGlucoseSolver(path string) Solver {
	return newDimacsSolver("glucose", path, true, true, "-verb=0")
}

func NewSlimeSolver(path string) Solver {
	return newDimacsSolver("slime", path, true, false)
}

func NewOrtoolsatSolver(path string) Solver {
	return newDimacsSolver("ortoolsat", path, true, false)
}

func (solver *dimacsSolver) Solve(ctx context.Context, problem *Problem) (Solution, error) {
	if ctx.Err() != nil {
		return Solution{Status: Unknown}, nil
	}

	instance, feasible := problem.ToCNF()
	if !feasible {
		return Solution{Status: Infeasible}, nil
	}
	dimacs := instance.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	args := append([]string{}, solver.args...)

	var inputTempFile, outputTempFile *os.File
	var err error
	if solver.inputFile {
		// Create a temporary file to hold the DIMACS content
		inputTempFile, err = os.CreateTemp("", "dimacs-*.cnf")
		if err != nil {
			return Solution{}, fmt.Errorf("failed to create temporary file: %w", err)
		}
		defer os.Remove(inputTempFile.Name())

		if _, err := inputTempFile.WriteString(dimacs); err != nil {
			inputTempFile.Close()
			return Solution{}, fmt.Errorf("failed to write DIMACS to temporary file: %w", err)
		}
		if err := inputTempFile.Close(); err != nil {
			return Solution{}, fmt.Errorf("failed to close temporary file: %w", err)
		}
		args = append(args, inputTempFile.Name())
	}
	if solver.outputFile {
		outputTempFile, err = os.CreateTemp("", solver.name+"_output-*.txt")
		if err != nil {
			return Solution{}, fmt.Errorf("failed to create temporary file: %w", err)
		}
		outputTempFile.Close()
		defer os.Remove(outputTempFile.Name())
		args = append(args, outputTempFile.Name())
	}

	cmd := exec.CommandContext(ctx, solver.path, args...)
	if !solver.inputFile {
		cmd.Stdin = strings.NewReader(dimacs) // Feed dimacs into the solver's standard input
	}

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	err = cmd.Run()
	if ctx.Err() != nil { // The process was killed because the deadline expired or the caller gave up
		return Solution{Status: Unknown}, nil
	}

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil && exitCode != 10 && exitCode != 20 {
		return Solution{}, fmt.Errorf("an error occurred during %v execution: %v : %v", solver.name, err.Error(), stdErr.String())
	} else if exitCode == 20 {
		return Solution{Status: Infeasible}, nil
	}

	var satSolution SATSolution
	if solver.outputFile {
		output, err := os.ReadFile(outputTempFile.Name())
		if err != nil {
			return Solution{}, fmt.Errorf("failed to read output file: %w", err)
		}
		satSolution, err = parseModelFile(string(output))
		if err != nil {
			return Solution{}, fmt.Errorf("invalid %v output: %w", solver.name, err)
		}
	} else {
		satSolution, err = parseSolution(stdOut.String())
		if err != nil {
			return Solution{}, fmt.Errorf("invalid %v output: %w", solver.name, err)
		}
	}

	return Solution{Status: Feasible, Model: satSolution.Model(problem.Variables)}, nil
}
