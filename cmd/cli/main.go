package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/limaJavier/groupscheduling/internal/config"
	"github.com/limaJavier/groupscheduling/pkg/model"
	"github.com/limaJavier/groupscheduling/pkg/sat"
)

// Exit codes follow the SAT-competition convention, plus one for schedules that fail verification
const (
	exitSatisfiable   = 10
	exitInvalid       = 15
	exitUnsatisfiable = 20
)

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}

	// Define arguments
	solverPtr := flag.String("solver", cfg.Solver, fmt.Sprintf("SAT-Solver to use. Allowed values are: %v, where \"%v\" is the default", strings.Join(sat.SolverNames(), ", "), cfg.Solver))
	filePathPtr := flag.String("file", "", "Path to the input file")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	timeoutPtr := flag.Duration("timeout", cfg.SolverTimeout(), "Time limit for the solver; 0 disables it")
	verbosePtr := flag.Bool("verbose", false, "Log the compilation and solving steps to the Standard Error")
	flag.Parse()
	solverStr := strings.ToLower(*solverPtr)
	filePath := *filePathPtr
	outFile := *outFilePathPtr

	// Validate arguments
	if !slices.Contains(sat.SolverNames(), solverStr) {
		log.Fatalf("%v is not a valid solver", solverStr)
	} else if filePath == "" {
		log.Fatal("an input file must be specified")
	} else if *timeoutPtr < 0 {
		log.Fatalf("timeout must not be negative: %v", *timeoutPtr)
	}

	// Extract input
	input, err := model.InputFromJson(filePath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	// Initialize engines
	solver, err := sat.NewSolver(solverStr, cfg.SolverPaths)
	if err != nil {
		log.Fatal(err)
	}

	level := slog.LevelWarn
	if *verbosePtr {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var statistics model.Statistics
	scheduler := model.NewSatScheduler(solver,
		model.WithTimeout(*timeoutPtr),
		model.WithLogger(logger),
		model.WithObserver(func(stats model.Statistics, _ sat.Status, _ time.Duration) {
			statistics = stats
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Build schedule
	result, err := scheduler.Schedule(ctx, input)
	if errors.Is(err, model.ErrNoValidAssignment) {
		fmt.Println(err)
		printStatistics(statistics)
		os.Exit(exitUnsatisfiable)
	} else if err != nil {
		log.Fatalf("an error occurred during schedule construction: %v", err)
	}

	// Verify schedule correctness
	if err := scheduler.Verify(result, input); err != nil {
		fmt.Println(err)
		printStatistics(statistics)
		os.Exit(exitInvalid)
	}

	// Marshal output into json
	resultJson, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if outFile == "" {
		fmt.Println(string(resultJson))
	} else {
		err := os.WriteFile(outFile, resultJson, 0666)
		if err != nil {
			log.Fatalf("an error occurred while writing to the output file: %v", err)
		}
	}

	printStatistics(statistics)
	os.Exit(exitSatisfiable)
}

func printStatistics(statistics model.Statistics) {
	fmt.Printf("Variables: %v\n", statistics.Variables)
	fmt.Printf("Constraints: %v\n", statistics.Constraints)
}
