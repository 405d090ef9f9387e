package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/limaJavier/groupscheduling/pkg/model"
	"github.com/limaJavier/groupscheduling/pkg/sat"
	"github.com/samber/lo"
)

const (
	defaultExecutablePath         = "../../bin/groups"
	KB                            = 1024
	MB                    float32 = 1024 * 1024
)

type ResultType int

const (
	solved ResultType = iota
	unsatisfiable
	invalid
)

var resultTypes = map[ResultType]string{
	solved:        "solved",
	unsatisfiable: "unsatisfiable",
	invalid:       "invalid",
}

type TestMetadata struct {
	Name       string
	Students   int
	TimeSlots  int
	Attributes int
	SizeMax    int
}

type BenchmarkResult struct {
	Solver        string
	Test          TestMetadata
	Duration      int64
	Memory        float32
	CpuPercentage int64
	Result        ResultType
}

func main() {
	executablePtr := flag.String("executable", defaultExecutablePath, "Path to the groups CLI")
	solversPtr := flag.String("solvers", strings.Join(sat.SolverNames(), ","), "Comma-separated solvers to benchmark")
	sizesPtr := flag.String("sizes", "20,50,100,200", "Comma-separated roster sizes")
	seedPtr := flag.Uint64("seed", 1, "Seed of the roster generator")
	outPtr := flag.String("out", "benchmark_results.csv", "Path to the CSV report")
	flag.Parse()

	solvers := lo.Compact(lo.Map(strings.Split(*solversPtr, ","), func(solver string, _ int) string {
		return strings.ToLower(strings.TrimSpace(solver))
	}))
	sizes := lo.Map(strings.Split(*sizesPtr, ","), func(size string, _ int) int {
		return lo.Must(strconv.Atoi(strings.TrimSpace(size)))
	})

	directory, err := os.MkdirTemp("", "groups-benchmark-")
	if err != nil {
		log.Fatalf("cannot create test directory: %v", err)
	}
	defer os.RemoveAll(directory)

	tests := generateTests(directory, sizes, rand.New(rand.NewPCG(*seedPtr, *seedPtr)))
	results := make([]BenchmarkResult, 0, len(tests)*len(solvers))

	for _, test := range tests {
		for _, solver := range solvers {
			fmt.Printf("Benchmarking test \"%v\" with solver \"%v\"\n", test.Name, solver)

			duration, maxMemory, cpuPercentage, result := measure(*executablePtr, solver, test.Name)

			results = append(results, BenchmarkResult{
				Solver:        solver,
				Test:          test,
				Duration:      duration,
				Memory:        maxMemory,
				CpuPercentage: cpuPercentage,
				Result:        result,
			})
		}
	}

	toCsv(*outPtr, results)
}

// generateTests writes one random roster per size into directory
func generateTests(directory string, sizes []int, random *rand.Rand) []TestMetadata {
	tests := make([]TestMetadata, 0, len(sizes))
	for i, students := range sizes {
		document, test := generateRoster(students, random)
		test.Name = filepath.Join(directory, fmt.Sprintf("%d_%d.json", i, students))

		content, err := json.Marshal(document)
		if err != nil {
			log.Fatalf("cannot marshal roster: %v", err)
		}
		if err := os.WriteFile(test.Name, content, 0666); err != nil {
			log.Fatalf("cannot write roster: %v", err)
		}
		tests = append(tests, test)
	}
	return tests
}

// generateRoster builds a roster where every student is available at roughly half of the week's slots and a fifth of
// them are leaders, with groups of at most six members led by one leader at most
func generateRoster(students int, random *rand.Rand) (model.RawModelInput, TestMetadata) {
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	hours := []string{"09:00", "11:00", "14:00", "16:00"}
	timeSlots := make([]string, 0, len(days)*len(hours))
	for _, day := range days {
		for _, hour := range hours {
			timeSlots = append(timeSlots, day+" "+hour)
		}
	}

	data := model.RawStudentData{
		Names:          make([]string, 0, students),
		Attributes:     make([]model.FlagMap, 0, students),
		Availabilities: make([]model.FlagMap, 0, students),
	}
	for s := range students {
		data.Names = append(data.Names, fmt.Sprintf("student_%d", s))

		attributes := model.NewFlagMap()
		attributes.Set("leader", random.IntN(5) == 0)
		data.Attributes = append(data.Attributes, attributes)

		availability := model.NewFlagMap()
		for _, timeSlot := range timeSlots {
			availability.Set(timeSlot, random.IntN(2) == 0)
		}
		data.Availabilities = append(data.Availabilities, availability)
	}

	const sizeMax = 6
	document := model.RawModelInput{
		StudentData: data,
		Constraints: map[string]any{
			"group_size_max": sizeMax,
			"attribute_constraints": map[string]any{
				"leader": map[string]any{"max_per_group": 1},
			},
		},
	}
	return document, TestMetadata{
		Students:   students,
		TimeSlots:  len(timeSlots),
		Attributes: 1,
		SizeMax:    sizeMax,
	}
}

func measure(executablePath, solver, testFile string) (duration int64, maxMemory float32, cpuPercentage int64, result ResultType) {
	cmd := exec.Command("/usr/bin/time", "-v", executablePath, "-solver", solver, "-file", testFile, "-out", os.DevNull)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	switch cmd.ProcessState.ExitCode() {
	case 10:
		result = solved
	case 15:
		result = invalid
	case 20:
		result = unsatisfiable
	default:
		log.Fatalf("an error occurred during the execution \"groups\" at test \"%v\" using solver \"%v\": %v\n", testFile, solver, stdErr.String())
	}

	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	duration = parseDurationLine(getLine("wall clock"))
	maxMemory = parseMemoryLine(getLine("maximum resident set size"))
	cpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))

	return duration, maxMemory, cpuPercentage, result
}

func toCsv(path string, results []BenchmarkResult) {
	file, err := os.Create(path)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.WriteAll(records(results)); err != nil {
		log.Panicf("cannot write CSV records: %v", err)
	}
}

func records(results []BenchmarkResult) [][]string {
	header := []string{"Solver", "Test", "Students", "TimeSlots", "Attributes", "SizeMax", "Duration(ms)", "Memory(MB)", "CPU(%)", "Result"}
	return append([][]string{header}, lo.Map(results, func(result BenchmarkResult, _ int) []string {
		return []string{
			result.Solver,
			filepath.Base(result.Test.Name),
			fmt.Sprintf("%d", result.Test.Students),
			fmt.Sprintf("%d", result.Test.TimeSlots),
			fmt.Sprintf("%d", result.Test.Attributes),
			fmt.Sprintf("%d", result.Test.SizeMax),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
			resultTypes[result.Result],
		}
	})...)
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else if len(parts) == 2 { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return duration
}

func parseMemoryLine(line string) float32 {
	memoryStr := strings.Split(line, ":")[1][1:]
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) / KB
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.Split(line, ":")[1][1:]
	percentageStr = percentageStr[:len(percentageStr)-1]
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
