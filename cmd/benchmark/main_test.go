package main

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/limaJavier/groupscheduling/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("00:01:01.12"))
	assert.Equal(t, int64(60*60*1000+60*1000+1000+120), parseDuration("01:01:01.12"))
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("1:01.12"))
	assert.Equal(t, int64(120), parseDuration("0:00.12"))
	assert.Equal(t, int64(120), parseDuration("00:00:00.12"))
}

func TestParseTimeLines(t *testing.T) {
	assert.Equal(t, int64(2000), parseDurationLine("\tElapsed (wall clock) time (h:mm:ss or m:ss): 0:02.00"))
	assert.Equal(t, float32(50), parseMemoryLine("\tMaximum resident set size (kbytes): 51200"))
	assert.Equal(t, int64(98), parseCpuPercentageLine("\tPercent of CPU this job got: 98%"))
}

func TestGenerateRoster(t *testing.T) {
	document, test := generateRoster(25, rand.New(rand.NewPCG(7, 7)))

	content, err := json.Marshal(document)
	require.NoError(t, err)
	input, err := model.InputFromReader(bytes.NewReader(content))
	require.NoError(t, err)

	assert.Len(t, input.Students, 25)
	assert.Equal(t, test.TimeSlots, len(input.TimeSlots))
	assert.Equal(t, 6, *input.Constraints.GroupSizeMax)
	assert.Equal(t, 1, *input.Constraints.AttributeConstraints["leader"].MaxPerGroup)
}

func TestGenerateTests(t *testing.T) {
	tests := generateTests(t.TempDir(), []int{5, 10}, rand.New(rand.NewPCG(1, 1)))

	require.Len(t, tests, 2)
	for i, test := range tests {
		input, err := model.InputFromJson(test.Name)
		require.NoError(t, err)
		assert.Len(t, input.Students, []int{5, 10}[i])
	}
}

func TestRecords(t *testing.T) {
	rows := records([]BenchmarkResult{
		{
			Solver:        "gophersat",
			Test:          TestMetadata{Name: filepath.Join("tmp", "0_20.json"), Students: 20, TimeSlots: 20, Attributes: 1, SizeMax: 6},
			Duration:      1250,
			Memory:        12.3,
			CpuPercentage: 99,
			Result:        unsatisfiable,
		},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "Solver", rows[0][0])
	assert.Equal(t, []string{"gophersat", "0_20.json", "20", "20", "1", "6", "1250", "12.3", "99", "unsatisfiable"}, rows[1])
}
