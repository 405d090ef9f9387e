package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputFromJson(t *testing.T) {
	//** Act
	input, err := InputFromJson("testdata/two_slots.json")

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, []TimeSlot{"Tuesday 10:00", "Monday 09:00"}, input.TimeSlots)
	require.Len(t, input.Students, 4)

	diego := input.Students[3]
	assert.Equal(t, "Diego", diego.Name)
	assert.Equal(t, 3, diego.Index)
	assert.True(t, diego.Available("Tuesday 10:00"))
	assert.False(t, diego.Available("Monday 09:00"))
	assert.Equal(t, []string{"Tuesday 10:00", "Monday 09:00"}, diego.Availability.Keys())
	assert.True(t, input.Students[2].Has("leader"))
	assert.False(t, input.Students[2].Has("musician"))

	assert.Equal(t, 2, input.Constraints.GroupSizeMin)
	assert.Equal(t, intPtr(2), input.Constraints.GroupSizeMax)
	assert.Equal(t, AttributeConstraint{MinPerGroup: intPtr(1), MaxPerGroup: intPtr(1)}, input.Constraints.AttributeConstraints["leader"])
}

func TestInputFromReaderPreconditions(t *testing.T) {
	inputs := map[string]error{
		`{"student_data": {"names": [], "availabilities": []}}`:                                            ErrEmptyRoster,
		`{"student_data": {"names": ["a"], "availabilities": [{}]}}`:                                       ErrNoTimeSlots,
		`{"student_data": {"names": ["a", "b"], "availabilities": [{"Mon": 1}]}}`:                          ErrInvalidInput,
		`{"student_data": {"names": ["a"], "attributes": [{}, {}], "availabilities": [{"Mon": 1}]}}`:       ErrInvalidInput,
		`{"student_data": {"names": ["a"], "availabilities": [{"Mon": 1}]}, "constraints": {"size": 3}}`:   ErrInvalidConstraints,
		`{"student_data": {"names": ["a"], "availabilities": [{"Mon": 1}]}, "constraints": {"group_size_min": 3, "group_size_max": 2}}`: ErrInvalidConstraints,
		`{"student_data": {"names": ["a"], "availabilities": [{"Mon": 1}]}, "constraints": {"group_count_min": 2, "group_count_max": 1}}`: ErrInvalidConstraints,
		`{"student_data": {"names": ["a"], "availabilities": [{"Mon": 1}]}, "constraints": {"attribute_constraints": {"x": {"min_per_group": 2, "max_per_group": 1}}}}`: ErrInvalidConstraints,
		`{"student_data": [}`: ErrInvalidInput,
	}

	for document, expected := range inputs {
		_, err := InputFromReader(strings.NewReader(document))
		assert.ErrorIs(t, err, expected, document)
		assert.True(t, IsPrecondition(err), document)
	}
}

func TestDecodeConstraints(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		constraints, err := DecodeConstraints(nil)

		require.NoError(t, err)
		assert.Equal(t, NewSchedulingConstraints(), constraints)
	})

	t.Run("Weakly typed values", func(t *testing.T) {
		constraints, err := DecodeConstraints(map[string]any{
			"group_size_min":  "2",
			"group_size_max":  "4",
			"group_count_min": 0,
			"group_count_max": float64(3),
			"attribute_constraints": map[string]any{
				"leader": map[string]any{"min_per_group": "1"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, constraints.GroupSizeMin)
		assert.Equal(t, intPtr(4), constraints.GroupSizeMax)
		assert.Equal(t, 1, constraints.GroupCountMin)
		assert.Equal(t, intPtr(3), constraints.GroupCountMax)
		assert.Equal(t, intPtr(1), constraints.AttributeConstraints["leader"].MinPerGroup)
		assert.Nil(t, constraints.AttributeConstraints["leader"].MaxPerGroup)
	})

	t.Run("Non-positive maximums are unbounded", func(t *testing.T) {
		constraints, err := DecodeConstraints(map[string]any{"group_size_max": 0, "group_count_max": -1})

		require.NoError(t, err)
		assert.Nil(t, constraints.GroupSizeMax)
		assert.Nil(t, constraints.GroupCountMax)
	})
}

func TestFlagMap(t *testing.T) {
	t.Run("Decoding keeps key order", func(t *testing.T) {
		var flags FlagMap
		err := json.Unmarshal([]byte(`{"z": 1, "a": "0", "m": true, "b": "1", "c": 1.0, "d": "yes"}`), &flags)

		require.NoError(t, err)
		assert.Equal(t, []string{"z", "a", "m", "b", "c", "d"}, flags.Keys())
		assert.True(t, flags.Get("z"))
		assert.False(t, flags.Get("a"))
		assert.True(t, flags.Get("m"))
		assert.True(t, flags.Get("b"))
		assert.True(t, flags.Get("c"))
		assert.False(t, flags.Get("d"))
		assert.False(t, flags.Get("missing"))
		assert.False(t, flags.Contains("missing"))
	})

	t.Run("Encoding", func(t *testing.T) {
		flags := NewFlagMap("b", "a")
		flags.Set("c", false)

		encoded, err := json.Marshal(flags)

		require.NoError(t, err)
		assert.Equal(t, `{"b":1,"a":1,"c":0}`, string(encoded))
	})

	t.Run("Invalid documents", func(t *testing.T) {
		var flags FlagMap
		assert.Error(t, json.Unmarshal([]byte(`[1, 0]`), &flags))
		assert.Error(t, json.Unmarshal([]byte(`{"a": }`), &flags))
	})

	t.Run("Clone is independent", func(t *testing.T) {
		flags := NewFlagMap("a")
		clone := flags.Clone()
		clone.Set("a", false)
		clone.Set("b", true)

		assert.True(t, flags.Get("a"))
		assert.Equal(t, 1, flags.Len())
		assert.Equal(t, 2, clone.Len())
	})
}

func TestRange(t *testing.T) {
	encoded, err := json.Marshal([]Range{{Min: 2, Max: intPtr(4)}, {Min: 1}})
	require.NoError(t, err)
	assert.Equal(t, `[[2,4],[1,null]]`, string(encoded))

	var decoded []Range
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, []Range{{Min: 2, Max: intPtr(4)}, {Min: 1}}, decoded)

	var invalid Range
	assert.Error(t, json.Unmarshal([]byte(`[null, 2]`), &invalid))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &invalid))

	assert.True(t, Range{Min: 2}.Contains(100))
	assert.False(t, Range{Min: 2, Max: intPtr(3)}.Contains(4))
	assert.False(t, Range{Min: 2}.Contains(1))
}

func TestScheduleResultEncoding(t *testing.T) {
	result := ScheduleResult{
		Groups: []Group{{
			GroupId:  1,
			TimeSlot: "Mon",
			Students: []Student{{Index: 0, Name: "Ana", Attributes: NewFlagMap("leader"), Availability: NewFlagMap("Mon")}},
			Size:     1,
		}},
		ConstraintsApplied: map[string]AttributeConstraint{"leader": {MinPerGroup: intPtr(1)}},
		TotalStudents:      1,
		TotalGroups:        1,
		GroupSizeRange:     Range{Min: 1, Max: intPtr(1)},
		GroupCountRange:    Range{Min: 1},
	}

	encoded, err := json.Marshal(result)

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"groups": [{"group_id": 1, "time_slot": "Mon", "size": 1,
			"students": [{"name": "Ana", "attributes": {"leader": 1}, "availabilities": {"Mon": 1}}]}],
		"constraints_applied": {"leader": {"min_per_group": 1}},
		"total_students": 1,
		"total_groups": 1,
		"group_size_range": [1, 1],
		"group_count_range": [1, null]
	}`, string(encoded))
}
