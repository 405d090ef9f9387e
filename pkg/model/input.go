package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// RawStudentData is the roster as handed over by the ingestion adapter: three lists aligned by index
type RawStudentData struct {
	Names          []string  `json:"names"`
	Attributes     []FlagMap `json:"attributes"`
	Availabilities []FlagMap `json:"availabilities"`
}

type RawModelInput struct {
	StudentData RawStudentData `json:"student_data"`
	Constraints map[string]any `json:"constraints"`
}

func InputFromJson(file string) (ModelInput, error) {
	reader, err := os.Open(file)
	if err != nil {
		return ModelInput{}, err
	}
	defer reader.Close()

	return InputFromReader(reader)
}

func InputFromReader(reader io.Reader) (ModelInput, error) {
	var rawInput RawModelInput
	if err := json.NewDecoder(reader).Decode(&rawInput); err != nil {
		return ModelInput{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return ProcessRawInput(rawInput)
}

func ProcessRawInput(rawInput RawModelInput) (ModelInput, error) {
	constraints, err := DecodeConstraints(rawInput.Constraints)
	if err != nil {
		return ModelInput{}, err
	}

	students, timeSlots, err := ProcessStudentData(rawInput.StudentData)
	if err != nil {
		return ModelInput{}, err
	}

	input := ModelInput{
		Students:    students,
		TimeSlots:   timeSlots,
		Constraints: constraints,
	}
	if err := input.Validate(); err != nil {
		return ModelInput{}, err
	}
	return input, nil
}

// ProcessStudentData builds the students and the time slots. Time slots are the union of every student's availability
// keys in order of first appearance, and each student's availability is completed with false for the slots it lacks
func ProcessStudentData(data RawStudentData) ([]Student, []TimeSlot, error) {
	totalStudents := len(data.Names)
	if totalStudents == 0 {
		return nil, nil, ErrEmptyRoster
	} else if len(data.Attributes) != 0 && len(data.Attributes) != totalStudents {
		return nil, nil, fmt.Errorf("%w: %v names but %v attribute rows", ErrInvalidInput, totalStudents, len(data.Attributes))
	} else if len(data.Availabilities) == 0 {
		return nil, nil, ErrNoTimeSlots
	} else if len(data.Availabilities) != totalStudents {
		return nil, nil, fmt.Errorf("%w: %v names but %v availability rows", ErrInvalidInput, totalStudents, len(data.Availabilities))
	}

	//** Extract time slots
	timeSlots := make([]TimeSlot, 0)
	seen := make(map[string]bool)
	for _, availability := range data.Availabilities {
		for _, key := range availability.Keys() {
			if !seen[key] {
				seen[key] = true
				timeSlots = append(timeSlots, TimeSlot(key))
			}
		}
	}
	if len(timeSlots) == 0 {
		return nil, nil, ErrNoTimeSlots
	}

	//** Build students
	students := lo.Map(data.Names, func(name string, i int) Student {
		availability := NewFlagMap()
		for _, timeSlot := range timeSlots {
			availability.Set(string(timeSlot), data.Availabilities[i].Get(string(timeSlot)))
		}

		attributes := NewFlagMap()
		if len(data.Attributes) != 0 {
			attributes = data.Attributes[i].Clone()
		}

		return Student{
			Index:        i,
			Name:         name,
			Attributes:   attributes,
			Availability: availability,
		}
	})

	return students, timeSlots, nil
}

// DecodeConstraints decodes a loosely typed constraints map (JSON document or form values) into SchedulingConstraints.
// Strings holding numbers are accepted, absent or non-positive minimums default to 1 and non-positive maximums mean
// "unbounded"
func DecodeConstraints(rawConstraints map[string]any) (SchedulingConstraints, error) {
	constraints := NewSchedulingConstraints()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &constraints,
	})
	if err != nil {
		return SchedulingConstraints{}, err
	}
	if err := decoder.Decode(rawConstraints); err != nil {
		return SchedulingConstraints{}, fmt.Errorf("%w: %v", ErrInvalidConstraints, err)
	}

	if constraints.AttributeConstraints == nil {
		constraints.AttributeConstraints = make(map[string]AttributeConstraint)
	}
	if constraints.GroupSizeMin <= 0 {
		constraints.GroupSizeMin = 1
	}
	if constraints.GroupCountMin <= 0 {
		constraints.GroupCountMin = 1
	}
	if constraints.GroupSizeMax != nil && *constraints.GroupSizeMax <= 0 {
		constraints.GroupSizeMax = nil
	}
	if constraints.GroupCountMax != nil && *constraints.GroupCountMax <= 0 {
		constraints.GroupCountMax = nil
	}

	return constraints, nil
}

// Validate checks the preconditions of compilation
func (input ModelInput) Validate() error {
	if len(input.Students) == 0 {
		return ErrEmptyRoster
	} else if len(input.TimeSlots) == 0 {
		return ErrNoTimeSlots
	}
	return input.Constraints.Validate()
}

func (constraints SchedulingConstraints) Validate() error {
	if constraints.GroupSizeMin < 1 {
		return fmt.Errorf("%w: group_size_min must be at least 1: %v", ErrInvalidConstraints, constraints.GroupSizeMin)
	} else if constraints.GroupSizeMax != nil && *constraints.GroupSizeMax < constraints.GroupSizeMin {
		return fmt.Errorf("%w: group_size_min (%v) must not exceed group_size_max (%v)", ErrInvalidConstraints, constraints.GroupSizeMin, *constraints.GroupSizeMax)
	} else if constraints.GroupCountMin < 1 {
		return fmt.Errorf("%w: group_count_min must be at least 1: %v", ErrInvalidConstraints, constraints.GroupCountMin)
	} else if constraints.GroupCountMax != nil && *constraints.GroupCountMax < constraints.GroupCountMin {
		return fmt.Errorf("%w: group_count_min (%v) must not exceed group_count_max (%v)", ErrInvalidConstraints, constraints.GroupCountMin, *constraints.GroupCountMax)
	}

	for attribute, bounds := range constraints.AttributeConstraints {
		if bounds.MinPerGroup != nil && *bounds.MinPerGroup < 0 {
			return fmt.Errorf("%w: min_per_group of attribute \"%v\" must not be negative", ErrInvalidConstraints, attribute)
		} else if bounds.MaxPerGroup != nil && *bounds.MaxPerGroup < 0 {
			return fmt.Errorf("%w: max_per_group of attribute \"%v\" must not be negative", ErrInvalidConstraints, attribute)
		} else if bounds.MinPerGroup != nil && bounds.MaxPerGroup != nil && *bounds.MinPerGroup > *bounds.MaxPerGroup {
			return fmt.Errorf("%w: min_per_group (%v) of attribute \"%v\" must not exceed its max_per_group (%v)", ErrInvalidConstraints, *bounds.MinPerGroup, attribute, *bounds.MaxPerGroup)
		}
	}
	return nil
}

// GroupSizeRange returns the configured size bounds
func (constraints SchedulingConstraints) GroupSizeRange() Range {
	return Range{Min: constraints.GroupSizeMin, Max: constraints.GroupSizeMax}
}

// GroupCountRange returns the configured count bounds
func (constraints SchedulingConstraints) GroupCountRange() Range {
	return Range{Min: constraints.GroupCountMin, Max: constraints.GroupCountMax}
}
