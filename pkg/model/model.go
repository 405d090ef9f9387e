package model

import (
	"encoding/json"
	"fmt"
)

type TimeSlot string

// UnassignedTimeSlot marks an active group for which the solver reported no time slot
const UnassignedTimeSlot TimeSlot = "Not assigned"

type Student struct {
	Index        int     `json:"-"` // Position in the roster
	Name         string  `json:"name"`
	Attributes   FlagMap `json:"attributes"`
	Availability FlagMap `json:"availabilities"`
}

// Available tells whether the student can meet at the time slot. Missing slots read as unavailable
func (student Student) Available(timeSlot TimeSlot) bool {
	return student.Availability.Get(string(timeSlot))
}

// Has tells whether the student carries the attribute
func (student Student) Has(attribute string) bool {
	return student.Attributes.Get(attribute)
}

type AttributeConstraint struct {
	MinPerGroup *int `json:"min_per_group,omitempty" mapstructure:"min_per_group"`
	MaxPerGroup *int `json:"max_per_group,omitempty" mapstructure:"max_per_group"`
}

type SchedulingConstraints struct {
	AttributeConstraints map[string]AttributeConstraint `json:"attribute_constraints" mapstructure:"attribute_constraints"`
	GroupSizeMin         int                            `json:"group_size_min" mapstructure:"group_size_min"`
	GroupSizeMax         *int                           `json:"group_size_max" mapstructure:"group_size_max"` // nil when unbounded
	GroupCountMin        int                            `json:"group_count_min" mapstructure:"group_count_min"`
	GroupCountMax        *int                           `json:"group_count_max" mapstructure:"group_count_max"` // nil when unbounded
}

// NewSchedulingConstraints returns constraints with both minimums at 1 and no maximums
func NewSchedulingConstraints() SchedulingConstraints {
	return SchedulingConstraints{
		AttributeConstraints: make(map[string]AttributeConstraint),
		GroupSizeMin:         1,
		GroupCountMin:        1,
	}
}

type ModelInput struct {
	Students    []Student
	TimeSlots   []TimeSlot
	Constraints SchedulingConstraints
}

type Group struct {
	GroupId  int       `json:"group_id"`
	TimeSlot TimeSlot  `json:"time_slot"`
	Students []Student `json:"students"`
	Size     int       `json:"size"`
}

// Range is an inclusive bound whose maximum may be absent. It serializes as [min, max|null]
type Range struct {
	Min int
	Max *int
}

func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.Min, r.Max})
}

func (r *Range) UnmarshalJSON(data []byte) error {
	var pair []*int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	} else if len(pair) != 2 || pair[0] == nil {
		return fmt.Errorf("range must be a [min, max|null] pair: %s", data)
	}
	r.Min, r.Max = *pair[0], pair[1]
	return nil
}

// Contains tells whether value lies within the range
func (r Range) Contains(value int) bool {
	return value >= r.Min && (r.Max == nil || value <= *r.Max)
}

// Statistics describes the compiled problem behind a result
type Statistics struct {
	Variables   uint64
	Constraints uint64
	GroupSlots  int
}

type ScheduleResult struct {
	Groups             []Group                        `json:"groups"`
	ConstraintsApplied map[string]AttributeConstraint `json:"constraints_applied"`
	TotalStudents      int                            `json:"total_students"`
	TotalGroups        int                            `json:"total_groups"`
	GroupSizeRange     Range                          `json:"group_size_range"`
	GroupCountRange    Range                          `json:"group_count_range"`
	Statistics         Statistics                     `json:"-"`
}
