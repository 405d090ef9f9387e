package model

import (
	"fmt"
	"math/rand/v2"
)

func intPtr(value int) *int {
	return &value
}

// newInput builds an input whose students are named student_0, student_1, ... availability[s][t] tells whether
// student s can meet at timeSlots[t] and attributes[s] lists the attributes the student holds
func newInput(timeSlots []TimeSlot, availability [][]bool, attributes [][]string, constraints SchedulingConstraints) ModelInput {
	students := make([]Student, len(availability))
	for s := range availability {
		slots := NewFlagMap()
		for t, timeSlot := range timeSlots {
			slots.Set(string(timeSlot), availability[s][t])
		}
		flags := NewFlagMap()
		if s < len(attributes) {
			flags = NewFlagMap(attributes[s]...)
		}
		students[s] = Student{
			Index:        s,
			Name:         fmt.Sprintf("student_%d", s),
			Attributes:   flags,
			Availability: slots,
		}
	}
	return ModelInput{
		Students:    students,
		TimeSlots:   timeSlots,
		Constraints: constraints,
	}
}

// randomInput draws a small input with consistent bounds. Feasibility is left to chance
func randomInput(random *rand.Rand) ModelInput {
	totalStudents, totalTimeSlots := 1+random.IntN(5), 1+random.IntN(3)

	timeSlots := make([]TimeSlot, totalTimeSlots)
	for t := range timeSlots {
		timeSlots[t] = TimeSlot(fmt.Sprintf("slot_%d", t))
	}

	availability := make([][]bool, totalStudents)
	attributes := make([][]string, totalStudents)
	for s := range totalStudents {
		availability[s] = make([]bool, totalTimeSlots)
		for t := range totalTimeSlots {
			availability[s][t] = random.Float64() < 0.7
		}
		if random.IntN(2) == 0 {
			attributes[s] = []string{"leader"}
		}
	}

	constraints := NewSchedulingConstraints()
	constraints.GroupSizeMin = 1 + random.IntN(2)
	if random.IntN(2) == 0 {
		constraints.GroupSizeMax = intPtr(constraints.GroupSizeMin + random.IntN(3))
	}
	constraints.GroupCountMin = 1 + random.IntN(2)
	if random.IntN(2) == 0 {
		constraints.GroupCountMax = intPtr(constraints.GroupCountMin + random.IntN(3))
	}
	if random.IntN(2) == 0 {
		bounds := AttributeConstraint{}
		if random.IntN(2) == 0 {
			bounds.MinPerGroup = intPtr(random.IntN(2))
		}
		if random.IntN(2) == 0 {
			bounds.MaxPerGroup = intPtr(1 + random.IntN(2))
		}
		constraints.AttributeConstraints["leader"] = bounds
	}

	return newInput(timeSlots, availability, attributes, constraints)
}

// bruteForceFeasible enumerates every partition of the roster and tells whether one of them satisfies the input
func bruteForceFeasible(input ModelInput) bool {
	totalStudents := len(input.Students)
	labels := make([]int, totalStudents)

	var search func(s, blocks int) bool
	search = func(s, blocks int) bool {
		if s == totalStudents {
			return partitionFeasible(input, labels, blocks)
		}
		// Restricted growth strings enumerate each partition once
		for block := 0; block <= blocks; block++ {
			labels[s] = block
			next := blocks
			if block == blocks {
				next++
			}
			if search(s+1, next) {
				return true
			}
		}
		return false
	}
	return search(0, 0)
}

func partitionFeasible(input ModelInput, labels []int, blocks int) bool {
	if !input.Constraints.GroupCountRange().Contains(blocks) {
		return false
	}

	for block := range blocks {
		members := make([]Student, 0)
		for s, label := range labels {
			if label == block {
				members = append(members, input.Students[s])
			}
		}
		if !input.Constraints.GroupSizeRange().Contains(len(members)) {
			return false
		}

		for attribute, bounds := range input.Constraints.AttributeConstraints {
			holders := 0
			for _, member := range members {
				if member.Has(attribute) {
					holders++
				}
			}
			if bounds.MinPerGroup != nil && holders < *bounds.MinPerGroup {
				return false
			} else if bounds.MaxPerGroup != nil && holders > *bounds.MaxPerGroup {
				return false
			}
		}

		meets := false
		for _, timeSlot := range input.TimeSlots {
			available := true
			for _, member := range members {
				available = available && member.Available(timeSlot)
			}
			if available {
				meets = true
				break
			}
		}
		if !meets {
			return false
		}
	}
	return true
}
