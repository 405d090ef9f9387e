package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Verify checks a result against its input: every student sits in exactly one group, group sizes and the number of
// groups lie within their ranges, every group meets at a time slot all its members are available for, attribute
// bounds hold in every group and group ids are distinct
func Verify(result ScheduleResult, input ModelInput) error {
	totalStudents := len(input.Students)
	sizeRange, countRange := input.Constraints.GroupSizeRange(), input.Constraints.GroupCountRange()

	if result.TotalStudents != totalStudents {
		return fmt.Errorf("%w: total_students is %v but the roster has %v students", ErrInvalidSchedule, result.TotalStudents, totalStudents)
	} else if result.TotalGroups != len(result.Groups) {
		return fmt.Errorf("%w: total_groups is %v but there are %v groups", ErrInvalidSchedule, result.TotalGroups, len(result.Groups))
	} else if !countRange.Contains(len(result.Groups)) {
		return fmt.Errorf("%w: %v groups outside of the allowed count range", ErrInvalidSchedule, len(result.Groups))
	}

	placements := make([]int, totalStudents)
	ids := make(map[int]bool)
	for _, group := range result.Groups {
		if ids[group.GroupId] {
			return fmt.Errorf("%w: group id %v is repeated", ErrInvalidSchedule, group.GroupId)
		}
		ids[group.GroupId] = true

		// Check that:
		// - Size matches its members and lies within the size range
		// - Time slot is one of the input's
		if group.Size != len(group.Students) {
			return fmt.Errorf("%w: group %v reports size %v but has %v students", ErrInvalidSchedule, group.GroupId, group.Size, len(group.Students))
		} else if !sizeRange.Contains(group.Size) {
			return fmt.Errorf("%w: group %v has size %v outside of the allowed size range", ErrInvalidSchedule, group.GroupId, group.Size)
		} else if !slices.Contains(input.TimeSlots, group.TimeSlot) {
			return fmt.Errorf("%w: group %v meets at unknown time slot \"%v\"", ErrInvalidSchedule, group.GroupId, group.TimeSlot)
		}

		for _, member := range group.Students {
			if member.Index < 0 || member.Index >= totalStudents {
				return fmt.Errorf("%w: group %v holds an unknown student \"%v\"", ErrInvalidSchedule, group.GroupId, member.Name)
			}
			placements[member.Index]++

			if !input.Students[member.Index].Available(group.TimeSlot) {
				return fmt.Errorf("%w: student \"%v\" is not available at \"%v\" (group %v)", ErrInvalidSchedule, member.Name, group.TimeSlot, group.GroupId)
			}
		}

		for attribute, bounds := range input.Constraints.AttributeConstraints {
			holders := lo.CountBy(group.Students, func(member Student) bool {
				return input.Students[member.Index].Has(attribute)
			})
			if bounds.MinPerGroup != nil && holders < *bounds.MinPerGroup {
				return fmt.Errorf("%w: group %v has %v students with \"%v\", fewer than %v", ErrInvalidSchedule, group.GroupId, holders, attribute, *bounds.MinPerGroup)
			} else if bounds.MaxPerGroup != nil && holders > *bounds.MaxPerGroup {
				return fmt.Errorf("%w: group %v has %v students with \"%v\", more than %v", ErrInvalidSchedule, group.GroupId, holders, attribute, *bounds.MaxPerGroup)
			}
		}
	}

	// Check whether every student has been placed exactly once
	for index, placed := range placements {
		if placed != 1 {
			return fmt.Errorf("%w: student \"%v\" is placed in %v groups", ErrInvalidSchedule, input.Students[index].Name, placed)
		}
	}
	return nil
}
