package ingest

import (
	"net/url"
	"strings"

	"github.com/limaJavier/groupscheduling/pkg/model"
	"github.com/samber/lo"
)

// ParseGivenAttributes splits the comma-separated given_attributes field into lower-cased attribute names
func ParseGivenAttributes(value string) []string {
	attributes := lo.Map(strings.Split(value, ","), func(attribute string, _ int) string {
		return strings.ToLower(strings.TrimSpace(attribute))
	})
	return lo.Uniq(lo.Compact(attributes))
}

// ParseConstraints reads the scheduling constraints of an upload form. Group size defaults to [1, students] and group
// count to [1, timeSlots]. Bounds per attribute come from the <attribute>_min_per_group and <attribute>_max_per_group
// fields and are only set for the given attributes
func ParseConstraints(form url.Values, students, timeSlots int, givenAttributes []string) (model.SchedulingConstraints, error) {
	rawConstraints := map[string]any{
		"group_size_min":  1,
		"group_size_max":  students,
		"group_count_min": 1,
		"group_count_max": timeSlots,
	}
	for key := range rawConstraints {
		if form.Has(key) {
			rawConstraints[key] = strings.TrimSpace(form.Get(key))
		}
	}

	attributeConstraints := make(map[string]any)
	for _, attribute := range givenAttributes {
		bounds := make(map[string]any)
		for _, bound := range []string{"min_per_group", "max_per_group"} {
			if key := attribute + "_" + bound; form.Has(key) {
				bounds[bound] = strings.TrimSpace(form.Get(key))
			}
		}
		if len(bounds) > 0 {
			attributeConstraints[attribute] = bounds
		}
	}
	rawConstraints["attribute_constraints"] = attributeConstraints

	constraints, err := model.DecodeConstraints(rawConstraints)
	if err != nil {
		return model.SchedulingConstraints{}, err
	}
	if err := constraints.Validate(); err != nil {
		return model.SchedulingConstraints{}, err
	}
	return constraints, nil
}
