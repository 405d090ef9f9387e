// Package ingest turns uploaded roster files and form fields into scheduler input.
package ingest

import (
	"io"
	"net/url"

	"github.com/limaJavier/groupscheduling/pkg/model"
)

const GivenAttributesField = "given_attributes"

// ParseUpload reads a roster file together with the form fields sent along with it
func ParseUpload(filename string, reader io.Reader, form url.Values) (model.ModelInput, error) {
	givenAttributes := ParseGivenAttributes(form.Get(GivenAttributesField))

	rows, err := ReadTable(filename, reader)
	if err != nil {
		return model.ModelInput{}, err
	}
	data, err := ParseTable(rows, givenAttributes)
	if err != nil {
		return model.ModelInput{}, err
	}

	students, timeSlots, err := model.ProcessStudentData(data)
	if err != nil {
		return model.ModelInput{}, err
	}
	constraints, err := ParseConstraints(form, len(students), len(timeSlots), givenAttributes)
	if err != nil {
		return model.ModelInput{}, err
	}

	return model.ModelInput{
		Students:    students,
		TimeSlots:   timeSlots,
		Constraints: constraints,
	}, nil
}
