package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"slices"
	"strings"

	"github.com/limaJavier/groupscheduling/pkg/model"
	"github.com/xuri/excelize/v2"
)

const byteOrderMark = "\ufeff"

// ReadTable reads the rows of an uploaded roster. Spreadsheets are recognized by their extension, anything else is
// read as CSV
func ReadTable(filename string, reader io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return ReadXLSX(reader)
	}
	return ReadCSV(reader)
}

// ReadCSV reads every record of a CSV document. Records may have different lengths
func ReadCSV(reader io.Reader) ([][]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read CSV: %v", model.ErrInvalidInput, err)
	}
	return rows, nil
}

// ReadXLSX reads the rows of the first sheet of a spreadsheet
func ReadXLSX(reader io.Reader) ([][]string, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open spreadsheet: %v", model.ErrInvalidInput, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("cannot close spreadsheet: %v", err)
		}
	}()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: spreadsheet does not contain any sheets", model.ErrInvalidInput)
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read sheet %q: %v", model.ErrInvalidInput, sheetName, err)
	}
	return rows, nil
}

// ParseTable splits a roster table into names, attributes and availabilities. The first row holds the headers, which
// are matched case-insensitively: the name columns are detected first, then the given attributes, and every remaining
// column is a time slot. Cells read as flags (1, "1", "true")
func ParseTable(rows [][]string, givenAttributes []string) (model.RawStudentData, error) {
	if len(rows) == 0 {
		return model.RawStudentData{}, fmt.Errorf("%w: the file is empty", model.ErrInvalidInput)
	}

	//** Normalize headers
	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		if i == 0 {
			header = strings.TrimPrefix(header, byteOrderMark)
		}
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}

	//** Classify columns
	nameIndices, err := findNameIndices(headers)
	if err != nil {
		return model.RawStudentData{}, err
	}
	for _, attribute := range givenAttributes {
		if !slices.Contains(headers, attribute) {
			return model.RawStudentData{}, fmt.Errorf("%w: student attribute %q not found in the file", model.ErrInvalidInput, attribute)
		}
	}
	attributeIndices, availabilityIndices := classifyColumns(headers, nameIndices, givenAttributes)

	//** Extract students
	data := model.RawStudentData{
		Names:          make([]string, 0, len(rows)-1),
		Attributes:     make([]model.FlagMap, 0),
		Availabilities: make([]model.FlagMap, 0),
	}
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}

		names := make([]string, 0, len(nameIndices))
		for _, i := range nameIndices {
			names = append(names, strings.TrimSpace(cell(row, i)))
		}
		data.Names = append(data.Names, strings.Join(names, " "))

		if len(attributeIndices) > 0 {
			attributes := model.NewFlagMap()
			for _, i := range attributeIndices {
				attributes.Set(headers[i], model.ParseFlag(cell(row, i)))
			}
			data.Attributes = append(data.Attributes, attributes)
		}

		if len(availabilityIndices) > 0 {
			availability := model.NewFlagMap()
			for _, i := range availabilityIndices {
				availability.Set(headers[i], model.ParseFlag(cell(row, i)))
			}
			data.Availabilities = append(data.Availabilities, availability)
		}
	}

	return data, nil
}

var errNameColumns = errors.New(`the file must have either a "Name" column or "FirstName" and "LastName" columns`)

func findNameIndices(headers []string) ([]int, error) {
	if i := slices.Index(headers, "name"); i >= 0 {
		return []int{i}, nil
	}

	for _, pair := range [][2]string{
		{"firstname", "lastname"},
		{"first name", "last name"},
		{"first", "last"},
	} {
		first, last := slices.Index(headers, pair[0]), slices.Index(headers, pair[1])
		if first >= 0 && last >= 0 {
			return []int{first, last}, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", model.ErrInvalidInput, errNameColumns)
}

func classifyColumns(headers []string, nameIndices []int, givenAttributes []string) (attributeIndices, availabilityIndices []int) {
	attributeIndices, availabilityIndices = make([]int, 0), make([]int, 0)
	for i, header := range headers {
		if slices.Contains(givenAttributes, header) {
			attributeIndices = append(attributeIndices, i)
		} else if !slices.Contains(nameIndices, i) {
			availabilityIndices = append(availabilityIndices, i)
		}
	}
	return attributeIndices, availabilityIndices
}

// cell returns the i-th cell of a row. Spreadsheet rows drop their trailing empty cells, so missing cells read as empty
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blank(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
