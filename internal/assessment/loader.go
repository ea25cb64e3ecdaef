package assessment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	ColumnName     = "assessment_name"
	ColumnSkills   = "skills"
	ColumnTestType = "test_type"
	ColumnDuration = "duration"

	skillSeparator = ";"
)

var requiredColumns = []string{ColumnName, ColumnSkills, ColumnTestType, ColumnDuration}

// DataFormatError reports a catalogue row that can not be turned into an Assessment.
// Row is the 1-based data row number; 0 means the header.
type DataFormatError struct {
	Row    int
	Field  string
	Reason string
}

func (e *DataFormatError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("catalogue header: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("catalogue row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// LoadFile reads the catalogue from a CSV file.
func LoadFile(path string) (*Catalogue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalogue: %w", err)
	}
	defer file.Close()

	return Load(file)
}

// Load parses a CSV catalogue with a header row. Any invalid row fails the whole load.
func Load(r io.Reader) (*Catalogue, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DataFormatError{Field: "header", Reason: "catalogue is empty"}
	}
	if err != nil {
		return nil, fmt.Errorf("read catalogue header: %w", err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	catalogue := &Catalogue{}
	seen := make(map[string]int)

	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalogue row %d: %w", row, err)
		}

		a, err := parseRow(row, record, columns)
		if err != nil {
			return nil, err
		}

		if first, ok := seen[a.Name]; ok {
			return nil, &DataFormatError{
				Row:    row,
				Field:  ColumnName,
				Reason: fmt.Sprintf("duplicate assessment name %q (first seen in row %d)", a.Name, first),
			}
		}
		seen[a.Name] = row

		catalogue.Items = append(catalogue.Items, a)
	}

	return catalogue, nil
}

func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		columns[name] = idx
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, &DataFormatError{Field: name, Reason: "missing column"}
		}
	}

	return columns, nil
}

func parseRow(row int, record []string, columns map[string]int) (*Assessment, error) {
	get := func(column string) string {
		idx := columns[column]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := get(ColumnName)
	if name == "" {
		return nil, &DataFormatError{Row: row, Field: ColumnName, Reason: "value is required"}
	}

	testType := get(ColumnTestType)
	if testType == "" {
		return nil, &DataFormatError{Row: row, Field: ColumnTestType, Reason: "value is required"}
	}

	rawDuration := get(ColumnDuration)
	duration, err := strconv.Atoi(rawDuration)
	if err != nil {
		return nil, &DataFormatError{Row: row, Field: ColumnDuration, Reason: fmt.Sprintf("%q is not an integer", rawDuration)}
	}
	if duration <= 0 {
		return nil, &DataFormatError{Row: row, Field: ColumnDuration, Reason: fmt.Sprintf("must be positive, got %d", duration)}
	}

	return &Assessment{
		Name:            name,
		Skills:          splitSkills(get(ColumnSkills)),
		TestType:        testType,
		DurationMinutes: duration,
	}, nil
}

func splitSkills(raw string) []string {
	skills := make([]string, 0)
	for _, skill := range strings.Split(raw, skillSeparator) {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		skills = append(skills, skill)
	}
	return skills
}
