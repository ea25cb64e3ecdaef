package assessment

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalogue = `assessment_name,skills,test_type,duration
Python Coding Test,Python;SQL,Technical,30
Leadership Styles,Leadership;Communication,Personality,50
Numerical Reasoning, Logical Reasoning ,Aptitude,25
`

func TestLoadPreservesOrderAndDerivesText(t *testing.T) {
	catalogue, err := Load(strings.NewReader(sampleCatalogue))
	require.NoError(t, err)
	require.Equal(t, 3, catalogue.Len())

	assert.Equal(t, []string{"Python Coding Test", "Leadership Styles", "Numerical Reasoning"}, catalogue.Names())

	first := catalogue.Items[0]
	assert.Equal(t, []string{"Python", "SQL"}, first.Skills)
	assert.Equal(t, "Technical", first.TestType)
	assert.Equal(t, 30, first.DurationMinutes)
	assert.Equal(t, "Python Coding Test Python SQL Technical", first.SearchableText())

	third := catalogue.FindByName("Numerical Reasoning")
	require.NotNil(t, third)
	assert.Equal(t, []string{"Logical Reasoning"}, third.Skills)
	assert.Equal(t, "Numerical Reasoning Logical Reasoning Aptitude", third.SearchableText())
}

func TestLoadAcceptsReorderedColumnsAndEmptySkills(t *testing.T) {
	input := "duration,test_type,assessment_name,skills,vendor\n40,Behavioral,Situational Judgement,,shl\n"

	catalogue, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, catalogue.Len())

	a := catalogue.Items[0]
	assert.Equal(t, "Situational Judgement", a.Name)
	assert.Empty(t, a.Skills)
	assert.Equal(t, 40, a.DurationMinutes)
	assert.Equal(t, "Situational Judgement Behavioral", a.SearchableText())
}

func TestLoadRejectsInvalidRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		row   int
		field string
	}{
		{
			name:  "missing name",
			input: "assessment_name,skills,test_type,duration\n,Python,Technical,30\n",
			row:   1,
			field: ColumnName,
		},
		{
			name:  "missing test type",
			input: "assessment_name,skills,test_type,duration\nA,Python,Technical,30\nB,SQL,,30\n",
			row:   2,
			field: ColumnTestType,
		},
		{
			name:  "duration not a number",
			input: "assessment_name,skills,test_type,duration\nA,Python,Technical,half an hour\n",
			row:   1,
			field: ColumnDuration,
		},
		{
			name:  "duration not positive",
			input: "assessment_name,skills,test_type,duration\nA,Python,Technical,0\n",
			row:   1,
			field: ColumnDuration,
		},
		{
			name:  "duplicate name",
			input: "assessment_name,skills,test_type,duration\nA,Python,Technical,10\nA,SQL,Technical,20\n",
			row:   2,
			field: ColumnName,
		},
		{
			name:  "missing column",
			input: "assessment_name,skills,test_type\nA,Python,Technical\n",
			row:   0,
			field: ColumnDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			catalogue, err := Load(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, catalogue)

			var formatErr *DataFormatError
			require.True(t, errors.As(err, &formatErr), "expected DataFormatError, got %T", err)
			assert.Equal(t, tt.row, formatErr.Row)
			assert.Equal(t, tt.field, formatErr.Field)
		})
	}
}

func TestLoadEmptyInput(t *testing.T) {
	_, err := Load(strings.NewReader(""))

	var formatErr *DataFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, 0, formatErr.Row)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogue.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalogue), 0o644))

	catalogue, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, catalogue.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
