package assessment

import (
	"encoding/json"
	"os"
	"strings"
)

const (
	AssessmentNameField = "Name"
	AssessmentTypeField = "TestType"
)

// Assessment is a single catalogue entry. It is created once at load time and never modified.
type Assessment struct {
	Name            string   `json:"assessment_name"`
	Skills          []string `json:"skills"`
	TestType        string   `json:"test_type"`
	DurationMinutes int      `json:"duration"`
}

// SearchableText is the text the ranking index is built from.
// It is always derived from name, skills and test type.
func (a *Assessment) SearchableText() string {
	parts := make([]string, 0, len(a.Skills)+2)
	parts = append(parts, a.Name)
	parts = append(parts, a.Skills...)
	parts = append(parts, a.TestType)
	return strings.Join(parts, " ")
}

func (a *Assessment) GetStringField(name string) string {
	switch name {
	case AssessmentNameField:
		return a.Name
	case AssessmentTypeField:
		return a.TestType
	default:
		return ""
	}
}

// Catalogue is the ordered list of assessments. Source order is the ranking tie-break baseline.
type Catalogue struct {
	Items []*Assessment
}

func (c *Catalogue) Len() int {
	return len(c.Items)
}

func (c *Catalogue) Names() []string {
	names := make([]string, 0, len(c.Items))
	for _, a := range c.Items {
		names = append(names, a.Name)
	}
	return names
}

func (c *Catalogue) FindByName(name string) *Assessment {
	for _, a := range c.Items {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// SearchableTexts returns one document per assessment in catalogue order.
func (c *Catalogue) SearchableTexts() []string {
	docs := make([]string, 0, len(c.Items))
	for _, a := range c.Items {
		docs = append(docs, a.SearchableText())
	}
	return docs
}

// ReportByTestType groups assessment names by their test type.
func (c *Catalogue) ReportByTestType() map[string][]string {
	report := make(map[string][]string)
	for _, a := range c.Items {
		report[a.TestType] = append(report[a.TestType], a.Name)
	}
	return report
}

// Match pairs an assessment with its similarity to a query.
type Match struct {
	Assessment *Assessment `json:"assessment"`
	Score      float64     `json:"match_score"`
}

// Matches is an ordered list of scored assessments. Position is rank.
type Matches struct {
	Items []*Match
}

func (m *Matches) Len() int {
	return len(m.Items)
}

func (m *Matches) Names() []string {
	names := make([]string, 0, len(m.Items))
	for _, match := range m.Items {
		names = append(names, match.Assessment.Name)
	}
	return names
}

// Keep retains matches accepted by keep and returns the names of dropped ones.
// Relative order of the kept matches is preserved.
func (m *Matches) Keep(keep func(*Match) bool) []string {
	var dropped []string
	kept := m.Items[:0]
	for _, match := range m.Items {
		if keep(match) {
			kept = append(kept, match)
			continue
		}
		dropped = append(dropped, match.Assessment.Name)
	}
	for i := len(kept); i < len(m.Items); i++ {
		m.Items[i] = nil
	}
	m.Items = kept
	return dropped
}

// Exclude drops matches whose field equals one of targets.
func (m *Matches) Exclude(name string, targets []string) []string {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	return m.Keep(func(match *Match) bool {
		_, found := set[match.Assessment.GetStringField(name)]
		return !found
	})
}

// Truncate keeps at most n leading matches.
func (m *Matches) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if len(m.Items) > n {
		m.Items = m.Items[:n]
	}
}

func (m *Matches) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "recommendations_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	return file.Name(), nil
}
