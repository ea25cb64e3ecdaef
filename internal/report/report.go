package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/spigell/assessment-recommender/internal/assessment"
)

const (
	Title           = "Assessment Recommendations"
	DefaultPDFFile  = "assessment_recommendations.pdf"
	titleFontSize   = 14
	entryFontSize   = 11
	entryLineHeight = 7
)

// FormatScore renders a [0,1] score as a percentage rounded to two decimals, e.g. "87.53%".
func FormatScore(score float64) string {
	pct := math.Round(score*100*100) / 100
	return strconv.FormatFloat(pct, 'f', 2, 64) + "%"
}

// Lines returns one "<name> | Match: <pct>" line per match in ranked order.
func Lines(m *assessment.Matches) []string {
	lines := make([]string, 0, m.Len())
	for _, match := range m.Items {
		lines = append(lines, fmt.Sprintf("%s | Match: %s", match.Assessment.Name, FormatScore(match.Score)))
	}
	return lines
}

// WritePDF renders the report as a single A4 document.
func WritePDF(w io.Writer, m *assessment.Matches) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", titleFontSize)
	pdf.CellFormat(0, 10, Title, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", entryFontSize)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, line := range Lines(m) {
		pdf.CellFormat(0, entryLineHeight, tr(line), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// SavePDF writes the report to path, replacing an existing file.
func SavePDF(path string, m *assessment.Matches) error {
	if path == "" {
		path = DefaultPDFFile
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := WritePDF(file, m); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// SkillCount is the number of recommended assessments covering a skill.
type SkillCount struct {
	Skill string
	Count int
}

// ResultScore is the score of one recommended assessment.
type ResultScore struct {
	Name  string
	Score float64
}

// Summary is the analytics view of one recommendation run. Scores keep the ranked order.
type Summary struct {
	TotalAssessments int
	TopScore         float64
	Scores           []ResultScore
	SkillCoverage    []SkillCount
}

// Summarize computes analytics for matches drawn from a catalogue of catalogueSize entries.
// Skill coverage is ordered by count, then by skill name.
func Summarize(catalogueSize int, m *assessment.Matches) Summary {
	summary := Summary{
		TotalAssessments: catalogueSize,
		Scores:           make([]ResultScore, 0, m.Len()),
	}

	counts := make(map[string]int)
	for i, match := range m.Items {
		if i == 0 {
			summary.TopScore = match.Score
		}
		summary.Scores = append(summary.Scores, ResultScore{Name: match.Assessment.Name, Score: match.Score})
		for _, skill := range match.Assessment.Skills {
			counts[skill]++
		}
	}

	for skill, count := range counts {
		summary.SkillCoverage = append(summary.SkillCoverage, SkillCount{Skill: skill, Count: count})
	}
	sort.Slice(summary.SkillCoverage, func(i, j int) bool {
		a, b := summary.SkillCoverage[i], summary.SkillCoverage[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Skill < b.Skill
	})

	return summary
}
