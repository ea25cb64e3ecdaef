package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/assessment-recommender/internal/assessment"
)

// Explainer describes why an assessment suits a role. It never affects ranking.
type Explainer interface {
	Explain(ctx context.Context, role string, a *assessment.Assessment) (string, error)
}

// Template is the built-in explainer rendering a fixed sentence.
type Template struct{}

func (Template) Explain(_ context.Context, role string, a *assessment.Assessment) (string, error) {
	return Static(role, a), nil
}

// Static renders the fixed explanation sentence for a.
func Static(role string, a *assessment.Assessment) string {
	skills := "the core competencies of the role"
	if a != nil && len(a.Skills) > 0 {
		skills = strings.Join(a.Skills, ", ")
	}

	return fmt.Sprintf(
		"This assessment is recommended for a %s role because it evaluates critical skills such as %s, ensuring strong job performance and alignment with company persona.",
		role, skills,
	)
}
