package filtering

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/assessment"
)

type excludedFilter struct {
	enabled     bool
	reason      string
	assessments []string
	logger      *zap.Logger
}

// NewExcludedAssessments creates a filter that removes assessments listed by name in the config.
// The filter starts disabled when the list is empty.
func NewExcludedAssessments(names []string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}

	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			cleaned = append(cleaned, name)
		}
	}

	f := &excludedFilter{
		enabled:     true,
		assessments: cleaned,
		logger:      logger,
	}
	if len(cleaned) == 0 {
		f.Disable("no assessments configured")
	}

	return f
}

func (f *excludedFilter) Name() string { return "excluded_assessments" }

func (f *excludedFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *excludedFilter) IsEnabled() bool { return f.enabled }

func (f *excludedFilter) Validate() error { return nil }

func (f *excludedFilter) Apply(m *assessment.Matches) (*assessment.Matches, Step, error) {
	initial := m.Len()

	excluded := m.Exclude(assessment.AssessmentNameField, f.assessments)
	if len(excluded) > 0 {
		f.logger.Debug("excluding assessments by config",
			zap.Strings("excluded_assessments", excluded),
			zap.Int("assessments_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(excluded), Left: m.Len()}, nil
}

func (f *excludedFilter) Status() Status {
	details := map[string]string{}
	if len(f.assessments) > 0 {
		details["assessments"] = strings.Join(f.assessments, ",")
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
