package filtering

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/assessment"
)

type testTypeFilter struct {
	allowed map[string]struct{}
	names   []string
	logger  *zap.Logger
}

// NewTestType creates a filter that keeps only assessments of the allowed test types.
func NewTestType(allowed []string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}

	set := make(map[string]struct{}, len(allowed))
	for _, t := range allowed {
		set[t] = struct{}{}
	}

	return &testTypeFilter{
		allowed: set,
		names:   append([]string(nil), allowed...),
		logger:  logger,
	}
}

func (f *testTypeFilter) Name() string { return "test_type" }

func (f *testTypeFilter) Disable(string) {}

func (f *testTypeFilter) IsEnabled() bool { return true }

func (f *testTypeFilter) Validate() error {
	if len(f.allowed) == 0 {
		return errors.New("at least one allowed test type is required")
	}
	return nil
}

func (f *testTypeFilter) Apply(m *assessment.Matches) (*assessment.Matches, Step, error) {
	initial := m.Len()
	excluded := m.Keep(func(match *assessment.Match) bool {
		_, ok := f.allowed[match.Assessment.GetStringField(assessment.AssessmentTypeField)]
		return ok
	})

	if len(excluded) > 0 {
		f.logger.Debug("excluding assessments by test type",
			zap.Strings("allowed_test_types", f.names),
			zap.Strings("excluded_assessments", excluded),
			zap.Int("assessments_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(excluded), Left: m.Len()}, nil
}

func (f *testTypeFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"allowed": strings.Join(f.names, ",")},
	}
}
