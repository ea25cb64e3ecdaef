package filtering

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/assessment"
)

type durationFilter struct {
	max    int
	logger *zap.Logger
}

// NewMaxDuration creates a filter that removes assessments longer than maxMinutes.
func NewMaxDuration(maxMinutes int, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &durationFilter{
		max:    maxMinutes,
		logger: logger,
	}
}

func (f *durationFilter) Name() string { return "max_duration" }

func (f *durationFilter) Disable(string) {}

func (f *durationFilter) IsEnabled() bool { return true }

func (f *durationFilter) Validate() error {
	if f.max <= 0 {
		return fmt.Errorf("max duration must be positive, got %d", f.max)
	}
	return nil
}

func (f *durationFilter) Apply(m *assessment.Matches) (*assessment.Matches, Step, error) {
	initial := m.Len()
	excluded := m.Keep(func(match *assessment.Match) bool {
		return match.Assessment.DurationMinutes <= f.max
	})

	if len(excluded) > 0 {
		f.logger.Debug("excluding assessments by duration",
			zap.Int("max_duration_minutes", f.max),
			zap.Strings("excluded_assessments", excluded),
			zap.Int("assessments_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(excluded), Left: m.Len()}, nil
}

func (f *durationFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"max_duration_minutes": strconv.Itoa(f.max)},
	}
}
