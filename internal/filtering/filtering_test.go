package filtering

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/assessment-recommender/internal/assessment"
)

func ranked() *assessment.Matches {
	return &assessment.Matches{Items: []*assessment.Match{
		{Assessment: &assessment.Assessment{Name: "Behaviour Deep Dive", TestType: "Behavioral", DurationMinutes: 70}, Score: 0.9},
		{Assessment: &assessment.Assessment{Name: "Python Coding", TestType: "Technical", DurationMinutes: 30}, Score: 0.8},
		{Assessment: &assessment.Assessment{Name: "Team Fit", TestType: "Personality", DurationMinutes: 40}, Score: 0.7},
		{Assessment: &assessment.Assessment{Name: "Numerical Reasoning", TestType: "Aptitude", DurationMinutes: 25}, Score: 0.6},
		{Assessment: &assessment.Assessment{Name: "Java Project", TestType: "Technical", DurationMinutes: 60}, Score: 0.5},
	}}
}

type failingFilter struct {
	validateErr error
	applyErr    error
	applied     bool
}

func (f *failingFilter) Name() string { return "failing" }

func (f *failingFilter) Disable(string) {}

func (f *failingFilter) IsEnabled() bool { return true }

func (f *failingFilter) Validate() error { return f.validateErr }

func (f *failingFilter) Apply(m *assessment.Matches) (*assessment.Matches, Step, error) {
	f.applied = true
	return m, Step{}, f.applyErr
}

func TestRunFiltersAppliesStepsInOrder(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	f := New([]Filter{
		NewTestType([]string{"Technical", "Aptitude"}, logger),
		NewMaxDuration(45, logger),
		NewExcludedAssessments(nil, logger),
	}, logger)

	result, err := f.RunFilters(ranked())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := result.Names()
	if len(names) != 2 || names[0] != "Python Coding" || names[1] != "Numerical Reasoning" {
		t.Fatalf("unexpected filtered matches: %v", names)
	}

	steps := observed.FilterMessage("filter step").All()
	if len(steps) != 2 {
		t.Fatalf("expected 2 step entries, got %d", len(steps))
	}

	first := steps[0].ContextMap()
	if first["name"] != "test_type" || first["initial"] != int64(5) || first["dropped"] != int64(2) || first["left"] != int64(3) {
		t.Fatalf("unexpected first step entry: %v", first)
	}

	second := steps[1].ContextMap()
	if second["name"] != "max_duration" || second["dropped"] != int64(1) || second["left"] != int64(2) {
		t.Fatalf("unexpected second step entry: %v", second)
	}

	if disabled := observed.FilterMessage("filter disabled").Len(); disabled != 1 {
		t.Fatalf("expected the empty exclusion filter to be reported as disabled, got %d", disabled)
	}
}

func TestDurationBoundaryIsInclusive(t *testing.T) {
	m := ranked()
	result, info, err := NewMaxDuration(40, nil).Apply(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Initial != 5 || info.Left != 3 || info.Dropped != 2 {
		t.Fatalf("unexpected step info: %+v", info)
	}

	if result.Names()[1] != "Team Fit" {
		t.Fatalf("expected 40 minute assessment to survive a 40 minute limit: %v", result.Names())
	}
}

func TestExcludedAssessments(t *testing.T) {
	f := NewExcludedAssessments([]string{" Team Fit ", ""}, nil)
	if !f.IsEnabled() {
		t.Fatalf("expected filter to be enabled")
	}

	result, info, err := f.Apply(ranked())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Dropped != 1 || result.Len() != 4 {
		t.Fatalf("unexpected step info: %+v", info)
	}
	for _, name := range result.Names() {
		if name == "Team Fit" {
			t.Fatalf("expected Team Fit to be excluded")
		}
	}
}

func TestRunFiltersValidation(t *testing.T) {
	validateErr := errors.New("broken")
	failing := &failingFilter{validateErr: validateErr}

	f := New([]Filter{NewTestType([]string{"Technical"}, nil), failing}, nil)
	_, err := f.RunFilters(ranked())
	if !errors.Is(err, validateErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if failing.applied {
		t.Fatalf("no step may run when validation fails")
	}

	if _, err := New([]Filter{NewTestType(nil, nil)}, nil).RunFilters(ranked()); err == nil {
		t.Fatalf("expected error for empty test type list")
	}

	if _, err := New([]Filter{NewMaxDuration(0, nil)}, nil).RunFilters(ranked()); err == nil {
		t.Fatalf("expected error for non-positive duration")
	}
}

func TestRunFiltersApplyError(t *testing.T) {
	applyErr := errors.New("apply failed")
	f := New([]Filter{&failingFilter{applyErr: applyErr}}, nil)

	if _, err := f.RunFilters(ranked()); !errors.Is(err, applyErr) {
		t.Fatalf("expected apply error, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	f := New([]Filter{
		NewTestType([]string{"Personality", "Behavioral"}, nil),
		NewMaxDuration(60, nil),
		NewExcludedAssessments(nil, nil),
		&failingFilter{},
	}, nil)

	statuses := f.Describe()
	if len(statuses) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(statuses))
	}

	if statuses[0].Details["allowed"] != "Personality,Behavioral" {
		t.Fatalf("unexpected test type details: %v", statuses[0].Details)
	}
	if statuses[1].Details["max_duration_minutes"] != "60" {
		t.Fatalf("unexpected duration details: %v", statuses[1].Details)
	}
	if statuses[2].Enabled || statuses[2].Reason != "no assessments configured" {
		t.Fatalf("expected exclusion filter to be disabled: %+v", statuses[2])
	}
	if statuses[3].Name != "failing" || !statuses[3].Enabled {
		t.Fatalf("unexpected fallback status: %+v", statuses[3])
	}
}
