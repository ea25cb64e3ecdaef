package recommend

import (
	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/filtering"
)

const (
	PersonaStartup    = "Startup"
	PersonaEnterprise = "Enterprise"
)

// PersonaRule holds the hard limits a recruiter persona puts on recommended assessments.
type PersonaRule struct {
	AllowedTestTypes   []string
	MaxDurationMinutes int
}

var personaRules = map[string]PersonaRule{
	PersonaStartup: {
		AllowedTestTypes:   []string{"Technical", "Aptitude"},
		MaxDurationMinutes: 45,
	},
	PersonaEnterprise: {
		AllowedTestTypes:   []string{"Personality", "Behavioral", "Aptitude"},
		MaxDurationMinutes: 60,
	},
}

// RuleFor returns a copy of the rule of persona.
func RuleFor(persona string) (PersonaRule, bool) {
	rule, ok := personaRules[persona]
	if !ok {
		return PersonaRule{}, false
	}
	rule.AllowedTestTypes = append([]string(nil), rule.AllowedTestTypes...)
	return rule, true
}

// Filters returns the filtering steps enforcing the rule.
func (r PersonaRule) Filters(logger *zap.Logger) []filtering.Filter {
	return []filtering.Filter{
		filtering.NewTestType(r.AllowedTestTypes, logger),
		filtering.NewMaxDuration(r.MaxDurationMinutes, logger),
	}
}
