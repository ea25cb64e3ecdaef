package recommend

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

const (
	MinSkillWeight = 1
	MaxSkillWeight = 5
)

var (
	Roles       = []string{"Data Analyst", "Software Engineer", "Manager"}
	Skills      = []string{"Python", "SQL", "Logical Reasoning", "Leadership", "Java", "Communication"}
	Experiences = []string{"Entry", "Mid", "Senior"}
	Personas    = []string{PersonaStartup, PersonaEnterprise}
)

// Requirements is one recruiter request. It is built per request and discarded afterwards.
type Requirements struct {
	Role         string         `mapstructure:"role" json:"role"`
	SkillWeights map[string]int `mapstructure:"skills" json:"skills"`
	Experience   string         `mapstructure:"experience" json:"experience"`
	Persona      string         `mapstructure:"persona" json:"persona"`
}

// InvalidRequestError reports a request that must be corrected before ranking.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// Validate checks enums and skill weights.
func (r *Requirements) Validate() error {
	if !slices.Contains(Roles, r.Role) {
		return &InvalidRequestError{Field: "role", Reason: fmt.Sprintf("%q is not one of %s", r.Role, strings.Join(Roles, ", "))}
	}

	if !slices.Contains(Experiences, r.Experience) {
		return &InvalidRequestError{Field: "experience", Reason: fmt.Sprintf("%q is not one of %s", r.Experience, strings.Join(Experiences, ", "))}
	}

	if !slices.Contains(Personas, r.Persona) {
		return &InvalidRequestError{Field: "persona", Reason: fmt.Sprintf("%q is not one of %s", r.Persona, strings.Join(Personas, ", "))}
	}

	if len(r.SkillWeights) == 0 {
		return &InvalidRequestError{Field: "skills", Reason: "at least one skill is required"}
	}

	for _, skill := range r.SkillNames() {
		if strings.TrimSpace(skill) == "" {
			return &InvalidRequestError{Field: "skills", Reason: "skill name must not be blank"}
		}

		weight := r.SkillWeights[skill]
		if weight < MinSkillWeight || weight > MaxSkillWeight {
			return &InvalidRequestError{
				Field:  "skills",
				Reason: fmt.Sprintf("weight of %q must be between %d and %d, got %d", skill, MinSkillWeight, MaxSkillWeight, weight),
			}
		}
	}

	return nil
}

// SkillNames returns the requested skills sorted by name.
func (r *Requirements) SkillNames() []string {
	names := make([]string, 0, len(r.SkillWeights))
	for skill := range r.SkillWeights {
		names = append(names, skill)
	}
	sort.Strings(names)
	return names
}

// BuildQuery repeats every skill as many times as its weight, between role and experience.
func BuildQuery(r Requirements) string {
	parts := []string{r.Role}
	for _, skill := range r.SkillNames() {
		for i := 0; i < r.SkillWeights[skill]; i++ {
			parts = append(parts, skill)
		}
	}
	parts = append(parts, r.Experience)
	return strings.Join(parts, " ")
}

// IsKnownSkill reports whether skill is one of the skills offered to recruiters.
func IsKnownSkill(skill string) bool {
	return slices.Contains(Skills, skill)
}
