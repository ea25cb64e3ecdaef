package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/assessment"
)

func TestSampleCatalogueAndRequest(t *testing.T) {
	cat, err := assessment.LoadFile("../../data/shl_catalogue.csv")
	require.NoError(t, err)
	require.Equal(t, 15, cat.Len())

	req, err := LoadRequirements("../../examples/request.yaml")
	require.NoError(t, err)
	require.NoError(t, req.Validate())

	engine, err := New(cat, nil, zap.NewNop())
	require.NoError(t, err)

	result, err := engine.Recommend(*req)
	require.NoError(t, err)
	require.NotZero(t, result.Len())
	assert.LessOrEqual(t, result.Len(), MaxResults)

	rule, ok := RuleFor(req.Persona)
	require.True(t, ok)
	for i, match := range result.Items {
		assert.Contains(t, rule.AllowedTestTypes, match.Assessment.TestType)
		assert.LessOrEqual(t, match.Assessment.DurationMinutes, rule.MaxDurationMinutes)
		if i > 0 {
			assert.LessOrEqual(t, match.Score, result.Items[i-1].Score)
		}
	}

	assert.Contains(t, result.Names(), "Python Coding Test")
	assert.NotContains(t, result.Names(), "Advanced Python Project")
	assert.Greater(t, result.Items[0].Score, 0.0)
}
