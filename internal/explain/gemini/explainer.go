package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/assessment"
	"github.com/spigell/assessment-recommender/internal/explain"
	"github.com/spigell/assessment-recommender/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Explainer asks Gemini for an explanation and falls back to the static template on any failure.
type Explainer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewExplainer(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Explainer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Explainer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (e *Explainer) Explain(ctx context.Context, role string, a *assessment.Assessment) (string, error) {
	if a == nil {
		return "", fmt.Errorf("assessment is required")
	}

	payload, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal assessment payload: %w", err)
	}

	prompt := buildPrompt(role, string(payload))

	e.logger.Debug("gemini explain request",
		zap.String("assessment", a.Name),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	text, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		e.logger.Warn("gemini explanation failed, using template",
			zap.String("assessment", a.Name),
			zap.Error(err),
		)
		return explain.Static(role, a), nil
	}

	e.logger.Debug("gemini explain response",
		zap.String("assessment", a.Name),
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", utils.TruncateForLog(text, e.maxLogLen)),
	)

	return strings.TrimSpace(text), nil
}

func buildPrompt(role, assessmentJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Role: {{ROLE}}\n\nAssessment:\n{{ASSESSMENT_JSON}}\n\nExplanation:"
	}
	prompt := strings.ReplaceAll(template, "{{ROLE}}", role)
	prompt = strings.ReplaceAll(prompt, "{{ASSESSMENT_JSON}}", assessmentJSON)
	return prompt
}
