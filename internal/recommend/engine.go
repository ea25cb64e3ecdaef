package recommend

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/assessment"
	"github.com/spigell/assessment-recommender/internal/filtering"
	"github.com/spigell/assessment-recommender/internal/logger"
	"github.com/spigell/assessment-recommender/internal/tfidf"
)

// MaxResults caps the number of recommendations returned per request.
const MaxResults = 5

type Config struct {
	// ExcludedAssessments are never recommended, whatever their score.
	ExcludedAssessments []string
}

// Engine ranks a fixed catalogue against recruiter requirements.
// The catalogue and its index are read-only after New, so Recommend can be called concurrently.
type Engine struct {
	catalogue *assessment.Catalogue
	index     *tfidf.Index
	excluded  []string
	logger    *zap.Logger
}

func New(catalogue *assessment.Catalogue, cfg *Config, log *zap.Logger) (*Engine, error) {
	if catalogue == nil || catalogue.Len() == 0 {
		return nil, errors.New("catalogue must contain at least one assessment")
	}

	if log == nil {
		log = zap.NewNop()
	}

	var excluded []string
	if cfg != nil {
		excluded = append(excluded, cfg.ExcludedAssessments...)
	}

	for _, name := range excluded {
		if name = strings.TrimSpace(name); name != "" && catalogue.FindByName(name) == nil {
			log.Warn("excluded assessment is not in the catalogue", zap.String("assessment", name))
		}
	}

	index := tfidf.Fit(catalogue.SearchableTexts())

	log.Debug("ranking index built",
		zap.Int("assessments", index.Len()),
		zap.Int("terms", index.VocabularySize()),
	)

	return &Engine{
		catalogue: catalogue,
		index:     index,
		excluded:  excluded,
		logger:    log,
	}, nil
}

// Catalogue returns the catalogue the engine was built from.
func (e *Engine) Catalogue() *assessment.Catalogue {
	return e.catalogue
}

// Recommend returns at most MaxResults assessments ordered by similarity to the request,
// restricted by the persona rule. An empty result is not an error.
func (e *Engine) Recommend(req Requirements) (*assessment.Matches, error) {
	return e.RecommendWithID(uuid.NewString(), req)
}

// RecommendWithID is Recommend with a caller-chosen request id attached to every log entry.
func (e *Engine) RecommendWithID(requestID string, req Requirements) (*assessment.Matches, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := logger.WithFields(e.logger, logger.RequestFields(requestID, req.Role, req.Experience, req.Persona)...)

	for _, skill := range req.SkillNames() {
		if !IsKnownSkill(skill) {
			log.Debug("skill is not offered in the request form", zap.String("skill", skill))
		}
	}

	query := BuildQuery(req)
	vector := e.index.Transform(query)
	if vector.IsZero() {
		log.Debug("query shares no terms with the catalogue", zap.String("query", query))
	}

	ranked := e.rank(vector)

	rule, _ := RuleFor(req.Persona)
	steps := append(rule.Filters(log), filtering.NewExcludedAssessments(e.excluded, log))

	pipeline := filtering.New(steps, log)
	log.Debug("persona filters", zap.Any("steps", pipeline.Describe()))

	filtered, err := pipeline.RunFilters(ranked)
	if err != nil {
		return nil, fmt.Errorf("applying persona filters: %w", err)
	}

	filtered.Truncate(MaxResults)

	log.Debug("recommendations ready",
		zap.Int("ranked", e.catalogue.Len()),
		zap.Int("returned", filtered.Len()),
		zap.Strings("assessments", filtered.Names()),
	)

	return filtered, nil
}

func (e *Engine) rank(query tfidf.Vector) *assessment.Matches {
	scores := e.index.Similarities(query)

	ranked := &assessment.Matches{Items: make([]*assessment.Match, 0, len(scores))}
	for i, a := range e.catalogue.Items {
		ranked.Items = append(ranked.Items, &assessment.Match{Assessment: a, Score: scores[i]})
	}

	sort.SliceStable(ranked.Items, func(i, j int) bool {
		return ranked.Items[i].Score > ranked.Items[j].Score
	})

	return ranked
}
