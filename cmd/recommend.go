package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/assessment"
	"github.com/spigell/assessment-recommender/internal/explain"
	"github.com/spigell/assessment-recommender/internal/explain/gemini"
	"github.com/spigell/assessment-recommender/internal/logger"
	"github.com/spigell/assessment-recommender/internal/recommend"
	"github.com/spigell/assessment-recommender/internal/report"
	"github.com/spigell/assessment-recommender/internal/secrets"
)

const (
	PromptExportPDF      = "Export PDF report"
	PromptAnalytics      = "Show analytics"
	PromptExplain        = "Explain a recommendation"
	PromptResultsToFile  = "Dump results to file"
	PromptReload         = "Reload catalogue"
	PromptExit           = "Exit"
	PromptBack           = "back"
	providerTemplate     = "template"
	providerGemini       = "gemini"
	geminiAPIKeyVariable = "GEMINI_API_KEY"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptExportPDF, PromptAnalytics, PromptExplain, PromptResultsToFile, PromptReload, PromptExit},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend assessments for a role, weighted skills, experience and persona",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringP("request", "r", "", "yaml or json file with role, skills, experience and persona")
	recommendCmd.Flags().String("role", "", fmt.Sprintf("job role, one of %s", strings.Join(recommend.Roles, ", ")))
	recommendCmd.Flags().StringToInt("skills", nil, "required skills with weights 1-5, e.g. Python=5,SQL=3")
	recommendCmd.Flags().String("experience", "", fmt.Sprintf("experience level, one of %s", strings.Join(recommend.Experiences, ", ")))
	recommendCmd.Flags().String("persona", "", fmt.Sprintf("recruiter persona, one of %s", strings.Join(recommend.Personas, ", ")))
	recommendCmd.Flags().BoolP("auto-approve", "y", false, "do not ask what to do with the results; export the pdf report if configured")
	recommendCmd.Flags().String("pdf", "", "file for the pdf report (default is "+report.DefaultPDFFile+")")

	viper.BindPFlag("report.pdf-file", recommendCmd.Flags().Lookup("pdf"))
}

// session is the state shared by the interactive actions.
type session struct {
	holder    *recommend.Holder
	request   recommend.Requirements
	matches   *assessment.Matches
	explainer explain.Explainer
	config    *Config
	logger    *zap.Logger
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the assessment-recommender", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	request, err := requestFromFlags(cmd)
	if err != nil {
		logger.Fatal("reading the request", zap.Error(err))
	}

	holder, err := buildHolder(config, logger)
	if err != nil {
		logger.Fatal("building the recommendation engine",
			zap.Error(err),
			zap.String("hint", "set the 'catalogue' key, --catalogue flag or RECOMMENDER_CATALOGUE environment variable"),
		)
	}

	s := &session{
		holder:    holder,
		request:   *request,
		explainer: newExplainer(ctx, config.Explain, logger),
		config:    config,
		logger:    logger,
	}

	if err := s.recommend(ctx); err != nil {
		var invalid *recommend.InvalidRequestError
		if errors.As(err, &invalid) {
			logger.Fatal("invalid request",
				zap.String("field", invalid.Field),
				zap.String("reason", invalid.Reason),
			)
		}
		logger.Fatal("recommending assessments", zap.Error(err))
	}

	if s.matches.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no assessments match the request"))
		return
	}

	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	if autoApprove {
		if config.Report.PDFFile != "" {
			if err := s.handleAction(ctx, PromptExportPDF); err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := s.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func (s *session) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptExportPDF:
		path := s.config.Report.PDFFile
		if path == "" {
			path = report.DefaultPDFFile
		}
		if err := report.SavePDF(path, s.matches); err != nil {
			return fmt.Errorf("export pdf report: %w", err)
		}
		s.logger.Info("pdf report saved", zap.String("filename", path), zap.Int("count", s.matches.Len()))
		return nil
	case PromptAnalytics:
		summary := report.Summarize(s.holder.Current().Catalogue().Len(), s.matches)
		pretty, _ := json.MarshalIndent(summary, "", "  ")
		s.logger.Info(string(pretty), zap.Int("recommendations count", s.matches.Len()))
		return nil
	case PromptExplain:
		return s.explainInteractive(ctx)
	case PromptResultsToFile:
		filename, err := s.matches.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		s.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptReload:
		if err := s.holder.Reload(viper.GetString("catalogue")); err != nil {
			s.logger.Error("reloading catalogue, keeping the current one", zap.Error(err))
			return nil
		}
		return s.recommend(ctx)
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// recommend runs the request against the current engine and logs the results.
func (s *session) recommend(ctx context.Context) error {
	requestID := uuid.NewString()

	matches, err := s.holder.Current().RecommendWithID(requestID, s.request)
	if err != nil {
		return err
	}
	s.matches = matches

	requestLogger := logger.WithFields(s.logger, logger.RequestFields(requestID, s.request.Role, s.request.Experience, s.request.Persona)...)
	requestLogger.Info("recommended assessments", zap.Int("count", matches.Len()))

	for i, match := range matches.Items {
		explanation, err := s.explainer.Explain(ctx, s.request.Role, match.Assessment)
		if err != nil {
			requestLogger.Warn("explaining recommendation", zap.String("assessment", match.Assessment.Name), zap.Error(err))
			explanation = explain.Static(s.request.Role, match.Assessment)
		}

		requestLogger.Info(match.Assessment.Name,
			zap.Int("rank", i+1),
			zap.String("test_type", match.Assessment.TestType),
			zap.Int("duration_minutes", match.Assessment.DurationMinutes),
			zap.String("match", report.FormatScore(match.Score)),
			zap.Strings("skills", match.Assessment.Skills),
			zap.String("why", explanation),
		)
	}

	return nil
}

func (s *session) explainInteractive(ctx context.Context) error {
	for {
		selectPrompt := promptui.Select{
			Label: "Choose a recommendation and press ENTER",
			Items: append(report.Lines(s.matches), PromptBack),
		}

		idx, selected, err := selectPrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		match := s.matches.Items[idx]
		explanation, err := s.explainer.Explain(ctx, s.request.Role, match.Assessment)
		if err != nil {
			return fmt.Errorf("explain %q: %w", match.Assessment.Name, err)
		}

		s.logger.Info(explanation, zap.String("assessment", match.Assessment.Name))
	}
}

// requestFromFlags reads the request file if given; explicit flags override its values.
func requestFromFlags(cmd *cobra.Command) (*recommend.Requirements, error) {
	request := &recommend.Requirements{}

	if path, _ := cmd.Flags().GetString("request"); path != "" {
		loaded, err := recommend.LoadRequirements(path)
		if err != nil {
			return nil, err
		}
		request = loaded
	}

	for _, name := range []string{"role", "experience", "persona"} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return nil, err
		}
		switch name {
		case "role":
			request.Role = value
		case "experience":
			request.Experience = value
		case "persona":
			request.Persona = value
		}
	}

	if cmd.Flags().Changed("skills") {
		skills, err := cmd.Flags().GetStringToInt("skills")
		if err != nil {
			return nil, err
		}
		request.SkillWeights = skills
	}

	return request, nil
}

func buildHolder(config *Config, logger *zap.Logger) (*recommend.Holder, error) {
	path := viper.GetString("catalogue")

	catalogue, err := assessment.LoadFile(path)
	if err != nil {
		return nil, err
	}

	logger.Info("catalogue loaded", zap.String("filename", path), zap.Int("count", catalogue.Len()))

	engineConfig := &recommend.Config{ExcludedAssessments: config.Exclude.Assessments}

	engine, err := recommend.New(catalogue, engineConfig, logger)
	if err != nil {
		return nil, err
	}

	return recommend.NewHolder(engine, engineConfig, logger)
}

// newExplainer returns the configured explainer. Gemini problems degrade to the template.
func newExplainer(ctx context.Context, cfg *ExplainConfig, log *zap.Logger) explain.Explainer {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", providerTemplate:
		return explain.Template{}
	case providerGemini:
	default:
		log.Warn("unsupported explain provider, using template", zap.String("provider", cfg.Provider))
		return explain.Template{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  geminiAPIKeyVariable,
	})
	if err != nil {
		log.Warn("gemini explainer disabled, using template",
			zap.Error(err),
			zap.String("hint", "set explain.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY"),
		)
		return explain.Template{}
	}

	genLogger := logger.WithFields(log, logger.ProviderFields(providerGemini, cfg.Gemini.Model)...).
		With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		log.Warn("gemini explainer disabled, using template", zap.Error(err))
		return explain.Template{}
	}

	return gemini.NewExplainer(generator, cfg.Gemini.MaxLogLength, logger.WithFields(log, logger.ProviderFields(providerGemini, generator.Model())...))
}
