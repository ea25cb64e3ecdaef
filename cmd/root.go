package cmd

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "assessment-recommender"

	defaultCatalogue = "data/shl_catalogue.csv"
)

type Config struct {
	Catalogue string         `mapstructure:"catalogue"`
	Exclude   *ExcludeConfig `mapstructure:"exclude"`
	Report    *ReportConfig  `mapstructure:"report"`
	Explain   *ExplainConfig `mapstructure:"explain"`
}

type ExcludeConfig struct {
	Assessments []string `mapstructure:"assessments"`
}

type ReportConfig struct {
	PDFFile string `mapstructure:"pdf-file"`
}

type ExplainConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "assessment-recommender suggests skill assessments for a job role, weighted skills and a recruiter persona",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("catalogue", "RECOMMENDER_CATALOGUE"); err != nil {
		log.Fatalf("binding RECOMMENDER_CATALOGUE environment variable: %v", err)
	}
	if err := viper.BindEnv("explain.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetDefault("catalogue", defaultCatalogue)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is assessment-recommender.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("catalogue", "", "path to the assessment catalogue CSV (default is "+defaultCatalogue+")")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("catalogue", rootCmd.PersistentFlags().Lookup("catalogue"))
}

func initConfig() {
	// Only commands working with the catalogue need a config.
	if recommendCmd.CalledAs() == "" && catalogueCmd.CalledAs() == "" {
		return
	}

	// A missing .env is fine; a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Without an explicit --config every setting has a usable default.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Exclude == nil {
		config.Exclude = &ExcludeConfig{}
	}
	if config.Report == nil {
		config.Report = &ReportConfig{}
	}
	if config.Explain == nil {
		config.Explain = &ExplainConfig{}
	}
	if config.Explain.Gemini == nil {
		config.Explain.Gemini = &GeminiConfig{}
	}

	return config, nil
}
