package cmd

import (
	"encoding/json"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/assessment"
	"github.com/spigell/assessment-recommender/internal/logger"
)

var catalogueCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "Validate the assessment catalogue and report it by test type",
	Run: func(_ *cobra.Command, _ []string) {
		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		path := viper.GetString("catalogue")

		catalogue, err := assessment.LoadFile(path)
		if err != nil {
			logger.Fatal("loading catalogue", zap.String("filename", path), zap.Error(err))
		}

		logger.Debug("catalogue assessments", zap.Strings("names", catalogue.Names()))

		pretty, _ := json.MarshalIndent(catalogue.ReportByTestType(), "", "  ")
		logger.Info(string(pretty), zap.String("filename", path), zap.Int("assessments count", catalogue.Len()))
	},
}

func init() {
	rootCmd.AddCommand(catalogueCmd)
}
