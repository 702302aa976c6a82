package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/markdave123-py/paperdigest/internal/config"
	"github.com/markdave123-py/paperdigest/internal/observability"
)

var (
	verbose    bool
	sourceType string
)

var rootCmd = &cobra.Command{
	Use:   "pdfsum",
	Short: "Summarize technical PDFs with a local model",
	Long: `pdfsum turns a PDF (URL, local path or s3://bucket/key) into a structured technical report.
Chunks are summarized in parallel against the configured model endpoint and merged.
Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
	rootCmd.PersistentFlags().StringVarP(&sourceType, "type", "t", "auto", "source type: auto, url, local_file or s3")
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	level := "warn"
	if verbose {
		level = cfg.LogLevel
	}
	log := observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      "console",
		Output:      os.Stderr,
		ServiceName: "pdfsum",
	})
	return cfg, log, nil
}
