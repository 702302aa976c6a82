package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/markdave123-py/paperdigest/internal/app"
	"github.com/markdave123-py/paperdigest/internal/core/ingestion_engine"
	"github.com/markdave123-py/paperdigest/internal/core/summary_engine"
	"github.com/markdave123-py/paperdigest/internal/models"
)

var (
	outputPath string
	asJSON     bool
	noProgress bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <source>",
	Short: "Summarize a PDF into a technical report",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to this file instead of stdout")
	summarizeCmd.Flags().BoolVar(&asJSON, "json", false, "print the full JSON response")
	summarizeCmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	src, err := ingestion_engine.ClassifyAs(args[0], sourceType)
	if err != nil {
		return err
	}

	pipeline, err := app.NewPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	if !noProgress {
		bar := newChunkBar()
		pipeline.Dispatcher.OnChunkDone(func(kind summary_engine.PromptKind, s models.PartialSummary, total int) {
			if kind != summary_engine.PromptChunk {
				return
			}
			if bar.GetMax() != total {
				bar.ChangeMax(total)
			}
			_ = bar.Add(1)
		})
		defer func() { _ = bar.Finish() }()
	}

	summary, err := pipeline.Service.Summarize(ctx, uuid.NewString(), src)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(models.SummarizeResponse{
			RequestID:    summary.RequestID,
			Source:       src.Raw,
			SourceType:   src.Kind,
			FinalSummary: summary.Text,
			Pages:        summary.Pages,
			Chunks:       summary.Chunks,
			FailedChunks: summary.FailedChunks,
			MetaRounds:   summary.MetaRounds,
			Language:     summary.Language,
			Degraded:     summary.Degraded,
		})
	}

	if _, err := fmt.Fprintln(out, summary.Text); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if summary.FailedChunks > 0 || summary.Degraded {
		fmt.Fprintf(os.Stderr, "warning: %d of %d chunks failed, degraded=%t\n", summary.FailedChunks, summary.Chunks, summary.Degraded)
	}
	return nil
}

func newChunkBar() *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("summarizing chunks"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}
