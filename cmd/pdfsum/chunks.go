package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/paperdigest/internal/app"
	"github.com/markdave123-py/paperdigest/internal/core/ingestion_engine"
)

var chunksCmd = &cobra.Command{
	Use:   "chunks <source>",
	Short: "Extract a PDF and print its chunk plan without calling the model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		src, err := ingestion_engine.ClassifyAs(args[0], sourceType)
		if err != nil {
			return err
		}

		pipeline, err := app.NewPipeline(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer pipeline.Close()

		doc, err := pipeline.Service.Plan(cmd.Context(), src)
		if err != nil {
			return err
		}

		fmt.Printf("source:   %s (%s)\n", src.Location, src.Kind)
		fmt.Printf("pages:    %d\n", doc.Document.PageCount)
		fmt.Printf("chars:    %d\n", len([]rune(doc.Text)))
		fmt.Printf("language: %s\n", doc.Language)
		fmt.Printf("sections: %s\n", strings.Join(pipeline.Prompts.Sections(), ", "))
		fmt.Printf("chunks:   %d (max %d, overlap %d)\n\n", len(doc.Chunks), cfg.ChunkMaxChars, cfg.ChunkOverlapChars)

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tCHARS\tSTARTS WITH")
		for _, c := range doc.Chunks {
			fmt.Fprintf(tw, "%d\t%d\t%s\n", c.Index+1, c.CharCount, preview(c.Content, 60))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(chunksCmd)
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
