package summary_engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/core/ingestion_engine"
	"github.com/markdave123-py/paperdigest/internal/models"
)

// AggregateConfig controls meta-summarization and the final pass.
//
// MaxChars, OverlapChars: chunk settings reused when re-chunking combined summaries.
// MetaThreshold:          combined text above this many runes triggers another round.
// MetaMaxDepth:           maximum number of meta rounds.
// FinalPass:              run the structured-report prompt over the reduced text.
type AggregateConfig struct {
	MaxChars      int
	OverlapChars  int
	MetaThreshold int
	MetaMaxDepth  int
	FinalPass     bool
}

// Result is the reduced output for one document.
type Result struct {
	Text         string
	MetaRounds   int
	FailedChunks int
	Degraded     bool
}

type Aggregator struct {
	dispatcher *Dispatcher
	worker     *Worker
	cfg        AggregateConfig
	log        zerolog.Logger
}

func NewAggregator(dispatcher *Dispatcher, worker *Worker, cfg AggregateConfig, log zerolog.Logger) *Aggregator {
	return &Aggregator{dispatcher: dispatcher, worker: worker, cfg: cfg, log: log}
}

// Aggregate merges per-chunk summaries into one document.
// It fails only when no chunk succeeded; a failed final pass degrades to the merged sections.
func (a *Aggregator) Aggregate(ctx context.Context, summaries []models.PartialSummary, language string) (*Result, error) {
	failed := countFailed(summaries)
	if failed == len(summaries) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, core.ErrAllChunksFailed
	}
	if failed > 0 {
		a.log.Warn().Int("failed", failed).Int("total", len(summaries)).Msg("some chunks could not be summarized")
	}

	text, rounds, err := a.reduce(ctx, CombineSections(summaries), 0)
	if err != nil {
		return nil, err
	}

	res := &Result{Text: text, MetaRounds: rounds, FailedChunks: failed}
	if !a.cfg.FinalPass {
		return res, nil
	}

	final, attempts, err := a.worker.Complete(ctx, PromptFinal, PromptData{
		Index:    1,
		Total:    1,
		Content:  text,
		Language: language,
	})
	if err != nil {
		a.log.Error().Err(err).Int("attempts", attempts).Msg("final pass failed, returning merged sections")
		res.Degraded = true
		return res, nil
	}

	res.Text = final
	return res, nil
}

// reduce re-chunks and re-summarizes text until it fits the threshold or the depth cap is hit.
func (a *Aggregator) reduce(ctx context.Context, text string, depth int) (string, int, error) {
	size := len([]rune(text))
	if a.cfg.MetaThreshold <= 0 || size <= a.cfg.MetaThreshold {
		return text, depth, nil
	}
	if depth >= a.cfg.MetaMaxDepth {
		a.log.Warn().Int("chars", size).Int("depth", depth).Msg("meta depth cap reached, keeping combined text")
		return text, depth, nil
	}

	chunks, err := ingestion_engine.Chunk(text, a.cfg.MaxChars, a.cfg.OverlapChars)
	if err != nil {
		return "", depth, fmt.Errorf("meta chunk: %w", err)
	}

	a.log.Info().Int("round", depth+1).Int("chars", size).Int("chunks", len(chunks)).Msg("meta summarization round")

	partials := a.dispatcher.Dispatch(ctx, PromptMeta, chunks)
	if countFailed(partials) == len(partials) {
		a.log.Warn().Int("round", depth+1).Msg("meta round failed, keeping combined text")
		return text, depth, nil
	}

	return a.reduce(ctx, CombineSections(partials), depth+1)
}

// CombineSections joins summaries in index order as "## Section N" blocks separated by a blank line.
func CombineSections(summaries []models.PartialSummary) string {
	ordered := make([]models.PartialSummary, len(summaries))
	copy(ordered, summaries)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ChunkIndex < ordered[j].ChunkIndex })

	var b strings.Builder
	for i, s := range ordered {
		if i > 0 {
			b.WriteString("\n\n")
		}
		text := s.Text
		if s.Failed() {
			text = models.ChunkPlaceholder(s.ChunkIndex)
		}
		fmt.Fprintf(&b, "## Section %d\n%s", s.ChunkIndex+1, text)
	}
	return b.String()
}

func countFailed(summaries []models.PartialSummary) int {
	n := 0
	for _, s := range summaries {
		if s.Failed() {
			n++
		}
	}
	return n
}
