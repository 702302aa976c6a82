package summary_engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/models"
)

var errEmptyCompletion = errors.New("model returned an empty completion")

// ChunkSummarizer turns one chunk into a partial summary. It never returns an error;
// failures come back as a Failed PartialSummary.
type ChunkSummarizer interface {
	Summarize(ctx context.Context, kind PromptKind, chunk models.TextChunk, total int) models.PartialSummary
}

// Worker calls the model for one chunk at a time, retrying transient failures.
type Worker struct {
	provider core.LLMProvider
	prompts  *PromptCatalog
	policy   RetryPolicy
	log      zerolog.Logger
}

var _ ChunkSummarizer = (*Worker)(nil)

func NewWorker(provider core.LLMProvider, prompts *PromptCatalog, policy RetryPolicy, log zerolog.Logger) *Worker {
	return &Worker{provider: provider, prompts: prompts, policy: policy, log: log}
}

// Summarize renders the kind prompt for chunk and calls the model.
// total is the number of chunks in the current round.
func (w *Worker) Summarize(ctx context.Context, kind PromptKind, chunk models.TextChunk, total int) models.PartialSummary {
	log := w.log.With().Int("chunk", chunk.Index+1).Int("total", total).Str("prompt", string(kind)).Logger()

	text, attempts, err := w.Complete(ctx, kind, PromptData{
		Index:   chunk.Index + 1,
		Total:   total,
		Content: chunk.Content,
	})
	if err != nil {
		log.Error().Err(err).Int("attempts", attempts).Msg("chunk failed")
		return models.PartialSummary{
			ChunkIndex: chunk.Index,
			Text:       models.ChunkPlaceholder(chunk.Index),
			Status:     models.SummaryFailed,
			Attempts:   attempts,
			Err:        err,
		}
	}

	log.Info().Int("attempts", attempts).Int("summary_chars", len([]rune(text))).Msg("chunk summarized")
	return models.PartialSummary{
		ChunkIndex: chunk.Index,
		Text:       text,
		Status:     models.SummaryOk,
		Attempts:   attempts,
	}
}

// Complete renders a prompt and runs one retried model call. It returns the trimmed completion.
func (w *Worker) Complete(ctx context.Context, kind PromptKind, data PromptData) (string, int, error) {
	system, user, err := w.prompts.Render(kind, data)
	if err != nil {
		return "", 0, err
	}

	var out string
	attempts, err := w.policy.Do(ctx, func(ctx context.Context) error {
		started := time.Now()
		text, err := w.provider.Generate(ctx, system, user)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return errEmptyCompletion
		}
		w.log.Debug().Str("provider", w.provider.Name()).Dur("took", time.Since(started)).Msg("model call done")
		out = text
		return nil
	}, func(err error, wait time.Duration) {
		w.log.Warn().Err(err).Str("prompt", string(kind)).Int("index", data.Index).Dur("wait", wait).Msg("model call failed, retrying")
	})
	if err != nil {
		return "", attempts, core.ModelCallError(w.provider.Name()+" "+string(kind)+" call", err)
	}
	return out, attempts, nil
}
