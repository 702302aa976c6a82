package summary_engine

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/models"
)

// ChunkDoneFunc observes each finished chunk. Calls are serialized.
type ChunkDoneFunc func(kind PromptKind, summary models.PartialSummary, total int)

// Dispatcher fans chunks out to a bounded pool and restores chunk order.
type Dispatcher struct {
	summarizer  ChunkSummarizer
	concurrency int

	mu     sync.Mutex
	onDone ChunkDoneFunc
}

func NewDispatcher(summarizer ChunkSummarizer, concurrency int) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{summarizer: summarizer, concurrency: concurrency}
}

// OnChunkDone registers a progress hook. Set it before dispatching.
func (d *Dispatcher) OnChunkDone(fn ChunkDoneFunc) {
	d.mu.Lock()
	d.onDone = fn
	d.mu.Unlock()
}

// Dispatch summarizes every chunk with at most concurrency calls in flight.
// The result has one entry per chunk, stored at the chunk's Index; an Index outside
// [0, len(chunks)) falls back to the chunk's position in the input. A failing chunk never cancels its siblings;
// once ctx is done the remaining chunks are reported as Failed.
func (d *Dispatcher) Dispatch(ctx context.Context, kind PromptKind, chunks []models.TextChunk) []models.PartialSummary {
	results := make([]models.PartialSummary, len(chunks))
	total := len(chunks)

	var g errgroup.Group
	g.SetLimit(d.concurrency)

	for i, ch := range chunks {
		slot := ch.Index
		if slot < 0 || slot >= total {
			slot = i
		}

		if err := ctx.Err(); err != nil {
			results[slot] = cancelled(ch, err)
			d.notify(kind, results[slot], total)
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[slot] = cancelled(ch, err)
			} else {
				results[slot] = d.summarizer.Summarize(ctx, kind, ch, total)
			}
			d.notify(kind, results[slot], total)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (d *Dispatcher) notify(kind PromptKind, s models.PartialSummary, total int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.onDone != nil {
		d.onDone(kind, s, total)
	}
}

func cancelled(ch models.TextChunk, err error) models.PartialSummary {
	return models.PartialSummary{
		ChunkIndex: ch.Index,
		Text:       models.ChunkPlaceholder(ch.Index),
		Status:     models.SummaryFailed,
		Err:        core.ModelCallError("chunk not started", err),
	}
}
