package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/core/ingestion_engine"
	"github.com/markdave123-py/paperdigest/internal/core/summary_engine"
	"github.com/markdave123-py/paperdigest/internal/models"
)

// SummarizeService runs one request end to end: ingest, dispatch, aggregate.
type SummarizeService struct {
	ingestor       ingestion_engine.Ingestor
	dispatcher     *summary_engine.Dispatcher
	aggregator     *summary_engine.Aggregator
	requestTimeout time.Duration
	log            zerolog.Logger
}

func NewSummarizeService(
	ingestor ingestion_engine.Ingestor,
	dispatcher *summary_engine.Dispatcher,
	aggregator *summary_engine.Aggregator,
	requestTimeout time.Duration,
	log zerolog.Logger,
) *SummarizeService {
	return &SummarizeService{
		ingestor:       ingestor,
		dispatcher:     dispatcher,
		aggregator:     aggregator,
		requestTimeout: requestTimeout,
		log:            log,
	}
}

// Summarize produces the final summary for src. An empty requestID gets a fresh UUID.
func (s *SummarizeService) Summarize(ctx context.Context, requestID string, src models.Source) (*models.FinalSummary, error) {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := s.log.With().Str("request_id", requestID).Str("source", src.Location).Str("kind", string(src.Kind)).Logger()

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	started := time.Now()

	doc, err := s.ingestor.Ingest(ctx, src)
	if err != nil {
		return nil, s.deadlineOr(ctx, err)
	}

	log.Info().Int("chunks", len(doc.Chunks)).Int("pages", doc.Document.PageCount).Msg("dispatching chunks")
	partials := s.dispatcher.Dispatch(ctx, summary_engine.PromptChunk, doc.Chunks)

	res, err := s.aggregator.Aggregate(ctx, partials, doc.Language)
	if err != nil {
		return nil, s.deadlineOr(ctx, err)
	}

	log.Info().
		Int("failed_chunks", res.FailedChunks).
		Int("meta_rounds", res.MetaRounds).
		Bool("degraded", res.Degraded).
		Dur("took", time.Since(started)).
		Msg("summary ready")

	return &models.FinalSummary{
		RequestID:    requestID,
		Source:       src,
		Text:         res.Text,
		Pages:        doc.Document.PageCount,
		Chunks:       len(doc.Chunks),
		FailedChunks: res.FailedChunks,
		MetaRounds:   res.MetaRounds,
		Language:     doc.Language,
		Degraded:     res.Degraded,
	}, nil
}

// Plan ingests src without calling the model.
func (s *SummarizeService) Plan(ctx context.Context, src models.Source) (*ingestion_engine.Ingested, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	doc, err := s.ingestor.Ingest(ctx, src)
	if err != nil {
		return nil, s.deadlineOr(ctx, err)
	}
	return doc, nil
}

func (s *SummarizeService) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

// deadlineOr reports an expired request deadline in place of whatever stage error it caused.
func (s *SummarizeService) deadlineOr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return core.DeadlineError("request deadline exceeded", err)
	}
	return err
}
