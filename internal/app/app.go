package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/paperdigest/internal/config"
	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/core/ingestion_engine"
	"github.com/markdave123-py/paperdigest/internal/core/llm"
	objectclient "github.com/markdave123-py/paperdigest/internal/core/object-client"
	"github.com/markdave123-py/paperdigest/internal/core/summary_engine"
	"github.com/markdave123-py/paperdigest/internal/services"
)

// Pipeline is the wired summarization engine shared by the HTTP server and the CLI.
type Pipeline struct {
	Provider   core.LLMProvider
	Prompts    *summary_engine.PromptCatalog
	Dispatcher *summary_engine.Dispatcher
	Service    *services.SummarizeService
}

type App struct {
	Pipeline *Pipeline
	Server   *Server
	log      zerolog.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	pipeline, err := NewPipeline(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	server := NewServer(cfg, pipeline.Service, log)

	return &App{Pipeline: pipeline, Server: server, log: log}, nil
}

// NewPipeline builds provider, ingestion and summary stages from cfg.
func NewPipeline(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Pipeline, error) {
	initCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	provider, err := llm.NewProvider(initCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the model provider: %w", err)
	}
	log.Info().Str("provider", provider.Name()).Str("base_url", cfg.ModelBaseURL).Msg("model provider ready")

	var objects core.ObjectClient
	if cfg.ObjectStoreEnabled() {
		s3c, err := objectclient.NewS3Client(initCtx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("couldn't initialize object storage: %w", err)
		}
		objects = s3c
	}

	prompts, err := summary_engine.LoadPromptCatalog(cfg.PromptsFile)
	if err != nil {
		return nil, err
	}

	var extractor core.DocumentExtractor
	switch cfg.Extractor {
	case config.ExtractorDocconv:
		extractor = ingestion_engine.NewDocconvExtractor()
	default:
		extractor = ingestion_engine.NewNativeExtractor()
	}

	ingCfg := ingestion_engine.IngestConfig{
		MaxChars:         cfg.ChunkMaxChars,
		OverlapChars:     cfg.ChunkOverlapChars,
		FetchTimeout:     cfg.FetchTimeout,
		MaxDocumentBytes: cfg.MaxDocumentBytes,
	}

	ingestor := ingestion_engine.NewDocumentIngestor(
		ingestion_engine.NewSourceResolver(ingCfg, objects, log),
		ingestion_engine.NewPDFValidator(),
		extractor,
		ingestion_engine.NewLanguageDetector(),
		ingCfg,
		log,
	)

	worker := summary_engine.NewWorker(provider, prompts, summary_engine.RetryPolicy{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		MaxDelay:    cfg.RetryMaxDelay,
		Jitter:      0.1,
	}, log)
	dispatcher := summary_engine.NewDispatcher(worker, cfg.Concurrency)
	aggregator := summary_engine.NewAggregator(dispatcher, worker, summary_engine.AggregateConfig{
		MaxChars:      cfg.ChunkMaxChars,
		OverlapChars:  cfg.ChunkOverlapChars,
		MetaThreshold: cfg.MetaThresholdChars,
		MetaMaxDepth:  cfg.MetaMaxDepth,
		FinalPass:     cfg.FinalPass,
	}, log)

	service := services.NewSummarizeService(ingestor, dispatcher, aggregator, cfg.RequestTimeout, log)

	return &Pipeline{Provider: provider, Prompts: prompts, Dispatcher: dispatcher, Service: service}, nil
}

// Close releases provider resources.
func (p *Pipeline) Close() error {
	if c, ok := p.Provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (a *App) Close() {
	if err := a.Pipeline.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close model provider")
	}
}
