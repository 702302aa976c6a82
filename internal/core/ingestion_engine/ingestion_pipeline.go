package ingestion_engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/models"
)

// DocumentIngestor runs resolve -> validate -> extract -> flatten -> chunk for one source.
type DocumentIngestor struct {
	resolver  *SourceResolver
	validator *PDFValidator
	extractor core.DocumentExtractor
	language  *LanguageDetector
	cfg       IngestConfig
	log       zerolog.Logger
}

var _ Ingestor = (*DocumentIngestor)(nil)

// NewDocumentIngestor wires the ingestion stages. language may be nil to skip detection.
func NewDocumentIngestor(
	resolver *SourceResolver,
	validator *PDFValidator,
	extractor core.DocumentExtractor,
	language *LanguageDetector,
	cfg IngestConfig,
	log zerolog.Logger,
) *DocumentIngestor {
	return &DocumentIngestor{
		resolver:  resolver,
		validator: validator,
		extractor: extractor,
		language:  language,
		cfg:       cfg,
		log:       log,
	}
}

// Ingest produces the ordered chunks for src. Any stage failure aborts the request.
func (i *DocumentIngestor) Ingest(ctx context.Context, src models.Source) (*Ingested, error) {
	started := time.Now()

	doc, err := i.resolver.Resolve(ctx, src)
	if err != nil {
		return nil, err
	}

	if err := i.validator.Inspect(doc); err != nil {
		return nil, err
	}

	pages, err := i.extractor.ExtractPages(ctx, doc)
	if err != nil {
		return nil, err
	}

	text := FlattenPages(pages)
	if text == "" {
		return nil, core.CorruptDocumentError("no extractable text in document", nil)
	}

	chunks, err := Chunk(text, i.cfg.MaxChars, i.cfg.OverlapChars)
	if err != nil {
		return nil, fmt.Errorf("chunk document: %w", err)
	}

	out := &Ingested{
		Source:   src,
		Document: doc,
		Pages:    pages,
		Text:     text,
		Chunks:   chunks,
		Language: i.language.Detect(text),
	}

	i.log.Info().
		Str("source", src.Location).
		Str("extractor", i.extractor.Name()).
		Int("pages", doc.PageCount).
		Int("chars", len([]rune(text))).
		Int("chunks", len(chunks)).
		Str("language", out.Language).
		Dur("took", time.Since(started)).
		Msg("document ingested")

	return out, nil
}
