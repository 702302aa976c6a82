package ingestion_engine

import (
	"context"

	"github.com/markdave123-py/paperdigest/internal/models"
)

// Ingested is everything the summarizer needs from a document.
type Ingested struct {
	Source   models.Source
	Document *models.Document
	Pages    []string
	Text     string
	Chunks   []models.TextChunk
	Language string
}

type Ingestor interface {
	Ingest(ctx context.Context, src models.Source) (*Ingested, error)
}
