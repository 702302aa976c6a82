package core

import (
	"context"

	"github.com/markdave123-py/paperdigest/internal/models"
)

// DocumentExtractor turns PDF bytes into one text string per page, in page order.
// A page that cannot be decoded aborts the whole extraction.
type DocumentExtractor interface {
	ExtractPages(ctx context.Context, doc *models.Document) ([]string, error)
	Name() string
}
