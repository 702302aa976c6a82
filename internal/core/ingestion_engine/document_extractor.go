package ingestion_engine

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"code.sajari.com/docconv"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/models"
)

var _ core.DocumentExtractor = (*DocconvExtractor)(nil)

// DocconvExtractor shells out to poppler's pdftotext through docconv.
// Pages are split on form feeds when the converter keeps them.
type DocconvExtractor struct{}

func NewDocconvExtractor() *DocconvExtractor {
	return &DocconvExtractor{}
}

func (e *DocconvExtractor) Name() string { return "docconv" }

func (e *DocconvExtractor) ExtractPages(ctx context.Context, doc *models.Document) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, meta, err := docconv.ConvertPDF(bytes.NewReader(doc.Bytes))
	if err != nil {
		return nil, core.CorruptDocumentError("docconv: convert pdf", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if n, err := strconv.Atoi(strings.TrimSpace(meta["Pages"])); err == nil && n > 0 && doc.PageCount == 0 {
		doc.PageCount = n
	}

	if !strings.Contains(body, "\f") {
		return []string{body}, nil
	}

	pages := strings.Split(body, "\f")
	// pdftotext terminates the last page with a form feed too
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages, nil
}
