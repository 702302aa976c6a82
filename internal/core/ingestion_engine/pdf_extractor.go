package ingestion_engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/models"
)

var _ core.DocumentExtractor = (*NativeExtractor)(nil)

// NativeExtractor reads page text with a pure-Go PDF parser. No external binaries needed.
type NativeExtractor struct{}

func NewNativeExtractor() *NativeExtractor {
	return &NativeExtractor{}
}

func (e *NativeExtractor) Name() string { return "native" }

// ExtractPages returns the text of every page in order. Any unreadable page fails the whole document.
func (e *NativeExtractor) ExtractPages(ctx context.Context, doc *models.Document) (pages []string, err error) {
	// the parser panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = core.CorruptDocumentError("parse pdf", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc.Bytes), int64(len(doc.Bytes)))
	if err != nil {
		return nil, core.CorruptDocumentError("open pdf", err)
	}

	n := reader.NumPage()
	if n == 0 {
		return nil, core.CorruptDocumentError("document has no pages", nil)
	}

	fonts := make(map[string]*pdf.Font)
	pages = make([]string, 0, n)

	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := reader.Page(i)
		if p.V.IsNull() {
			return nil, core.CorruptDocumentError(fmt.Sprintf("page %d is missing", i), nil)
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, core.CorruptDocumentError(fmt.Sprintf("decode page %d", i), err)
		}
		pages = append(pages, text)
	}

	if doc.PageCount == 0 {
		doc.PageCount = n
	}
	return pages, nil
}
