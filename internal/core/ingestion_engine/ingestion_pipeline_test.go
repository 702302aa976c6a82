package ingestion_engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/testutil"
)

func newTestIngestor(cfg IngestConfig) *DocumentIngestor {
	return NewDocumentIngestor(
		NewSourceResolver(cfg, nil, zerolog.Nop()),
		NewPDFValidator(),
		NewNativeExtractor(),
		nil,
		cfg,
		zerolog.Nop(),
	)
}

func TestDocumentIngestor_Ingest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(path, testutil.BuildPDF("Hello", "World"), 0o600))

	ing := newTestIngestor(IngestConfig{MaxChars: 1000, OverlapChars: 10})

	out, err := ing.Ingest(context.Background(), Classify(path))
	require.NoError(t, err)

	assert.Equal(t, 2, out.Document.PageCount)
	assert.Len(t, out.Pages, 2)
	require.Len(t, out.Chunks, 1)
	assert.Contains(t, out.Text, "Hello")
	assert.Contains(t, out.Text, "World")
	assert.Equal(t, "", out.Language)
}

func TestDocumentIngestor_FailsFast(t *testing.T) {
	dir := t.TempDir()
	ing := newTestIngestor(IngestConfig{MaxChars: 1000, OverlapChars: 10})

	_, err := ing.Ingest(context.Background(), Classify(filepath.Join(dir, "missing.pdf")))
	assert.Equal(t, core.KindNotFound, core.KindOf(err))

	corrupt := filepath.Join(dir, "corrupt.pdf")
	require.NoError(t, os.WriteFile(corrupt, []byte("%PDF-1.4\n1 0 obj broken"), 0o600))

	_, err = ing.Ingest(context.Background(), Classify(corrupt))
	assert.Equal(t, core.KindCorruptDocument, core.KindOf(err))
}

func TestDocumentIngestor_BlankDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.pdf")
	require.NoError(t, os.WriteFile(path, testutil.BuildPDF(" "), 0o600))

	_, err := newTestIngestor(IngestConfig{MaxChars: 1000}).Ingest(context.Background(), Classify(path))
	assert.Equal(t, core.KindCorruptDocument, core.KindOf(err))
}
