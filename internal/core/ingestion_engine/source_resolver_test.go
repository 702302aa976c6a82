package ingestion_engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/models"
)

var fakePDF = []byte("%PDF-1.4\n% fake body\n%%EOF\n")

func newTestResolver(objects core.ObjectClient) *SourceResolver {
	return NewSourceResolver(IngestConfig{MaxChars: 1000, OverlapChars: 10}, objects, zerolog.Nop())
}

func TestClassify(t *testing.T) {
	cases := []struct {
		raw      string
		kind     models.SourceKind
		location string
	}{
		{"https://arxiv.org/abs/2401.00001", models.RemoteURL, "https://arxiv.org/pdf/2401.00001"},
		{"https://www.arxiv.org/abs/2401.00001v2", models.RemoteURL, "https://www.arxiv.org/pdf/2401.00001v2"},
		{"http://example.com/paper.pdf", models.RemoteURL, "http://example.com/paper.pdf"},
		{"  https://example.com/a.pdf  ", models.RemoteURL, "https://example.com/a.pdf"},
		{"/tmp/missing.pdf", models.LocalFile, "/tmp/missing.pdf"},
		{"papers/local.pdf", models.LocalFile, "papers/local.pdf"},
		{`C:\docs\paper.pdf`, models.LocalFile, `C:\docs\paper.pdf`},
		{"ftp://example.com/paper.pdf", models.LocalFile, "ftp://example.com/paper.pdf"},
		{"s3://bucket/dir/paper.pdf", models.ObjectStore, "s3://bucket/dir/paper.pdf"},
		{"s3://bucket", models.LocalFile, "s3://bucket"},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			src := Classify(tc.raw)
			assert.Equal(t, tc.kind, src.Kind)
			assert.Equal(t, tc.location, src.Location)
			assert.Equal(t, tc.raw, src.Raw)
		})
	}
}

func TestClassifyAs(t *testing.T) {
	src, err := ClassifyAs("https://arxiv.org/abs/1706.03762", "auto")
	require.NoError(t, err)
	assert.Equal(t, models.RemoteURL, src.Kind)

	src, err = ClassifyAs("https://example.com/x.pdf", "local_file")
	require.NoError(t, err)
	assert.Equal(t, models.LocalFile, src.Kind)

	for _, tc := range []struct{ raw, typ string }{
		{"", "auto"},
		{"   ", "url"},
		{"/tmp/a.pdf", "url"},
		{"https://example.com/a.pdf", "s3"},
		{"/tmp/a.pdf", "carrier-pigeon"},
	} {
		_, err := ClassifyAs(tc.raw, tc.typ)
		assert.Equal(t, core.KindInvalidSource, core.KindOf(err), "raw=%q type=%q", tc.raw, tc.typ)
	}
}

func TestResolve_LocalFile(t *testing.T) {
	r := newTestResolver(nil)
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), Classify("/tmp/missing.pdf"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrNotFound))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), Classify(dir))
		assert.Equal(t, core.KindInvalidFormat, core.KindOf(err))
	})

	t.Run("pdf extension but not a pdf", func(t *testing.T) {
		path := filepath.Join(dir, "fake.pdf")
		require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04 zip bytes"), 0o600))

		_, err := r.Resolve(context.Background(), Classify(path))
		assert.Equal(t, core.KindInvalidFormat, core.KindOf(err))
	})

	t.Run("pdf", func(t *testing.T) {
		path := filepath.Join(dir, "real.pdf")
		require.NoError(t, os.WriteFile(path, fakePDF, 0o600))

		doc, err := r.Resolve(context.Background(), Classify(path))
		require.NoError(t, err)
		assert.Equal(t, fakePDF, doc.Bytes)
		assert.Equal(t, path, doc.Origin)
	})
}

func TestResolve_Remote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/paper.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(fakePDF)
	})
	mux.HandleFunc("/landing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, `<html><body><a href="/about">About</a><a href="/files/paper.pdf?dl=1">Get it</a></body></html>`)
	})
	mux.HandleFunc("/files/paper.pdf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(fakePDF)
	})
	mux.HandleFunc("/nolink", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<html><body><p>nothing here</p></body></html>`)
	})
	mux.HandleFunc("/text", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "plain text, not a document")
	})
	mux.HandleFunc("/big.pdf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(append(fakePDF, bytes.Repeat([]byte("x"), 4096)...))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := newTestResolver(nil)

	t.Run("direct pdf", func(t *testing.T) {
		doc, err := r.Resolve(context.Background(), Classify(srv.URL+"/paper.pdf"))
		require.NoError(t, err)
		assert.Equal(t, fakePDF, doc.Bytes)
	})

	t.Run("landing page link is followed", func(t *testing.T) {
		doc, err := r.Resolve(context.Background(), Classify(srv.URL+"/landing"))
		require.NoError(t, err)
		assert.Equal(t, fakePDF, doc.Bytes)
		assert.Contains(t, doc.Origin, "/files/paper.pdf")
	})

	t.Run("landing page without link", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), Classify(srv.URL+"/nolink"))
		assert.Equal(t, core.KindFetch, core.KindOf(err))
	})

	t.Run("not found upstream", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), Classify(srv.URL+"/missing.pdf"))
		assert.Equal(t, core.KindFetch, core.KindOf(err))
	})

	t.Run("non pdf content", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), Classify(srv.URL+"/text"))
		assert.Equal(t, core.KindInvalidFormat, core.KindOf(err))
	})

	t.Run("size cap", func(t *testing.T) {
		small := NewSourceResolver(IngestConfig{MaxDocumentBytes: 64}, nil, zerolog.Nop())
		_, err := small.Resolve(context.Background(), Classify(srv.URL+"/big.pdf"))
		assert.Equal(t, core.KindInvalidFormat, core.KindOf(err))
	})

	t.Run("unreachable host", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		url := dead.URL
		dead.Close()

		_, err := r.Resolve(context.Background(), Classify(url+"/paper.pdf"))
		assert.Equal(t, core.KindFetch, core.KindOf(err))
	})
}

type fakeObjects struct {
	objects map[string][]byte
}

func (f *fakeObjects) GetObjectReader(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	b, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, core.NotFoundError("no such key", nil)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func TestResolve_ObjectStore(t *testing.T) {
	objects := &fakeObjects{objects: map[string][]byte{
		"papers/attention.pdf": fakePDF,
		"papers/notes.txt":     []byte("hello"),
	}}
	r := newTestResolver(objects)

	doc, err := r.Resolve(context.Background(), Classify("s3://papers/attention.pdf"))
	require.NoError(t, err)
	assert.Equal(t, fakePDF, doc.Bytes)

	_, err = r.Resolve(context.Background(), Classify("s3://papers/missing.pdf"))
	assert.Equal(t, core.KindNotFound, core.KindOf(err))

	_, err = r.Resolve(context.Background(), Classify("s3://papers/notes.txt"))
	assert.Equal(t, core.KindInvalidFormat, core.KindOf(err))

	_, err = newTestResolver(nil).Resolve(context.Background(), Classify("s3://papers/attention.pdf"))
	assert.Equal(t, core.KindInvalidSource, core.KindOf(err))
}

func TestFindPDFLink(t *testing.T) {
	html := []byte(`<html><head><meta name="citation_pdf_url" content="https://example.org/pdf/1234"></head>
<body><a href="other.pdf">x</a></body></html>`)
	assert.Equal(t, "https://example.org/pdf/1234", findPDFLink(html, "https://example.org/abs/1234"))

	html = []byte(`<a href="#top">top</a><a href="javascript:void(0)">pdf</a><a href="/download/1234">Download PDF</a>`)
	assert.Equal(t, "https://example.org/download/1234", findPDFLink(html, "https://example.org/abs/1234"))

	assert.Equal(t, "", findPDFLink([]byte(`<p>no links</p>`), "https://example.org/"))
}

func TestHasPDFSignature(t *testing.T) {
	assert.True(t, HasPDFSignature(fakePDF))
	assert.True(t, HasPDFSignature(append([]byte("\xef\xbb\xbf"), fakePDF...)))
	assert.False(t, HasPDFSignature([]byte("hello")))
	assert.False(t, HasPDFSignature(append(bytes.Repeat([]byte(" "), 2048), fakePDF...)))
}
