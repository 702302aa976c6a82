package ingestion_engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/models"
)

const (
	SourceTypeAuto      = "auto"
	SourceTypeURL       = "url"
	SourceTypeLocalFile = "local_file"
	SourceTypeS3        = "s3"

	userAgent = "paperdigest/1.0 (+https://github.com/markdave123-py/paperdigest)"
)

// pdfSignature must appear within the first kilobyte of a PDF file.
var pdfSignature = []byte("%PDF-")

// Classify decides whether raw names a remote URL, an object-store key or a local path.
// It performs no I/O.
func Classify(raw string) models.Source {
	trimmed := strings.TrimSpace(raw)

	if u, err := url.Parse(trimmed); err == nil && u.IsAbs() && u.Host != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return models.Source{Raw: raw, Kind: models.RemoteURL, Location: normalizeRemoteURL(u)}
		case "s3":
			if strings.Trim(u.Path, "/") != "" {
				return models.Source{Raw: raw, Kind: models.ObjectStore, Location: trimmed}
			}
		}
	}

	return models.Source{Raw: raw, Kind: models.LocalFile, Location: trimmed}
}

// ClassifyAs applies an explicit source type from the request. "auto" or "" falls back to Classify.
func ClassifyAs(raw, sourceType string) (models.Source, error) {
	if strings.TrimSpace(raw) == "" {
		return models.Source{}, core.InvalidSourceError("source is empty", nil)
	}

	src := Classify(raw)

	switch strings.ToLower(strings.TrimSpace(sourceType)) {
	case "", SourceTypeAuto:
		return src, nil
	case SourceTypeURL:
		if src.Kind != models.RemoteURL {
			return models.Source{}, core.InvalidSourceError(fmt.Sprintf("%q is not an http(s) URL", raw), nil)
		}
		return src, nil
	case SourceTypeLocalFile:
		return models.Source{Raw: raw, Kind: models.LocalFile, Location: strings.TrimSpace(raw)}, nil
	case SourceTypeS3:
		if src.Kind != models.ObjectStore {
			return models.Source{}, core.InvalidSourceError(fmt.Sprintf("%q is not an s3://bucket/key URL", raw), nil)
		}
		return src, nil
	default:
		return models.Source{}, core.InvalidSourceError(fmt.Sprintf("unknown source_type %q", sourceType), nil)
	}
}

// normalizeRemoteURL rewrites arXiv abstract pages to their PDF endpoint.
func normalizeRemoteURL(u *url.URL) string {
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if host == "arxiv.org" && strings.HasPrefix(u.Path, "/abs/") {
		out := *u
		out.Path = "/pdf/" + strings.TrimPrefix(u.Path, "/abs/")
		return out.String()
	}
	return u.String()
}

// SourceResolver turns a classified Source into document bytes. It never retries.
type SourceResolver struct {
	cfg        IngestConfig
	httpClient *http.Client
	objects    core.ObjectClient
	log        zerolog.Logger
}

// NewSourceResolver builds a resolver. objects may be nil when object storage is not configured.
func NewSourceResolver(cfg IngestConfig, objects core.ObjectClient, log zerolog.Logger) *SourceResolver {
	return &SourceResolver{
		cfg:        cfg,
		httpClient: &http.Client{},
		objects:    objects,
		log:        log,
	}
}

// Resolve reads the document named by src.
func (r *SourceResolver) Resolve(ctx context.Context, src models.Source) (*models.Document, error) {
	switch src.Kind {
	case models.RemoteURL:
		return r.fetchRemote(ctx, src.Location, true)
	case models.LocalFile:
		return r.readLocal(src.Location)
	case models.ObjectStore:
		return r.readObject(ctx, src.Location)
	default:
		return nil, core.InvalidSourceError(fmt.Sprintf("unsupported source kind %q", src.Kind), nil)
	}
}

func (r *SourceResolver) fetchRemote(ctx context.Context, rawURL string, followLanding bool) (*models.Document, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.cfg.fetchTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, core.InvalidSourceError("build request for "+rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/pdf, text/html;q=0.5, */*;q=0.1")

	r.log.Info().Str("url", rawURL).Msg("downloading document")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, core.FetchError("download "+rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, core.FetchError(fmt.Sprintf("download %s: status %d", rawURL, resp.StatusCode), nil)
	}

	body, err := r.readLimited(resp.Body)
	if err != nil {
		if core.KindOf(err) == core.KindInvalidFormat {
			return nil, err
		}
		return nil, core.FetchError("read body of "+rawURL, err)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	if HasPDFSignature(body) {
		r.log.Info().Str("url", finalURL).Int("bytes", len(body)).Msg("document downloaded")
		return &models.Document{Bytes: body, Origin: finalURL}, nil
	}

	contentType := resp.Header.Get("Content-Type")
	if followLanding && looksLikeHTML(contentType, body) {
		link := findPDFLink(body, finalURL)
		if link == "" {
			return nil, core.FetchError("no PDF link found on page "+finalURL, nil)
		}
		r.log.Info().Str("page", finalURL).Str("pdf", link).Msg("following PDF link from landing page")
		return r.fetchRemote(ctx, link, false)
	}

	return nil, core.InvalidFormatError(fmt.Sprintf("content at %s is not a PDF (content-type %q)", finalURL, contentType), nil)
}

func (r *SourceResolver) readLocal(path string) (*models.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.NotFoundError("file not found: "+path, err)
		}
		return nil, core.InvalidSourceError("cannot access file: "+path, err)
	}
	if info.IsDir() {
		return nil, core.InvalidFormatError("path is a directory, not a file: "+path, nil)
	}
	if info.Size() > r.cfg.maxDocumentBytes() {
		return nil, core.InvalidFormatError(fmt.Sprintf("file is %d bytes, limit is %d", info.Size(), r.cfg.maxDocumentBytes()), nil)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, core.InvalidSourceError("read file: "+path, err)
	}
	if !HasPDFSignature(body) {
		return nil, core.InvalidFormatError("file is not a PDF: "+path, nil)
	}

	return &models.Document{Bytes: body, Origin: path}, nil
}

func (r *SourceResolver) readObject(ctx context.Context, location string) (*models.Document, error) {
	if r.objects == nil {
		return nil, core.InvalidSourceError("object storage is not configured", nil)
	}

	bucket, key, err := parseS3URL(location)
	if err != nil {
		return nil, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.cfg.fetchTimeout())
	defer cancel()

	rc, err := r.objects.GetObjectReader(fetchCtx, bucket, key)
	if err != nil {
		if core.KindOf(err) == core.KindNotFound {
			return nil, err
		}
		return nil, core.FetchError("get object "+location, err)
	}
	defer rc.Close()

	body, err := r.readLimited(rc)
	if err != nil {
		if core.KindOf(err) == core.KindInvalidFormat {
			return nil, err
		}
		return nil, core.FetchError("read object "+location, err)
	}
	if !HasPDFSignature(body) {
		return nil, core.InvalidFormatError("object is not a PDF: "+location, nil)
	}

	return &models.Document{Bytes: body, Origin: location}, nil
}

func (r *SourceResolver) readLimited(rd io.Reader) ([]byte, error) {
	limit := r.cfg.maxDocumentBytes()
	body, err := io.ReadAll(io.LimitReader(rd, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, core.InvalidFormatError(fmt.Sprintf("document exceeds %d bytes", limit), nil)
	}
	return body, nil
}

// parseS3URL splits s3://bucket/path/to/key.
func parseS3URL(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme != "s3" {
		return "", "", core.InvalidSourceError("invalid s3 URL: "+location, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", core.InvalidSourceError("s3 URL needs bucket and key: "+location, nil)
	}
	return bucket, key, nil
}

// HasPDFSignature reports whether b carries the %PDF- header in its first kilobyte.
func HasPDFSignature(b []byte) bool {
	head := b
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, pdfSignature)
}

func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	return strings.Contains(http.DetectContentType(body), "text/html")
}

// findPDFLink picks the most likely PDF link on an HTML landing page.
// citation_pdf_url meta tags win, then anchors ending in .pdf, then anchors mentioning pdf/download.
func findPDFLink(html []byte, base string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}

	if content, ok := doc.Find(`meta[name="citation_pdf_url"]`).First().Attr("content"); ok {
		if abs := absURL(base, content); abs != "" {
			return abs
		}
	}

	var byExt, byText string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		abs := absURL(base, href)
		if abs == "" {
			return true
		}
		u, err := url.Parse(abs)
		if err != nil {
			return true
		}
		if strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
			byExt = abs
			return false
		}
		text := strings.ToLower(strings.TrimSpace(a.Text()))
		if byText == "" && (strings.Contains(text, "pdf") || strings.Contains(text, "download")) {
			byText = abs
		}
		return true
	})

	if byExt != "" {
		return byExt
	}
	return byText
}

func absURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	h, err := url.Parse(href)
	if err != nil {
		return ""
	}
	out := b.ResolveReference(h)
	if out.Scheme != "http" && out.Scheme != "https" {
		return ""
	}
	return out.String()
}
