package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/core/ingestion_engine"
	"github.com/markdave123-py/paperdigest/internal/models"
)

const maxRequestBody = 1 << 20

// Summarizer is the request-level pipeline behind the handlers.
type Summarizer interface {
	Summarize(ctx context.Context, requestID string, src models.Source) (*models.FinalSummary, error)
}

type SummarizeHandler struct {
	service Summarizer
}

func NewSummarizeHandler(service Summarizer) *SummarizeHandler {
	return &SummarizeHandler{service: service}
}

// Summarize accepts {"source": "...", "source_type": "auto|url|local_file|s3"}.
// "url" and "file_path" are accepted in place of "source".
func (h *SummarizeHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	raw := req.Source
	sourceType := req.SourceType
	switch {
	case strings.TrimSpace(raw) != "":
	case strings.TrimSpace(req.URL) != "":
		raw = req.URL
		if sourceType == "" {
			sourceType = ingestion_engine.SourceTypeURL
		}
	case strings.TrimSpace(req.FilePath) != "":
		raw = req.FilePath
		if sourceType == "" {
			sourceType = ingestion_engine.SourceTypeLocalFile
		}
	}

	h.run(w, r, raw, sourceType)
}

// SummarizeArxiv accepts {"url": "..."}.
func (h *SummarizeHandler) SummarizeArxiv(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	raw := req.URL
	if raw == "" {
		raw = req.Source
	}
	h.run(w, r, raw, ingestion_engine.SourceTypeURL)
}

// SummarizeLocal accepts {"file_path": "..."}.
func (h *SummarizeHandler) SummarizeLocal(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	raw := req.FilePath
	if raw == "" {
		raw = req.Source
	}
	h.run(w, r, raw, ingestion_engine.SourceTypeLocalFile)
}

func (h *SummarizeHandler) run(w http.ResponseWriter, r *http.Request, raw, sourceType string) {
	src, err := ingestion_engine.ClassifyAs(raw, sourceType)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.service.Summarize(r.Context(), chimw.GetReqID(r.Context()), src)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.SummarizeResponse{
		RequestID:    summary.RequestID,
		Source:       src.Raw,
		SourceType:   src.Kind,
		FinalSummary: summary.Text,
		Pages:        summary.Pages,
		Chunks:       summary.Chunks,
		FailedChunks: summary.FailedChunks,
		MetaRounds:   summary.MetaRounds,
		Language:     summary.Language,
		Degraded:     summary.Degraded,
	})
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (models.SummarizeRequest, bool) {
	var req models.SummarizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, r, core.InvalidSourceError("invalid request body", err))
		return req, false
	}
	return req, true
}
