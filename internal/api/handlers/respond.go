package handlers

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its HTTP status and a structured body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := core.KindOf(err)
	status := kind.HTTPStatus()

	evt := hlog.FromRequest(r).Warn()
	if status >= 500 {
		evt = hlog.FromRequest(r).Error()
	}
	evt.Err(err).Str("kind", kind.String()).Msg("request failed")

	writeJSON(w, status, models.ErrorResponse{
		Error:     kind.String(),
		Detail:    err.Error(),
		RequestID: chimw.GetReqID(r.Context()),
	})
}
