package proxy

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/colonyops/briefly/internal/core/logging"
	"github.com/colonyops/briefly/pkg/iojson"
)

const maxRequestBytes = 1 << 20

type handlers struct {
	issues IssueSource
}

type analyzeRequest struct {
	Text *string `json:"text"`
}

func (h *handlers) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		iojson.RespondError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}
	if req.Text == nil {
		iojson.RespondError(w, http.StatusBadRequest, `missing "text"`)
		return
	}

	issues, err := h.issues.Issues(r.Context(), *req.Text)
	if err != nil {
		if errors.Is(err, r.Context().Err()) {
			return
		}
		l := logging.For(r.Context(), "proxy")
		l.Error().Err(err).Msg("analyze failed")
		iojson.RespondError(w, http.StatusBadGateway, "Failed to analyze text")
		return
	}

	iojson.Respond(w, http.StatusOK, issues)
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	iojson.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
