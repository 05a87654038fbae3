// Package http provides a minimal net/http host adapter for the engine: one
// handler that decodes a trigger envelope from the request body, runs one
// engine invocation, and writes the outcome as JSON.
package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/xapay/xapay-go/encoding"
	"github.com/xapay/xapay-go/engine"
	"github.com/xapay/xapay-go/internal/logging"
)

// maxBodyBytes bounds the accepted envelope size.
const maxBodyBytes = 1 << 20

// Handler serves trigger envelopes against a single engine.
type Handler struct {
	engine   *engine.Engine
	decimals int
	logger   *slog.Logger
}

// NewHandler builds a trigger handler over the given engine. The decimals
// scale must match the engine's configuration so envelope amount literals
// parse to the same atomic units.
func NewHandler(eng *engine.Engine, decimals int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{engine: eng, decimals: decimals, logger: logger}
}

// ServeHTTP accepts POST requests whose body is a JSON trigger envelope.
// Envelope decode failures are 400s; engine outcomes, committed or rejected,
// are 200s carrying the outcome JSON. Rejection is a terminal result of a
// well-formed invocation, not a transport error.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	ev, err := encoding.DecodeTrigger(body, h.decimals)
	if err != nil {
		h.logger.InfoContext(r.Context(), "envelope rejected", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome := h.engine.Process(r.Context(), ev)
	writeJSON(w, http.StatusOK, outcome)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var _ http.Handler = (*Handler)(nil)
