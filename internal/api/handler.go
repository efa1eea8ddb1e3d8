package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tapspeak/backend/internal/domain/progress"
	"github.com/tapspeak/backend/internal/domain/word"
	"github.com/tapspeak/backend/internal/service"
	"github.com/tapspeak/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	store   store.Store
	catalog *word.Catalog
	review  *service.ReviewService
	logger  *slog.Logger
	now     service.Clock
}

// NewHandler creates a Handler with the given dependencies. A nil clock
// means the real calendar.
func NewHandler(s store.Store, catalog *word.Catalog, review *service.ReviewService, logger *slog.Logger, now service.Clock) *Handler {
	if now == nil {
		now = progress.Today
	}
	return &Handler{
		store:   s,
		catalog: catalog,
		review:  review,
		logger:  logger,
		now:     now,
	}
}

func (h *Handler) today() progress.Date {
	return h.now()
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes an error message as JSON.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON decodes the request body into v. Returns false (and writes a
// 400) when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// validator is implemented by request types that carry their own checks.
type validator interface {
	Validate() error
}

// decodeAndValidate decodes the request body and runs its validation.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validator) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the appropriate
// HTTP response. Returns true if an error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, entity+" not found")
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}
