package api

import (
	"encoding/json"
	"net/http"

	"github.com/tapspeak/backend/internal/store"
)

// ── Handlers ────────────────────────────────────────────────────────────────

// exportUser downloads the user's data as a JSON backup.
// @Summary      Export user data
// @Description  Returns points, the correct-streak counter, every progress record and the settings as a downloadable JSON file.
// @Tags         Backup
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Success      200  {object}  store.UserBackup
// @Failure      500  {object}  map[string]string
// @Router       /users/{userID}/export [get]
func (h *Handler) exportUser(w http.ResponseWriter, r *http.Request) {
	backup, err := h.store.ExportUser(r.Context(), r.PathValue("userID"))
	if h.handleStoreError(w, err, "user") {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=tapspeak-export.json")
	json.NewEncoder(w).Encode(backup)
}

// importUser restores the user's data from a backup.
// @Summary      Import user data
// @Description  Replaces progress, points and settings from a backup. Out-of-range values are repaired rather than rejected, and the stored avatar is kept.
// @Tags         Backup
// @Accept       json
// @Param        userID  path  string           true  "User ID"
// @Param        body    body  store.UserBackup true  "Backup to restore"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{userID}/import [post]
func (h *Handler) importUser(w http.ResponseWriter, r *http.Request) {
	var backup store.UserBackup
	if !decodeJSON(w, r, &backup) {
		return
	}

	userID := r.PathValue("userID")
	if h.handleStoreError(w, h.store.ImportUser(r.Context(), userID, backup), "user") {
		return
	}
	h.review.EndSession(userID)
	w.WriteHeader(http.StatusNoContent)
}
