package api

import (
	"net/http"

	"github.com/tapspeak/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type PointsResponse struct {
	Points int `json:"points" example:"12"`
}

type UserListResponse struct {
	Users []string `json:"users"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listUsers lists the known user profiles.
// @Summary      List users
// @Tags         Users
// @Produce      json
// @Success      200  {object}  UserListResponse
// @Failure      500  {object}  map[string]string
// @Router       /users [get]
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if h.handleStoreError(w, err, "users") {
		return
	}
	respondJSON(w, http.StatusOK, UserListResponse{Users: users})
}

// ensureUser creates the user profile if it does not exist yet.
// @Summary      Ensure a user exists
// @Description  Creates the profile with default settings. Idempotent.
// @Tags         Users
// @Param        userID  path  string  true  "User ID"
// @Success      204
// @Failure      500  {object}  map[string]string
// @Router       /users/{userID} [post]
func (h *Handler) ensureUser(w http.ResponseWriter, r *http.Request) {
	if h.handleStoreError(w, h.store.EnsureUser(r.Context(), r.PathValue("userID")), "user") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getPoints returns the user's point balance.
// @Summary      Get points
// @Tags         Users
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Success      200  {object}  PointsResponse
// @Failure      500  {object}  map[string]string
// @Router       /users/{userID}/points [get]
func (h *Handler) getPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.store.Points(r.Context(), r.PathValue("userID"))
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, PointsResponse{Points: points})
}

// resetPoints zeroes the point balance and the correct-streak counter.
// @Summary      Reset points
// @Description  Sets points to zero and restarts the ten-correct counter.
// @Tags         Users
// @Param        userID  path  string  true  "User ID"
// @Success      204
// @Failure      500  {object}  map[string]string
// @Router       /users/{userID}/points/reset [post]
func (h *Handler) resetPoints(w http.ResponseWriter, r *http.Request) {
	if h.handleStoreError(w, h.store.ResetPoints(r.Context(), r.PathValue("userID")), "user") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resetLearning wipes all progress and points but keeps settings and the
// avatar, matching the parent-menu "reset learning" action.
// @Summary      Reset learning
// @Description  Deletes every progress record and zeroes points. Settings and avatar survive.
// @Tags         Users
// @Param        userID  path  string  true  "User ID"
// @Success      204
// @Failure      500  {object}  map[string]string
// @Router       /users/{userID}/learning/reset [post]
func (h *Handler) resetLearning(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if h.handleStoreError(w, h.store.ResetLearning(r.Context(), userID), "user") {
		return
	}
	h.review.EndSession(userID)
	w.WriteHeader(http.StatusNoContent)
}

// getSettings returns the user's settings, defaults included.
// @Summary      Get settings
// @Tags         Settings
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Success      200  {object}  store.Settings
// @Failure      500  {object}  map[string]string
// @Router       /users/{userID}/settings [get]
func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Settings(r.Context(), r.PathValue("userID"))
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// updateSettings applies a partial settings update. Only the fields present
// in the body change; the PIN is stored as-is, verification is the UI's job.
// @Summary      Update settings
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        userID  path  string               true  "User ID"
// @Param        body    body  store.SettingsPatch  true  "Fields to change"
// @Success      200  {object}  store.Settings
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{userID}/settings [patch]
func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var patch store.SettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	settings, err := h.store.UpdateSettings(r.Context(), r.PathValue("userID"), patch)
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, settings)
}
