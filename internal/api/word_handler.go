package api

import (
	"net/http"

	"github.com/tapspeak/backend/internal/domain/progress"
	"github.com/tapspeak/backend/internal/domain/review"
	"github.com/tapspeak/backend/internal/domain/word"
)

// ── Request / Response types ────────────────────────────────────────────────

type StageGroupResponse struct {
	ID    string `json:"id" example:"not_yet"`
	Label string `json:"label" example:"まだ"`
}

type WordResponse struct {
	ID           string `json:"id" example:"animals:cat"`
	Word         string `json:"word" example:"ねこ"`
	Description  string `json:"description,omitempty"`
	CategoryID   string `json:"category_id" example:"animals"`
	CategoryKana string `json:"category_kana,omitempty"`
	ImageFile    string `json:"image_file,omitempty"`
	Enrolled     bool   `json:"enrolled"`
	Stage        int    `json:"stage"`
	StageGroup   string `json:"stage_group" example:"not_yet"`
	Due          string `json:"due,omitempty" example:"2025-06-10"`
	WrongToday   bool   `json:"wrong_today"`
}

type RememberResponse struct {
	ID    string `json:"id"`
	Stage int    `json:"stage"`
	Due   string `json:"due"`
}

// parseFilters reads the repeated category/group query parameters. Absent
// parameters mean "everything selected"; multiple values OR together.
func parseFilters(r *http.Request) review.Filters {
	q := r.URL.Query()
	f := review.Filters{Categories: q["category"]}
	for _, g := range q["group"] {
		f.StageGroups = append(f.StageGroups, progress.StageGroup(g))
	}
	return f
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listCategories lists the catalog's categories.
// @Summary      List categories
// @Description  Returns the word catalog's categories in display order.
// @Tags         Catalog
// @Produce      json
// @Success      200  {array}  word.Category
// @Router       /categories [get]
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Categories())
}

// listStageGroups lists the stage-group filter buckets with their labels.
// @Summary      List stage groups
// @Description  Returns the word-mode filter buckets, unenrolled first.
// @Tags         Catalog
// @Produce      json
// @Success      200  {array}  StageGroupResponse
// @Router       /stage-groups [get]
func (h *Handler) listStageGroups(w http.ResponseWriter, r *http.Request) {
	groups := progress.WordGroups()
	response := make([]StageGroupResponse, len(groups))
	for i, g := range groups {
		response[i] = StageGroupResponse{ID: string(g), Label: g.Label()}
	}
	respondJSON(w, http.StatusOK, response)
}

// listWords is the word-mode listing: the whole catalog with each word's
// learning state, narrowed by category/group filters.
// @Summary      List words
// @Description  Returns the catalog with per-word learning state. Unenrolled words form their own filter bucket.
// @Tags         Words
// @Produce      json
// @Param        userID    path   string  true   "User ID"
// @Param        category  query  string  false  "Category filter, repeatable"
// @Param        group     query  string  false  "Stage-group filter, repeatable"
// @Success      200  {array}   WordResponse
// @Failure      500  {object}  map[string]string
// @Router       /users/{userID}/words [get]
func (h *Handler) listWords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("userID")
	today := h.today()

	prog, err := h.store.AllProgress(ctx, userID, today)
	if h.handleStoreError(w, err, "user") {
		return
	}

	words := review.FilterWords(h.catalog, prog, parseFilters(r))
	response := make([]WordResponse, len(words))
	for i, rec := range words {
		response[i] = wordResponse(rec, prog)
	}
	respondJSON(w, http.StatusOK, response)
}

func wordResponse(rec word.Record, prog map[string]progress.Progress) WordResponse {
	resp := WordResponse{
		ID:           rec.ID(),
		Word:         rec.Word,
		Description:  rec.Description,
		CategoryID:   rec.CategoryID,
		CategoryKana: rec.CategoryKana,
		ImageFile:    rec.ImageFile,
		StageGroup:   string(progress.GroupUnenrolled),
	}
	if p, ok := prog[rec.ID()]; ok {
		resp.Enrolled = true
		resp.Stage = p.Stage
		resp.StageGroup = string(progress.StageGroupOf(p.Stage))
		resp.Due = p.Due.String()
		resp.WrongToday = p.WrongToday
	}
	return resp
}

// rememberWord enrolls a word into learning at stage 0, due today. The
// "おぼえる" tap always re-enrolls: an existing record is overwritten and
// no points are involved.
// @Summary      Remember a word
// @Description  Enrolls the word at the lowest stage, due today. Re-tapping restarts the word.
// @Tags         Words
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Param        wordID  path  string  true  "Word ID"
// @Success      200  {object}  RememberResponse
// @Failure      404  {object}  map[string]string  "word not in catalog"
// @Failure      500  {object}  map[string]string
// @Router       /users/{userID}/words/{wordID}/remember [post]
func (h *Handler) rememberWord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("userID")
	wordID := r.PathValue("wordID")

	if _, ok := h.catalog.Get(wordID); !ok {
		respondError(w, http.StatusNotFound, "word not found")
		return
	}

	p, err := h.store.Enroll(ctx, userID, wordID, h.today())
	if h.handleStoreError(w, err, "word") {
		return
	}

	respondJSON(w, http.StatusOK, RememberResponse{
		ID:    wordID,
		Stage: p.Stage,
		Due:   p.Due.String(),
	})
}

// forgetWord removes a word's progress record. Deleting an unenrolled word
// is a success: the end state is the same.
// @Summary      Forget a word
// @Description  Removes the word's learning record. Idempotent.
// @Tags         Words
// @Param        userID  path  string  true  "User ID"
// @Param        wordID  path  string  true  "Word ID"
// @Success      204
// @Failure      500  {object}  map[string]string
// @Router       /users/{userID}/words/{wordID}/progress [delete]
func (h *Handler) forgetWord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("userID")
	wordID := r.PathValue("wordID")

	if h.handleStoreError(w, h.store.DeleteProgress(ctx, userID, wordID), "word") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
