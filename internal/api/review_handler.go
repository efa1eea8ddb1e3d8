package api

import (
	"errors"
	"net/http"

	"github.com/tapspeak/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type ReviewQueueResponse struct {
	Count int                 `json:"count"`
	Cards []service.QueueItem `json:"cards"`
}

type JudgeRequest struct {
	Result string `json:"result" example:"correct"`
}

func (r *JudgeRequest) Validate() error {
	if r.Result != "correct" && r.Result != "incorrect" {
		return errors.New(`result must be "correct" or "incorrect"`)
	}
	return nil
}

// ── Handlers ────────────────────────────────────────────────────────────────

// reviewQueue recomputes today's due set and starts a fresh pass over it.
// @Summary      Get the review queue
// @Description  Recomputes the due set for today and resets every card to the prompt step. Words judged wrong earlier today stay in the queue.
// @Tags         Review
// @Produce      json
// @Param        userID    path   string  true   "User ID"
// @Param        category  query  string  false  "Category filter, repeatable"
// @Param        group     query  string  false  "Stage-group filter, repeatable"
// @Success      200  {object}  ReviewQueueResponse
// @Failure      500  {object}  map[string]string
// @Router       /users/{userID}/review/queue [get]
func (h *Handler) reviewQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("userID")

	cards, err := h.review.Queue(ctx, userID, parseFilters(r))
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, ReviewQueueResponse{Count: len(cards), Cards: cards})
}

// endReview abandons the current pass without judging the open card.
// @Summary      End the review session
// @Description  Drops the current pass. No judgment is applied for a card left mid-flow.
// @Tags         Review
// @Param        userID  path  string  true  "User ID"
// @Success      204
// @Router       /users/{userID}/review/end [post]
func (h *Handler) endReview(w http.ResponseWriter, r *http.Request) {
	h.review.EndSession(r.PathValue("userID"))
	w.WriteHeader(http.StatusNoContent)
}

// reviewSpeak is the "try saying it" tap.
// @Summary      Speak trigger
// @Description  Plays the begin-attempt cue and starts the pacing delay. A tap out of turn is a 200 no-op reporting the current state.
// @Tags         Review
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Param        wordID  path  string  true  "Word ID"
// @Success      200  {object}  service.TriggerResult
// @Router       /users/{userID}/review/{wordID}/speak [post]
func (h *Handler) reviewSpeak(w http.ResponseWriter, r *http.Request) {
	res := h.review.Speak(r.Context(), r.PathValue("userID"), r.PathValue("wordID"))
	respondJSON(w, http.StatusOK, res)
}

// reviewReveal is the "hear the answer" tap.
// @Summary      Reveal trigger
// @Description  Returns the speak-word effect for the UI to play. Judgment opens once playback completion is reported.
// @Tags         Review
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Param        wordID  path  string  true  "Word ID"
// @Success      200  {object}  service.TriggerResult
// @Router       /users/{userID}/review/{wordID}/reveal [post]
func (h *Handler) reviewReveal(w http.ResponseWriter, r *http.Request) {
	res := h.review.Reveal(r.Context(), r.PathValue("userID"), r.PathValue("wordID"))
	respondJSON(w, http.StatusOK, res)
}

// reviewAudioComplete reports that answer playback finished.
// @Summary      Audio completed
// @Description  Unlocks the judgment step for the revealed card.
// @Tags         Review
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Param        wordID  path  string  true  "Word ID"
// @Success      200  {object}  service.TriggerResult
// @Router       /users/{userID}/review/{wordID}/audio-complete [post]
func (h *Handler) reviewAudioComplete(w http.ResponseWriter, r *http.Request) {
	res := h.review.AudioCompleted(r.Context(), r.PathValue("userID"), r.PathValue("wordID"))
	respondJSON(w, http.StatusOK, res)
}

// reviewJudge applies the ○/× judgment for the open card.
// @Summary      Judge trigger
// @Description  Applies the judgment and reschedules the word. Correct may grant a point; incorrect requeues the word for today. Double-taps are 200 no-ops.
// @Tags         Review
// @Accept       json
// @Produce      json
// @Param        userID  path  string        true  "User ID"
// @Param        wordID  path  string        true  "Word ID"
// @Param        body    body  JudgeRequest  true  "Judgment"
// @Success      200  {object}  service.JudgeResult
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{userID}/review/{wordID}/judge [post]
func (h *Handler) reviewJudge(w http.ResponseWriter, r *http.Request) {
	var req JudgeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.review.Judge(r.Context(), r.PathValue("userID"), r.PathValue("wordID"), req.Result == "correct")
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, res)
}
