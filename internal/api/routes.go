package api

import "net/http"

// RegisterRoutes wires every endpoint onto the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Catalog
	mux.HandleFunc("GET /categories", h.listCategories)
	mux.HandleFunc("GET /stage-groups", h.listStageGroups)

	// Users
	mux.HandleFunc("GET /users", h.listUsers)
	mux.HandleFunc("POST /users/{userID}", h.ensureUser)

	// Word mode
	mux.HandleFunc("GET /users/{userID}/words", h.listWords)
	mux.HandleFunc("POST /users/{userID}/words/{wordID}/remember", h.rememberWord)
	mux.HandleFunc("DELETE /users/{userID}/words/{wordID}/progress", h.forgetWord)

	// Review mode
	mux.HandleFunc("GET /users/{userID}/review/queue", h.reviewQueue)
	mux.HandleFunc("POST /users/{userID}/review/end", h.endReview)
	mux.HandleFunc("POST /users/{userID}/review/{wordID}/speak", h.reviewSpeak)
	mux.HandleFunc("POST /users/{userID}/review/{wordID}/reveal", h.reviewReveal)
	mux.HandleFunc("POST /users/{userID}/review/{wordID}/audio-complete", h.reviewAudioComplete)
	mux.HandleFunc("POST /users/{userID}/review/{wordID}/judge", h.reviewJudge)

	// Points and resets
	mux.HandleFunc("GET /users/{userID}/points", h.getPoints)
	mux.HandleFunc("POST /users/{userID}/points/reset", h.resetPoints)
	mux.HandleFunc("POST /users/{userID}/learning/reset", h.resetLearning)

	// Settings
	mux.HandleFunc("GET /users/{userID}/settings", h.getSettings)
	mux.HandleFunc("PATCH /users/{userID}/settings", h.updateSettings)

	// Backup
	mux.HandleFunc("GET /users/{userID}/export", h.exportUser)
	mux.HandleFunc("POST /users/{userID}/import", h.importUser)
}
