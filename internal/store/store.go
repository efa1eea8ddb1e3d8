package store

import (
	"context"
	"errors"

	"github.com/tapspeak/backend/internal/domain/progress"
)

var (
	ErrNotFound = errors.New("not found")
)

// Settings are the per-user preferences owned by the UI layer. The store
// only persists them; PIN checks, volume handling and avatar cropping all
// happen in the caller.
type Settings struct {
	SEVolume      float64 `json:"seVolume"`
	TTSRate       float64 `json:"ttsRate"`
	VoiceURI      string  `json:"voiceURI"`
	PIN           string  `json:"pin"`
	AvatarDataURL string  `json:"avatarDataUrl"`
}

// DefaultSettings mirrors the defaults a brand-new user starts with.
func DefaultSettings() Settings {
	return Settings{SEVolume: 0.7, TTSRate: 1.0, PIN: "1234"}
}

// SettingsPatch updates only the fields that are set.
type SettingsPatch struct {
	SEVolume      *float64 `json:"seVolume,omitempty"`
	TTSRate       *float64 `json:"ttsRate,omitempty"`
	VoiceURI      *string  `json:"voiceURI,omitempty"`
	PIN           *string  `json:"pin,omitempty"`
	AvatarDataURL *string  `json:"avatarDataUrl,omitempty"`
}

func (p SettingsPatch) apply(s Settings) Settings {
	if p.SEVolume != nil {
		s.SEVolume = *p.SEVolume
	}
	if p.TTSRate != nil {
		s.TTSRate = *p.TTSRate
	}
	if p.VoiceURI != nil {
		s.VoiceURI = *p.VoiceURI
	}
	if p.PIN != nil {
		s.PIN = *p.PIN
	}
	if p.AvatarDataURL != nil {
		s.AvatarDataURL = *p.AvatarDataURL
	}
	return s
}

// CorrectReviewResult reports the outcome of one counted correct answer.
type CorrectReviewResult struct {
	Points       int  `json:"points"`
	PointGranted bool `json:"pointGranted"`
}

// Number of correct review answers that earn one point.
const correctPerPoint = 10

// Store is the per-user persistence boundary. Implementations are
// last-writer-wins with a single writer per user; a missing or corrupt user
// record degrades to an empty-but-valid default instead of failing.
//
// Reads that take a "today" date apply the lazy same-day-wrong expiry: a
// wrongToday flag dated any other day is presented as cleared.
type Store interface {
	// Progress, keyed by (user, word).
	GetProgress(ctx context.Context, userID, wordID string, today progress.Date) (progress.Progress, error)
	SetProgress(ctx context.Context, userID, wordID string, p progress.Progress) error
	DeleteProgress(ctx context.Context, userID, wordID string) error // idempotent
	Enroll(ctx context.Context, userID, wordID string, today progress.Date) (progress.Progress, error)
	AllProgress(ctx context.Context, userID string, today progress.Date) (map[string]progress.Progress, error)

	// Points and the correct-streak counter. RecordCorrectReview is called
	// only for review-mode correct judgments, never for word-mode enrollment.
	Points(ctx context.Context, userID string) (int, error)
	RecordCorrectReview(ctx context.Context, userID string) (CorrectReviewResult, error)
	ResetPoints(ctx context.Context, userID string) error
	ResetLearning(ctx context.Context, userID string) error // keeps settings and avatar

	Settings(ctx context.Context, userID string) (Settings, error)
	UpdateSettings(ctx context.Context, userID string, patch SettingsPatch) (Settings, error)

	// Per-user backup in the persisted wire shape.
	ExportUser(ctx context.Context, userID string) (UserBackup, error)
	ImportUser(ctx context.Context, userID string, backup UserBackup) error

	ListUsers(ctx context.Context) ([]string, error)
	EnsureUser(ctx context.Context, userID string) error

	Close() error
}
