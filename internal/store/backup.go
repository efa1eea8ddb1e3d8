package store

import "github.com/tapspeak/backend/internal/domain/progress"

// ProgressRecord is the persisted wire shape of one word's progress. Dates
// are local-calendar "YYYY-MM-DD"; an empty wrongTodayDate means the flag
// was never set or has been cleared.
type ProgressRecord struct {
	Stage          int    `json:"stage"`
	Due            string `json:"due"`
	WrongToday     bool   `json:"wrongToday"`
	WrongTodayDate string `json:"wrongTodayDate"`
	EnrolledAt     string `json:"enrolledAt"`
}

// UserBackup is the full persisted state of one user, serialized verbatim
// by the backup/import tooling.
type UserBackup struct {
	Points            int                       `json:"points"`
	CorrectSincePoint int                       `json:"correctSincePoint"`
	Progress          map[string]ProgressRecord `json:"progress"`
	Settings          Settings                  `json:"settings"`
}

// RecordFromProgress converts a domain progress to its wire shape.
func RecordFromProgress(p progress.Progress) ProgressRecord {
	r := ProgressRecord{
		Stage:      p.Stage,
		Due:        p.Due.String(),
		WrongToday: p.WrongToday,
		EnrolledAt: p.EnrolledAt.String(),
	}
	if !p.WrongTodayDate.IsZero() {
		r.WrongTodayDate = p.WrongTodayDate.String()
	}
	return r
}

// ProgressFromRecord converts a wire record back to domain progress,
// repairing whatever it finds: the stage is clamped and an unparsable date
// becomes the zero Date (which sorts before any real day, so a word with a
// broken due date simply resurfaces for review).
func ProgressFromRecord(r ProgressRecord) progress.Progress {
	return progress.Progress{
		Stage:          progress.ClampStage(r.Stage),
		Due:            parseDateOrZero(r.Due),
		EnrolledAt:     parseDateOrZero(r.EnrolledAt),
		WrongToday:     r.WrongToday,
		WrongTodayDate: parseDateOrZero(r.WrongTodayDate),
	}
}

func parseDateOrZero(s string) progress.Date {
	if s == "" {
		return progress.Date{}
	}
	d, err := progress.ParseDate(s)
	if err != nil {
		return progress.Date{}
	}
	return d
}

// sanitize repairs an imported backup in place of rejecting it: negative
// points are floored and the streak counter is wrapped back into [0,10).
func (b UserBackup) sanitize() UserBackup {
	if b.Points < 0 {
		b.Points = 0
	}
	if b.CorrectSincePoint < 0 || b.CorrectSincePoint >= correctPerPoint {
		b.CorrectSincePoint = 0
	}
	if b.Progress == nil {
		b.Progress = map[string]ProgressRecord{}
	}
	return b
}
