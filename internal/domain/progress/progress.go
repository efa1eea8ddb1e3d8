package progress

// Stage bounds of the memorization ladder. Stage 0 is a freshly enrolled or
// most recently failed word, stage 6 is mastered.
const (
	MinStage = 0
	MaxStage = 6
)

// StageDays is the fixed review interval ladder, indexed by stage.
var StageDays = [MaxStage + 1]int{0, 1, 3, 7, 14, 30, 365}

// Progress tracks one user's memorization state for one word.
// All methods return a new value; nothing here touches storage.
type Progress struct {
	Stage          int
	Due            Date
	EnrolledAt     Date
	WrongToday     bool
	WrongTodayDate Date
}

// New creates the progress written at enrollment: stage 0, due immediately.
func New(today Date) Progress {
	return Progress{
		Stage:      MinStage,
		Due:        today,
		EnrolledAt: today,
	}
}

// ClampStage forces a stage into [MinStage, MaxStage].
func ClampStage(stage int) int {
	if stage < MinStage {
		return MinStage
	}
	if stage > MaxStage {
		return MaxStage
	}
	return stage
}

// NextDue computes the ladder due date for the given stage.
func NextDue(today Date, stage int) Date {
	return today.AddDays(StageDays[ClampStage(stage)])
}

// ApplyCorrect advances one stage (capped at mastered) and schedules the
// next review at the new stage's ladder interval. Any same-day-wrong flag
// is cleared.
func (p Progress) ApplyCorrect(today Date) Progress {
	next := p
	next.Stage = ClampStage(p.Stage + 1)
	next.Due = NextDue(today, next.Stage)
	next.WrongToday = false
	next.WrongTodayDate = Date{}
	return next
}

// ApplyIncorrect drops one stage (floored at 0) and makes the word due again
// today, regardless of the new stage's nominal interval: a missed word must
// keep resurfacing until it is answered correctly or the day ends.
func (p Progress) ApplyIncorrect(today Date) Progress {
	next := p
	next.Stage = ClampStage(p.Stage - 1)
	next.Due = today
	next.WrongToday = true
	next.WrongTodayDate = today
	return next
}

// WrongTodayActive reports whether the same-day-wrong flag applies to today.
// A flag dated any other day is stale and counts as cleared.
func (p Progress) WrongTodayActive(today Date) bool {
	return p.WrongToday && p.WrongTodayDate == today
}

// IsDue reports whether the word should appear in today's review queue:
// its due date has arrived, or it was answered wrong earlier today.
func (p Progress) IsDue(today Date) bool {
	return !p.Due.After(today) || p.WrongTodayActive(today)
}

// Normalize repairs a progress read from storage: the stage is clamped and a
// stale same-day-wrong flag is cleared. Invariant violations are fixed here
// at the read boundary rather than surfaced as errors.
func (p Progress) Normalize(today Date) Progress {
	next := p
	next.Stage = ClampStage(p.Stage)
	if !p.WrongTodayActive(today) {
		next.WrongToday = false
		next.WrongTodayDate = Date{}
	}
	return next
}
