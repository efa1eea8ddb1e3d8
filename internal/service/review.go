package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tapspeak/backend/internal/domain/progress"
	"github.com/tapspeak/backend/internal/domain/review"
	"github.com/tapspeak/backend/internal/domain/word"
	"github.com/tapspeak/backend/internal/id"
	"github.com/tapspeak/backend/internal/store"
)

// Clock supplies "today" as a local calendar date. Injected so tests can
// pin the day.
type Clock func() progress.Date

// DomainEvent is a signal the caller renders or sonifies. The core never
// plays audio itself.
type DomainEvent string

const (
	EventPlayPromptSound DomainEvent = "play_prompt_sound" // begin-attempt cue
	EventSpeakWord       DomainEvent = "speak_word"        // answer audio for the card's word
	EventCorrect         DomainEvent = "correct"
	EventIncorrect       DomainEvent = "incorrect"
	EventPointGained     DomainEvent = "point"
)

// QueueItem is one due card as presented to the caller.
type QueueItem struct {
	CardID string              `json:"cardId"`
	Word   word.Record         `json:"word"`
	Stage  int                 `json:"stage"`
	Group  progress.StageGroup `json:"stageGroup"`
	State  string              `json:"state"`
}

// TriggerResult reports the card state after a trigger plus the events the
// caller must act on. Applied is false when the trigger was a no-op
// (double-tap, stale card, unknown word).
type TriggerResult struct {
	Applied bool          `json:"applied"`
	State   string        `json:"state,omitempty"`
	Events  []DomainEvent `json:"events,omitempty"`
}

// JudgeResult extends TriggerResult with the point outcome of a judgment.
type JudgeResult struct {
	TriggerResult
	Points       int `json:"points"`
	PointGranted bool `json:"pointGranted"`
}

type card struct {
	id    string
	state review.State
	timer *time.Timer
}

func (c *card) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// session is one user's ephemeral review pass: the card states for the due
// list most recently computed. generation guards against timers that fire
// after the list has been recomputed.
type session struct {
	generation uint64
	cards      map[string]*card // keyed by word ID
}

// Options tune the review pacing.
type Options struct {
	PromptDelay      time.Duration // pause before the listen step; default 1s
	PlaybackFallback time.Duration // bound on waiting for audio completion; default 15s
	Now              Clock         // default progress.Today
}

// ReviewService owns the per-card state machines of the review screen. It
// runs single-threaded from the caller's point of view: every trigger takes
// the service lock, and the only asynchronous work is the two bounded,
// generation-checked timers (prompt delay, playback fallback).
type ReviewService struct {
	store   store.Store
	catalog *word.Catalog
	logger  *slog.Logger

	now              Clock
	promptDelay      time.Duration
	playbackFallback time.Duration

	mu       sync.Mutex
	sessions map[string]*session // keyed by user ID
}

func NewReviewService(s store.Store, catalog *word.Catalog, logger *slog.Logger, opts Options) *ReviewService {
	if opts.PromptDelay <= 0 {
		opts.PromptDelay = time.Second
	}
	if opts.PlaybackFallback <= 0 {
		opts.PlaybackFallback = 15 * time.Second
	}
	if opts.Now == nil {
		opts.Now = progress.Today
	}
	return &ReviewService{
		store:            s,
		catalog:          catalog,
		logger:           logger,
		now:              opts.Now,
		promptDelay:      opts.PromptDelay,
		playbackFallback: opts.PlaybackFallback,
		sessions:         make(map[string]*session),
	}
}

// Queue recomputes the user's due list and resets every card to Prompt.
// Any timers armed for the previous list are orphaned by the generation
// bump and ignored when they fire.
func (rs *ReviewService) Queue(ctx context.Context, userID string, filters review.Filters) ([]QueueItem, error) {
	today := rs.now()
	prog, err := rs.store.AllProgress(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	due := review.DueWords(rs.catalog, prog, today, filters)

	rs.mu.Lock()
	defer rs.mu.Unlock()

	sess := rs.sessions[userID]
	if sess == nil {
		sess = &session{}
		rs.sessions[userID] = sess
	}
	for _, c := range sess.cards {
		c.stopTimer()
	}
	sess.generation++
	sess.cards = make(map[string]*card, len(due))

	items := make([]QueueItem, len(due))
	for i, w := range due {
		c := &card{id: id.GenerateID(), state: review.StatePrompt}
		sess.cards[w.ID()] = c
		p := prog[w.ID()]
		items[i] = QueueItem{
			CardID: c.id,
			Word:   w,
			Stage:  p.Stage,
			Group:  progress.StageGroupOf(p.Stage),
			State:  c.state.Public(),
		}
	}
	return items, nil
}

// EndSession drops the user's review pass, e.g. when the UI navigates
// away mid-card. No judgment is applied; pending timers die with the
// generation bump.
func (rs *ReviewService) EndSession(userID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if sess := rs.sessions[userID]; sess != nil {
		for _, c := range sess.cards {
			c.stopTimer()
		}
		sess.generation++
		sess.cards = nil
	}
}

// Speak handles the "try saying it" tap: plays the begin-attempt cue and
// arms the pacing delay. Re-entrant taps while the delay runs are no-ops.
func (rs *ReviewService) Speak(ctx context.Context, userID, wordID string) TriggerResult {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	sess, c := rs.lookup(userID, wordID)
	if c == nil {
		return TriggerResult{}
	}
	next, effects := review.Transition(c.state, review.EventSpeak)
	if next == c.state {
		return TriggerResult{State: c.state.Public()}
	}
	c.state = next

	result := TriggerResult{Applied: true, State: next.Public()}
	for _, effect := range effects {
		switch effect {
		case review.EffectPlayPromptSound:
			result.Events = append(result.Events, EventPlayPromptSound)
		case review.EffectStartPromptDelay:
			rs.armTimer(sess, c, userID, wordID, rs.promptDelay, review.EventPromptDelayElapsed)
		}
	}
	return result
}

// Reveal handles the "hear the answer" tap: tells the caller to play the
// word's audio and waits for the completion signal (bounded by the
// fallback timer) before judgment is allowed.
func (rs *ReviewService) Reveal(ctx context.Context, userID, wordID string) TriggerResult {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	_, c := rs.lookup(userID, wordID)
	if c == nil {
		return TriggerResult{}
	}
	sess := rs.sessions[userID]
	next, effects := review.Transition(c.state, review.EventReveal)
	if next == c.state {
		return TriggerResult{State: c.state.Public()}
	}
	c.state = next

	result := TriggerResult{Applied: true, State: next.Public()}
	for _, effect := range effects {
		switch effect {
		case review.EffectSpeakWord:
			result.Events = append(result.Events, EventSpeakWord)
		case review.EffectAwaitPlayback:
			rs.armTimer(sess, c, userID, wordID, rs.playbackFallback, review.EventAudioCompleted)
		}
	}
	return result
}

// AudioCompleted is the caller's signal that answer playback finished.
func (rs *ReviewService) AudioCompleted(ctx context.Context, userID, wordID string) TriggerResult {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.applyEvent(userID, wordID, review.EventAudioCompleted)
}

// Judge applies a ○/× judgment. It is the only trigger that mutates
// persistent state, and it does so with a single fresh read-modify-write
// under the service lock: nothing is carried across a suspension point.
func (rs *ReviewService) Judge(ctx context.Context, userID, wordID string, correct bool) (JudgeResult, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	event := review.EventJudgeIncorrect
	if correct {
		event = review.EventJudgeCorrect
	}

	sess, c := rs.lookup(userID, wordID)
	if c == nil {
		return JudgeResult{}, nil
	}
	next, effects := review.Transition(c.state, event)
	if next == c.state {
		// Not in Judge: double-tap or a race with async audio. No-op.
		return JudgeResult{TriggerResult: TriggerResult{State: c.state.Public()}}, nil
	}
	c.state = next
	c.stopTimer()

	today := rs.now()
	current, err := rs.store.GetProgress(ctx, userID, wordID, today)
	if errors.Is(err, store.ErrNotFound) {
		// Raced with an unenroll; the card is simply dropped.
		rs.logger.Info("judgment for unenrolled word dropped", "user", userID, "word", wordID)
		rs.invalidate(sess)
		return JudgeResult{}, nil
	}
	if err != nil {
		return JudgeResult{}, err
	}

	result := JudgeResult{TriggerResult: TriggerResult{Applied: true, State: next.Public()}}
	for _, effect := range effects {
		switch effect {
		case review.EffectApplyCorrect:
			if err := rs.store.SetProgress(ctx, userID, wordID, current.ApplyCorrect(today)); err != nil {
				return JudgeResult{}, err
			}
			counted, err := rs.store.RecordCorrectReview(ctx, userID)
			if err != nil {
				return JudgeResult{}, err
			}
			result.Points = counted.Points
			result.PointGranted = counted.PointGranted
			result.Events = append(result.Events, EventCorrect)
			if counted.PointGranted {
				result.Events = append(result.Events, EventPointGained)
			}
		case review.EffectApplyIncorrect:
			if err := rs.store.SetProgress(ctx, userID, wordID, current.ApplyIncorrect(today)); err != nil {
				return JudgeResult{}, err
			}
			points, err := rs.store.Points(ctx, userID)
			if err != nil {
				return JudgeResult{}, err
			}
			result.Points = points
			result.Events = append(result.Events, EventIncorrect)
		}
	}

	// The judged card is terminal; the caller re-queries the queue, which
	// rebuilds every card state.
	rs.invalidate(sess)
	return result, nil
}

// lookup finds the live card for (user, word). Callers hold the lock.
func (rs *ReviewService) lookup(userID, wordID string) (*session, *card) {
	sess := rs.sessions[userID]
	if sess == nil {
		return nil, nil
	}
	return sess, sess.cards[wordID]
}

// applyEvent runs one event against a card with no store side effects.
// Callers hold the lock.
func (rs *ReviewService) applyEvent(userID, wordID string, event review.Event) TriggerResult {
	_, c := rs.lookup(userID, wordID)
	if c == nil {
		return TriggerResult{}
	}
	next, _ := review.Transition(c.state, event)
	if next == c.state {
		return TriggerResult{State: c.state.Public()}
	}
	c.state = next
	c.stopTimer()
	return TriggerResult{Applied: true, State: next.Public()}
}

// armTimer schedules a deferred event for a card. The callback re-checks
// the session generation so a timer armed for an abandoned list can never
// touch a rebuilt card.
func (rs *ReviewService) armTimer(sess *session, c *card, userID, wordID string, d time.Duration, event review.Event) {
	generation := sess.generation
	c.stopTimer()
	c.timer = time.AfterFunc(d, func() {
		rs.mu.Lock()
		defer rs.mu.Unlock()

		current := rs.sessions[userID]
		if current == nil || current.generation != generation {
			return
		}
		rs.applyEvent(userID, wordID, event)
	})
}

// invalidate orphans every pending timer of the session. Callers hold the
// lock; card states are rebuilt on the next Queue call.
func (rs *ReviewService) invalidate(sess *session) {
	if sess == nil {
		return
	}
	for _, c := range sess.cards {
		c.stopTimer()
	}
	sess.generation++
}
