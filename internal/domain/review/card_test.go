package review_test

import (
	"testing"

	"github.com/tapspeak/backend/internal/domain/review"
)

func TestHappyPathTransitions(t *testing.T) {
	s := review.StatePrompt

	s, effects := review.Transition(s, review.EventSpeak)
	if s != review.StatePromptDelay {
		t.Fatalf("expected prompt_delay, got %s", s)
	}
	if len(effects) != 2 || effects[0] != review.EffectPlayPromptSound || effects[1] != review.EffectStartPromptDelay {
		t.Fatalf("unexpected speak effects: %v", effects)
	}

	s, effects = review.Transition(s, review.EventPromptDelayElapsed)
	if s != review.StateListen || len(effects) != 0 {
		t.Fatalf("expected listen with no effects, got %s %v", s, effects)
	}

	s, effects = review.Transition(s, review.EventReveal)
	if s != review.StateRevealing {
		t.Fatalf("expected revealing, got %s", s)
	}
	if len(effects) != 2 || effects[0] != review.EffectSpeakWord {
		t.Fatalf("unexpected reveal effects: %v", effects)
	}

	s, _ = review.Transition(s, review.EventAudioCompleted)
	if s != review.StateJudge {
		t.Fatalf("expected judge, got %s", s)
	}

	s, effects = review.Transition(s, review.EventJudgeCorrect)
	if s != review.StateJudged {
		t.Fatalf("expected judged, got %s", s)
	}
	if len(effects) != 1 || effects[0] != review.EffectApplyCorrect {
		t.Fatalf("unexpected judge effects: %v", effects)
	}
}

func TestIncorrectJudgment(t *testing.T) {
	s, effects := review.Transition(review.StateJudge, review.EventJudgeIncorrect)
	if s != review.StateJudged {
		t.Fatalf("expected judged, got %s", s)
	}
	if len(effects) != 1 || effects[0] != review.EffectApplyIncorrect {
		t.Fatalf("unexpected effects: %v", effects)
	}
}

func TestOutOfStateEventsAreNoOps(t *testing.T) {
	cases := []struct {
		state review.State
		event review.Event
	}{
		{review.StatePrompt, review.EventJudgeCorrect},   // judging before listening
		{review.StatePrompt, review.EventReveal},         // reveal before speak
		{review.StatePromptDelay, review.EventSpeak},     // re-entrant speak during the delay
		{review.StateListen, review.EventSpeak},          // speak after the delay elapsed
		{review.StateRevealing, review.EventReveal},      // re-entrant reveal during playback
		{review.StateRevealing, review.EventJudgeCorrect}, // judging before playback completes
		{review.StateJudged, review.EventJudgeCorrect},   // double judgment
		{review.StateJudged, review.EventJudgeIncorrect},
		{review.StateJudge, review.EventAudioCompleted}, // stale playback signal
	}
	for _, c := range cases {
		next, effects := review.Transition(c.state, c.event)
		if next != c.state {
			t.Errorf("%s + %s: expected state unchanged, got %s", c.state, c.event, next)
		}
		if len(effects) != 0 {
			t.Errorf("%s + %s: expected no effects, got %v", c.state, c.event, effects)
		}
	}
}

func TestPublicStateCollapsesDebounceStates(t *testing.T) {
	want := map[review.State]string{
		review.StatePrompt:      "prompt",
		review.StatePromptDelay: "prompt",
		review.StateListen:      "listen",
		review.StateRevealing:   "listen",
		review.StateJudge:       "judge",
		review.StateJudged:      "judged",
	}
	for state, public := range want {
		if got := state.Public(); got != public {
			t.Errorf("%s: expected public %q, got %q", state, public, got)
		}
	}
}
