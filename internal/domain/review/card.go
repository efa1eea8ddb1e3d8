package review

// State tracks where a single review card is within its interaction
// sequence. The child-visible sequence is Prompt → Listen → Judge; the two
// extra states cover the windows where triggers must be ignored (the pacing
// delay after "speak", and answer audio playback).
type State int

const (
	StatePrompt      State = iota // initial: "try saying it" offered
	StatePromptDelay              // begin-attempt cue played, pacing delay running
	StateListen                   // "hear the answer" offered
	StateRevealing                // answer audio playing, judgment locked out
	StateJudge                    // ○/× offered
	StateJudged                   // terminal for this card instance
)

func (s State) String() string {
	switch s {
	case StatePrompt:
		return "prompt"
	case StatePromptDelay:
		return "prompt_delay"
	case StateListen:
		return "listen"
	case StateRevealing:
		return "revealing"
	case StateJudge:
		return "judge"
	case StateJudged:
		return "judged"
	default:
		return "unknown"
	}
}

// Public collapses the internal debounce states onto the three states the
// UI renders.
func (s State) Public() string {
	switch s {
	case StatePrompt, StatePromptDelay:
		return "prompt"
	case StateListen, StateRevealing:
		return "listen"
	default:
		return s.String()
	}
}

// Event is a trigger delivered to a card: a tap from the child, or one of
// the two asynchronous completions (pacing delay, audio playback).
type Event int

const (
	EventSpeak Event = iota
	EventPromptDelayElapsed
	EventReveal
	EventAudioCompleted
	EventJudgeCorrect
	EventJudgeIncorrect
)

func (e Event) String() string {
	switch e {
	case EventSpeak:
		return "speak"
	case EventPromptDelayElapsed:
		return "prompt_delay_elapsed"
	case EventReveal:
		return "reveal"
	case EventAudioCompleted:
		return "audio_completed"
	case EventJudgeCorrect:
		return "judge_correct"
	case EventJudgeIncorrect:
		return "judge_incorrect"
	default:
		return "unknown"
	}
}

// Effect is a side effect the caller (or the session controller) must carry
// out after a transition. The transition function itself stays pure.
type Effect int

const (
	EffectPlayPromptSound Effect = iota // play the begin-attempt cue
	EffectStartPromptDelay              // arm the pacing timer
	EffectSpeakWord                     // play the word's answer audio
	EffectAwaitPlayback                 // arm the bounded playback fallback timer
	EffectApplyCorrect                  // run the correct-judgment mutation
	EffectApplyIncorrect                // run the incorrect-judgment mutation
)

func (e Effect) String() string {
	switch e {
	case EffectPlayPromptSound:
		return "play_prompt_sound"
	case EffectStartPromptDelay:
		return "start_prompt_delay"
	case EffectSpeakWord:
		return "speak_word"
	case EffectAwaitPlayback:
		return "await_playback"
	case EffectApplyCorrect:
		return "apply_correct"
	case EffectApplyIncorrect:
		return "apply_incorrect"
	default:
		return "unknown"
	}
}

// Transition is the card state machine: given the current state and an
// event it returns the next state and the effects to run. Events that are
// not valid in the current state leave it unchanged with no effects — a
// double-tap or a stale timer is a no-op, never an error.
func Transition(s State, e Event) (State, []Effect) {
	switch s {
	case StatePrompt:
		if e == EventSpeak {
			return StatePromptDelay, []Effect{EffectPlayPromptSound, EffectStartPromptDelay}
		}
	case StatePromptDelay:
		if e == EventPromptDelayElapsed {
			return StateListen, nil
		}
	case StateListen:
		if e == EventReveal {
			return StateRevealing, []Effect{EffectSpeakWord, EffectAwaitPlayback}
		}
	case StateRevealing:
		if e == EventAudioCompleted {
			return StateJudge, nil
		}
	case StateJudge:
		switch e {
		case EventJudgeCorrect:
			return StateJudged, []Effect{EffectApplyCorrect}
		case EventJudgeIncorrect:
			return StateJudged, []Effect{EffectApplyIncorrect}
		}
	}
	return s, nil
}
