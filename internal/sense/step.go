package sense

import "github.com/chaz8081/groundcount/internal/itemcount"

// InputMode selects how the user names items in a step.
type InputMode int

const (
	// Voice counts from speech, with tap-to-confirm as a fallback.
	Voice InputMode = iota
	// Manual counts separators in typed text on every edit.
	Manual
)

func (m InputMode) String() string {
	if m == Manual {
		return "manual"
	}
	return "voice"
}

// Step tracks progress through one sense step. Like the engine it owns, a
// Step is driven from a single goroutine.
type Step struct {
	sense  Type
	mode   InputMode
	engine *itemcount.Engine

	manualText string
	confirmed  int
	observed   int
}

// NewStep creates a step in voice mode. The engine is reset on every
// StartRecording.
func NewStep(t Type, engine *itemcount.Engine) *Step {
	return &Step{sense: t, engine: engine}
}

func (s *Step) Sense() Type { return s.sense }

func (s *Step) Mode() InputMode { return s.mode }

func (s *Step) SetMode(m InputMode) { s.mode = m }

// SetManualText replaces the typed text.
func (s *Step) SetManualText(text string) {
	s.manualText = text
}

// StartRecording begins a new voice attempt. Counts from the previous
// attempt are discarded; taps are kept.
func (s *Step) StartRecording() {
	if s.engine != nil {
		s.engine.Reset()
	}
	s.observed = 0
}

// ObserveSnapshot feeds one recognition result to the engine and records
// the count if it was emitted.
func (s *Step) ObserveSnapshot(formatted string, segments []itemcount.Segment) (int, bool) {
	if s.engine == nil {
		return 0, false
	}
	count, ok := s.engine.Process(formatted, segments)
	if ok {
		s.ObserveVoiceCount(count)
	}
	return count, ok
}

// ObserveVoiceCount records a count emitted by the engine.
func (s *Step) ObserveVoiceCount(n int) {
	s.observed = max(s.observed, n)
}

// ConfirmItem records a tap confirming one more item. It reports false
// once the step already has all its items.
func (s *Step) ConfirmItem() bool {
	if s.confirmed >= s.sense.Expected() {
		return false
	}
	s.confirmed++
	return true
}

// DetectedCount is the number of items shown to the user, capped at the
// number the step asks for.
func (s *Step) DetectedCount() int {
	var n int
	if s.mode == Manual {
		n = itemcount.CountSeparatedItems(s.manualText)
	} else {
		n = max(s.confirmed, s.observed)
	}
	return min(n, s.sense.Expected())
}

// Complete reports whether every expected item has been named.
func (s *Step) Complete() bool {
	return s.DetectedCount() >= s.sense.Expected()
}
