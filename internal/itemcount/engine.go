package itemcount

import "time"

// DefaultFillerWords are connectors and prompt verbs the exercise tends to
// elicit ("I can see a dog").
var DefaultFillerWords = []string{
	"and", "the", "a", "an", "um", "uh", "like", "so", "then", "also",
	"i", "can", "see", "hear", "smell", "taste", "feel", "touch",
}

const (
	// DefaultPauseThreshold is tuned for short items spoken with natural
	// pauses between them rather than flowing sentences.
	DefaultPauseThreshold = 350 * time.Millisecond
	// DefaultDebounceInterval bounds how often an unchanged count is re-emitted.
	DefaultDebounceInterval = 300 * time.Millisecond
)

// Params configures an Engine.
type Params struct {
	PauseThreshold   time.Duration
	DebounceInterval time.Duration
	FillerWords      []string
}

// DefaultParams returns the reference configuration.
func DefaultParams() Params {
	return Params{
		PauseThreshold:   DefaultPauseThreshold,
		DebounceInterval: DefaultDebounceInterval,
		FillerWords:      append([]string(nil), DefaultFillerWords...),
	}
}

// Clock reports the current time. time.Now carries a monotonic reading, so
// intervals measured with Sub are immune to wall-clock adjustments.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces the system clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// Breakdown shows how a snapshot would be scored, without touching session state.
type Breakdown struct {
	TextCount  int `json:"textCount"`
	PauseCount int `json:"pauseCount"`
	RawCount   int `json:"rawCount"`
}

// Engine stabilizes item counts for one recording attempt.
//
// Emitted counts never decrease, increases are emitted immediately, and an
// unchanged count is suppressed while within the debounce interval of the
// previous emission. An Engine is not safe for concurrent use; callers must
// feed snapshots from a single goroutine in arrival order.
type Engine struct {
	threshold time.Duration
	debounce  time.Duration
	fillers   FillerSet
	clock     Clock

	stabilized int
	lastEmit   time.Time // zero when cleared
}

// New creates an Engine in its idle state.
func New(p Params, opts ...Option) *Engine {
	e := &Engine{
		threshold: p.PauseThreshold,
		debounce:  p.DebounceInterval,
		fillers:   NewFillerSet(p.FillerWords),
		clock:     systemClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StabilizedCount returns the highest count emitted since the last Reset.
func (e *Engine) StabilizedCount() int {
	return e.stabilized
}

// CountFromPauses applies pause detection with the engine's threshold and fillers.
func (e *Engine) CountFromPauses(segments []Segment) int {
	return CountFromPauses(segments, e.threshold, e.fillers)
}

// Inspect scores a snapshot with both signals.
func (e *Engine) Inspect(formatted string, segments []Segment) Breakdown {
	b := Breakdown{
		TextCount:  CountSeparatedItems(formatted),
		PauseCount: e.CountFromPauses(segments),
	}
	// Max, not sum: a comma and a pause usually mark the same boundary.
	b.RawCount = max(b.TextCount, b.PauseCount)
	return b
}

// Process scores a transcription snapshot and returns the count to display.
// ok is false when the emission is suppressed; the caller should not update.
func (e *Engine) Process(formatted string, segments []Segment) (count int, ok bool) {
	candidate := max(e.Inspect(formatted, segments).RawCount, e.stabilized)

	now := e.clock.Now()
	if candidate == e.stabilized && !e.lastEmit.IsZero() && now.Sub(e.lastEmit) < e.debounce {
		return 0, false
	}

	e.stabilized = candidate
	e.lastEmit = now
	return candidate, true
}

// Reset returns the engine to its idle state for a new recording attempt.
func (e *Engine) Reset() {
	e.stabilized = 0
	e.lastEmit = time.Time{}
}
