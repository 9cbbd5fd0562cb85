package transcript

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chaz8081/groundcount/internal/itemcount"
	"github.com/chaz8081/groundcount/internal/sense"
)

// defaultWordDuration is used for snapshots written as words and gaps.
const defaultWordDuration = 0.3

// Fixture is a recorded sequence of recognizer snapshots that can be
// replayed through an engine with deterministic timing.
type Fixture struct {
	Sense     sense.Type      `yaml:"sense"`
	Snapshots []TimedSnapshot `yaml:"snapshots"`
}

// TimedSnapshot is a snapshot with its arrival time relative to the start
// of recording. Segments may be given explicitly or as words and gaps.
type TimedSnapshot struct {
	At           time.Duration       `yaml:"at"`
	Text         string              `yaml:"text"`
	Segments     []itemcount.Segment `yaml:"segments,omitempty"`
	Words        []string            `yaml:"words,omitempty"`
	Gaps         []float64           `yaml:"gaps,omitempty"`
	WordDuration float64             `yaml:"word_duration,omitempty"`
	Final        bool                `yaml:"final,omitempty"`
}

// Snapshot resolves ts into the form the engine consumes.
func (ts TimedSnapshot) Snapshot() Snapshot {
	segs := ts.Segments
	if len(segs) == 0 && len(ts.Words) > 0 {
		d := ts.WordDuration
		if d <= 0 {
			d = defaultWordDuration
		}
		segs = WordsWithGaps(ts.Words, ts.Gaps, d)
	}
	return Snapshot{Formatted: ts.Text, Segments: segs, Final: ts.Final}
}

// LoadFixture reads and validates a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}

	f := &Fixture{Sense: sense.See}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return f, nil
}

// Validate checks that snapshots arrive in time order and that each
// snapshot's segments are ordered by start time.
func (f *Fixture) Validate() error {
	if len(f.Snapshots) == 0 {
		return fmt.Errorf("snapshots must not be empty")
	}
	var prev time.Duration
	for i, ts := range f.Snapshots {
		if ts.At < 0 {
			return fmt.Errorf("snapshot %d: at must be >= 0, got %s", i, ts.At)
		}
		if ts.At < prev {
			return fmt.Errorf("snapshot %d: at %s is before previous snapshot at %s", i, ts.At, prev)
		}
		prev = ts.At

		if len(ts.Segments) > 0 && len(ts.Words) > 0 {
			return fmt.Errorf("snapshot %d: set either segments or words, not both", i)
		}
		for j := 1; j < len(ts.Segments); j++ {
			if ts.Segments[j].Start < ts.Segments[j-1].Start {
				return fmt.Errorf("snapshot %d: segment %d starts before segment %d", i, j, j-1)
			}
		}
	}
	return nil
}

// ReplayStep records what the engine did with one fixture snapshot.
type ReplayStep struct {
	At        time.Duration
	Breakdown itemcount.Breakdown
	Count     int
	Emitted   bool
}

// fixtureClock reports the fixture's start time plus the current snapshot offset.
type fixtureClock struct {
	base time.Time
	at   time.Duration
}

func (c *fixtureClock) Now() time.Time { return c.base.Add(c.at) }

// Replay runs every snapshot of f through a fresh engine built from p, with
// the engine clock pinned to each snapshot's arrival time.
func Replay(f *Fixture, p itemcount.Params) []ReplayStep {
	clock := &fixtureClock{base: time.Unix(0, 0)}
	eng := itemcount.New(p, itemcount.WithClock(clock))

	steps := make([]ReplayStep, 0, len(f.Snapshots))
	for _, ts := range f.Snapshots {
		clock.at = ts.At
		snap := ts.Snapshot()
		b := eng.Inspect(snap.Formatted, snap.Segments)
		count, ok := eng.Process(snap.Formatted, snap.Segments)
		if !ok {
			count = eng.StabilizedCount()
		}
		steps = append(steps, ReplayStep{At: ts.At, Breakdown: b, Count: count, Emitted: ok})
	}
	return steps
}
