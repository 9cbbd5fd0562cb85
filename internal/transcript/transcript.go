// Package transcript delivers speech recognition snapshots to an item
// counting engine, strictly in arrival order and to a single consumer.
package transcript

import (
	"context"

	"github.com/chaz8081/groundcount/internal/itemcount"
)

// Snapshot is one partial or final recognition result. Each snapshot
// replaces the previous one; segments are never accumulated across snapshots.
type Snapshot struct {
	Formatted string              `json:"text" yaml:"text"`
	Segments  []itemcount.Segment `json:"segments,omitempty" yaml:"segments,omitempty"`
	Final     bool                `json:"final,omitempty" yaml:"final,omitempty"`
}

// Source is a recognizer that publishes snapshots to one registered consumer.
type Source interface {
	// Snapshots returns the channel of results. It is closed when the
	// recognition task ends.
	Snapshots() <-chan Snapshot
}

// Emission is a count the UI should render.
type Emission struct {
	Seq   int  // index of the snapshot that produced the count
	Count int  // stabilized item count
	Final bool // produced by a final result
}

// Feed drives eng with snapshots from src until src is closed or ctx is
// done. emit is called only for counts the engine did not suppress.
// Feed must be the only goroutine touching eng while it runs.
func Feed(ctx context.Context, src Source, eng *itemcount.Engine, emit func(Emission)) error {
	snaps := src.Snapshots()
	seq := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-snaps:
			if !ok {
				return nil
			}
			if count, ok := eng.Process(snap.Formatted, snap.Segments); ok && emit != nil {
				emit(Emission{Seq: seq, Count: count, Final: snap.Final})
			}
			seq++
		}
	}
}

// WordsWithGaps builds back-to-back segments, inserting gaps[i] seconds of
// silence after word i. Missing gaps are treated as zero.
func WordsWithGaps(words []string, gaps []float64, wordDuration float64) []itemcount.Segment {
	segs := make([]itemcount.Segment, 0, len(words))
	at := 0.0
	for i, w := range words {
		segs = append(segs, itemcount.Segment{Text: w, Start: at, Duration: wordDuration})
		at += wordDuration
		if i < len(gaps) {
			at += gaps[i]
		}
	}
	return segs
}
