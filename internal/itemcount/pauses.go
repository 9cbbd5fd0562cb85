package itemcount

import (
	"strings"
	"time"
	"unicode"
)

// Segment is one recognized word with its timing, in seconds from the
// start of the utterance.
type Segment struct {
	Text     string  `json:"text" yaml:"text"`
	Start    float64 `json:"start" yaml:"start"`
	Duration float64 `json:"duration" yaml:"duration"`
}

// End returns the time the segment stops.
func (s Segment) End() float64 {
	return s.Start + s.Duration
}

// FillerSet holds normalized connector and filler words. A group of words
// made only of fillers is never counted as an item.
type FillerSet map[string]struct{}

// NewFillerSet normalizes words the same way tokens are normalized before lookup.
func NewFillerSet(words []string) FillerSet {
	set := make(FillerSet, len(words))
	for _, w := range words {
		if n := normalizeWord(w); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the normalized form of word is a filler.
func (f FillerSet) Contains(word string) bool {
	_, ok := f[normalizeWord(word)]
	return ok
}

// gapTolerance absorbs float error in start and duration sums, so a gap
// recorded as exactly the threshold still splits.
const gapTolerance = 1e-9

// CountFromPauses groups segments at silences of at least threshold and
// returns the number of groups containing a non-filler word.
func CountFromPauses(segments []Segment, threshold time.Duration, fillers FillerSet) int {
	if len(segments) == 0 {
		return 0
	}

	limit := threshold.Seconds() - gapTolerance
	count := 0
	hasContent := false

	for i, seg := range segments {
		if i > 0 {
			gap := seg.Start - segments[i-1].End()
			if gap >= limit {
				if hasContent {
					count++
				}
				hasContent = false
			}
		}

		word := normalizeWord(seg.Text)
		if word != "" && !fillers.Contains(word) {
			hasContent = true
		}
	}

	if hasContent {
		count++
	}
	return count
}

// normalizeWord lowercases w and strips surrounding whitespace and punctuation.
func normalizeWord(w string) string {
	w = strings.ToLower(strings.TrimSpace(w))
	return strings.TrimFunc(w, unicode.IsPunct)
}
