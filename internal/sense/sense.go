// Package sense models the steps of the 5-4-3-2-1 grounding exercise:
// name five things you see, four you can touch, three you hear, two you
// smell and one you taste.
package sense

import (
	"fmt"
	"strings"
)

// Type is a sense step. Its value is the number of items the step asks for.
type Type int

const (
	Taste Type = iota + 1
	Smell
	Hear
	Touch
	See
)

var names = map[Type]string{
	See:   "see",
	Touch: "touch",
	Hear:  "hear",
	Smell: "smell",
	Taste: "taste",
}

// Ordered returns the steps in the order the exercise walks through them.
func Ordered() []Type {
	return []Type{See, Touch, Hear, Smell, Taste}
}

// ParseType parses a step name such as "see". "feel" is accepted for Touch.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "see":
		return See, nil
	case "touch", "feel":
		return Touch, nil
	case "hear":
		return Hear, nil
	case "smell":
		return Smell, nil
	case "taste":
		return Taste, nil
	}
	return 0, fmt.Errorf("sense: unknown type %q (supported: see, touch, hear, smell, taste)", s)
}

// Valid reports whether t is one of the five steps.
func (t Type) Valid() bool {
	_, ok := names[t]
	return ok
}

func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Expected is the number of items the step asks for.
func (t Type) Expected() int {
	if !t.Valid() {
		return 0
	}
	return int(t)
}

// StepIndex is the zero-based position of t in Ordered.
func (t Type) StepIndex() int {
	if !t.Valid() {
		return -1
	}
	return int(See - t)
}

func (t Type) DisplayName() string {
	switch t {
	case See:
		return "See"
	case Touch:
		return "Touch / Feel"
	case Hear:
		return "Hear"
	case Smell:
		return "Smell"
	case Taste:
		return "Taste"
	}
	return t.String()
}

// Prompt is the spoken guidance played when the step starts.
func (t Type) Prompt() string {
	switch t {
	case See:
		return "Take a moment. Look around you. Name 5 things you can see."
	case Touch:
		return "Now focus on touch. Name 4 things you can feel right now."
	case Hear:
		return "Listen carefully. Name 3 things you can hear."
	case Smell:
		return "Breathe in gently. Name 2 things you can smell."
	case Taste:
		return "Finally, notice 1 thing you can taste."
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("sense: invalid type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
