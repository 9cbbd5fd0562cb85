package sense

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chaz8081/groundcount/internal/itemcount"
)

func TestOrdered(t *testing.T) {
	got := Ordered()
	want := []Type{See, Touch, Hear, Smell, Taste}
	if len(got) != len(want) {
		t.Fatalf("Ordered() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Ordered()[%d] = %v, want %v", i, got[i], want[i])
		}
		if got[i].StepIndex() != i {
			t.Errorf("%v.StepIndex() = %d, want %d", got[i], got[i].StepIndex(), i)
		}
	}
}

func TestExpected(t *testing.T) {
	tests := []struct {
		sense Type
		want  int
	}{
		{See, 5},
		{Touch, 4},
		{Hear, 3},
		{Smell, 2},
		{Taste, 1},
		{Type(0), 0},
		{Type(9), 0},
	}
	for _, tt := range tests {
		if got := tt.sense.Expected(); got != tt.want {
			t.Errorf("%v.Expected() = %d, want %d", tt.sense, got, tt.want)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    Type
		wantErr bool
	}{
		{"see", See, false},
		{"SEE", See, false},
		{" touch ", Touch, false},
		{"feel", Touch, false},
		{"hear", Hear, false},
		{"smell", Smell, false},
		{"taste", Taste, false},
		{"look", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPromptsAndNames(t *testing.T) {
	for _, s := range Ordered() {
		if s.Prompt() == "" {
			t.Errorf("%v.Prompt() is empty", s)
		}
		if s.DisplayName() == "" {
			t.Errorf("%v.DisplayName() is empty", s)
		}
	}
	if Touch.DisplayName() != "Touch / Feel" {
		t.Errorf("Touch.DisplayName() = %q, want %q", Touch.DisplayName(), "Touch / Feel")
	}
	if Type(7).String() != "Type(7)" {
		t.Errorf("Type(7).String() = %q", Type(7).String())
	}
}

func TestTypeYAML(t *testing.T) {
	var doc struct {
		Sense Type `yaml:"sense"`
	}
	if err := yaml.Unmarshal([]byte("sense: hear\n"), &doc); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if doc.Sense != Hear {
		t.Errorf("Sense = %v, want %v", doc.Sense, Hear)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(out) != "sense: hear\n" {
		t.Errorf("Marshal = %q, want %q", out, "sense: hear\n")
	}

	if err := yaml.Unmarshal([]byte("sense: look\n"), &doc); err == nil {
		t.Error("Unmarshal should fail for unknown sense")
	}
}

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func newStepEngine() (*itemcount.Engine, *stepClock) {
	clock := &stepClock{now: time.Unix(1000, 0)}
	return itemcount.New(itemcount.DefaultParams(), itemcount.WithClock(clock)), clock
}

func TestStepManualMode(t *testing.T) {
	s := NewStep(Hear, nil)
	s.SetMode(Manual)

	s.SetManualText("birds, traffic")
	if got := s.DetectedCount(); got != 2 {
		t.Errorf("DetectedCount() = %d, want 2", got)
	}
	if s.Complete() {
		t.Error("Complete() = true with 2 of 3 items")
	}

	s.SetManualText("birds, traffic, wind, a fan, music")
	if got := s.DetectedCount(); got != 3 {
		t.Errorf("DetectedCount() = %d, want 3 (capped)", got)
	}
	if !s.Complete() {
		t.Error("Complete() = false with all items named")
	}
}

func TestStepConfirmItem(t *testing.T) {
	s := NewStep(Smell, nil)

	if !s.ConfirmItem() || !s.ConfirmItem() {
		t.Fatal("ConfirmItem() should accept the first two taps")
	}
	if s.ConfirmItem() {
		t.Error("ConfirmItem() accepted a tap past the expected count")
	}
	if got := s.DetectedCount(); got != 2 {
		t.Errorf("DetectedCount() = %d, want 2", got)
	}
}

func TestStepVoiceUsesEngine(t *testing.T) {
	eng, clock := newStepEngine()
	s := NewStep(See, eng)
	s.StartRecording()

	segs := []itemcount.Segment{
		{Text: "bird", Start: 0, Duration: 0.3},
		{Text: "air", Start: 0.8, Duration: 0.3},
		{Text: "water", Start: 1.6, Duration: 0.3},
	}
	if got, ok := s.ObserveSnapshot("Bird air water", segs); !ok || got != 3 {
		t.Fatalf("ObserveSnapshot() = (%d, %v), want (3, true)", got, ok)
	}
	if got := s.DetectedCount(); got != 3 {
		t.Errorf("DetectedCount() = %d, want 3", got)
	}

	// A tap on top of voice counts never lowers the total.
	s.ConfirmItem()
	if got := s.DetectedCount(); got != 3 {
		t.Errorf("DetectedCount() after one tap = %d, want 3", got)
	}

	clock.now = clock.now.Add(time.Second)
	s.StartRecording()
	if eng.StabilizedCount() != 0 {
		t.Errorf("engine count after StartRecording = %d, want 0", eng.StabilizedCount())
	}
	if got := s.DetectedCount(); got != 1 {
		t.Errorf("DetectedCount() after new attempt = %d, want 1 (the tap)", got)
	}
}

func TestStepWithoutEngine(t *testing.T) {
	s := NewStep(Taste, nil)
	s.StartRecording()
	if _, ok := s.ObserveSnapshot("salt", nil); ok {
		t.Error("ObserveSnapshot() without engine should not emit")
	}
}

func TestInputModeString(t *testing.T) {
	if Voice.String() != "voice" || Manual.String() != "manual" {
		t.Errorf("InputMode strings = %q, %q", Voice.String(), Manual.String())
	}
}
