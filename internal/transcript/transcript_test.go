package transcript

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/chaz8081/groundcount/internal/itemcount"
)

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

// chanSource publishes snapshots pushed onto the channel.
type chanSource chan Snapshot

func (c chanSource) Snapshots() <-chan Snapshot { return c }

func TestWordsWithGaps(t *testing.T) {
	segs := WordsWithGaps([]string{"dog", "cat", "tree"}, []float64{0.5}, 0.3)
	if len(segs) != 3 {
		t.Fatalf("len = %d, want 3", len(segs))
	}
	wantStarts := []float64{0, 0.8, 1.1}
	for i, s := range segs {
		if math.Abs(s.Start-wantStarts[i]) > 1e-9 {
			t.Errorf("segs[%d].Start = %v, want %v", i, s.Start, wantStarts[i])
		}
		if s.Duration != 0.3 {
			t.Errorf("segs[%d].Duration = %v, want 0.3", i, s.Duration)
		}
	}
	if segs[2].Text != "tree" {
		t.Errorf("segs[2].Text = %q, want %q", segs[2].Text, "tree")
	}
}

func TestFeedEmitsInOrder(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	eng := itemcount.New(itemcount.DefaultParams(), itemcount.WithClock(clock))

	src := make(chanSource, 4)
	src <- Snapshot{Formatted: "dog"}
	src <- Snapshot{Formatted: "dog"} // same instant: suppressed
	src <- Snapshot{Formatted: "dog, cat"}
	src <- Snapshot{Formatted: "dog, cat, tree", Final: true}
	close(src)

	var got []Emission
	err := Feed(context.Background(), src, eng, func(e Emission) {
		got = append(got, e)
	})
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	want := []Emission{
		{Seq: 0, Count: 1},
		{Seq: 2, Count: 2},
		{Seq: 3, Count: 3, Final: true},
	}
	if len(got) != len(want) {
		t.Fatalf("emissions = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("emission %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFeedStopsOnCancel(t *testing.T) {
	eng := itemcount.New(itemcount.DefaultParams())
	src := make(chanSource)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Feed(ctx, src, eng, nil)
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Feed() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Feed() did not return after cancel")
	}
}

func TestFeedNilEmit(t *testing.T) {
	eng := itemcount.New(itemcount.DefaultParams())
	src := make(chanSource, 1)
	src <- Snapshot{Formatted: "dog, cat"}
	close(src)

	if err := Feed(context.Background(), src, eng, nil); err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if eng.StabilizedCount() != 2 {
		t.Errorf("StabilizedCount() = %d, want 2", eng.StabilizedCount())
	}
}
