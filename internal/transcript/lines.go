package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// LineReader is a Source that decodes a stream of JSON snapshots, one per
// line, as written by a recognizer bridge process.
type LineReader struct {
	ch  chan Snapshot
	err error
}

// NewLineReader starts decoding r. Decoding stops at EOF, on the first
// malformed snapshot, or when ctx is done.
func NewLineReader(ctx context.Context, r io.Reader) *LineReader {
	l := &LineReader{ch: make(chan Snapshot)}
	go l.run(ctx, r)
	return l
}

// Snapshots implements Source.
func (l *LineReader) Snapshots() <-chan Snapshot {
	return l.ch
}

// Err returns the decode error, if any. It is only meaningful after the
// snapshot channel has been closed.
func (l *LineReader) Err() error {
	return l.err
}

func (l *LineReader) run(ctx context.Context, r io.Reader) {
	defer close(l.ch)

	dec := json.NewDecoder(r)
	for n := 1; ; n++ {
		var snap Snapshot
		if err := dec.Decode(&snap); err != nil {
			if !errors.Is(err, io.EOF) {
				l.err = fmt.Errorf("transcript: snapshot %d: %w", n, err)
			}
			return
		}
		select {
		case l.ch <- snap:
		case <-ctx.Done():
			return
		}
	}
}
