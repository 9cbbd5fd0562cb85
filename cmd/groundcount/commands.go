package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chaz8081/groundcount/internal/config"
	"github.com/chaz8081/groundcount/internal/itemcount"
	"github.com/chaz8081/groundcount/internal/sense"
	"github.com/chaz8081/groundcount/internal/server"
	"github.com/chaz8081/groundcount/internal/transcript"
)

// CountCmd counts typed text the way manual input mode does.
type CountCmd struct {
	Text  []string  `arg:"" optional:"" help:"Text to count; read from stdin when omitted"`
	Gaps  []float64 `help:"Silence in seconds after each word, to also score the text as speech"`
	Sense string    `help:"Cap the count at a step's expected items (see, touch, hear, smell, taste)"`
}

func (c *CountCmd) Run(g *Globals) error {
	cfg, err := g.setup()
	if err != nil {
		return err
	}

	text := strings.Join(c.Text, " ")
	if len(c.Text) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	count := itemcount.CountSeparatedItems(text)
	if len(c.Gaps) > 0 {
		eng := itemcount.New(cfg.Counting.Params())
		segs := transcript.WordsWithGaps(strings.Fields(text), c.Gaps, 0.3)
		b := eng.Inspect(text, segs)
		fmt.Printf("text: %d  pauses: %d\n", b.TextCount, b.PauseCount)
		count = b.RawCount
	}

	if c.Sense != "" {
		t, err := sense.ParseType(c.Sense)
		if err != nil {
			return err
		}
		step := sense.NewStep(t, nil)
		if len(c.Gaps) > 0 {
			step.ObserveVoiceCount(count)
		} else {
			step.SetMode(sense.Manual)
			step.SetManualText(text)
		}
		fmt.Printf("%d/%d\n", step.DetectedCount(), t.Expected())
		return nil
	}
	fmt.Println(count)
	return nil
}

// ReplayCmd runs a fixture through a counting session.
type ReplayCmd struct {
	Fixture string `arg:"" type:"existingfile" help:"YAML fixture of timed snapshots"`
	Verbose bool   `short:"v" help:"Show the text and pause counts for every snapshot"`
}

func (r *ReplayCmd) Run(g *Globals) error {
	cfg, err := g.setup()
	if err != nil {
		return err
	}

	f, err := transcript.LoadFixture(r.Fixture)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d items expected)\n", f.Sense.DisplayName(), f.Sense.Expected())
	steps := transcript.Replay(f, cfg.Counting.Params())
	for i, st := range steps {
		mark := "  "
		if st.Emitted {
			mark = "->"
		}
		line := fmt.Sprintf("%8s %s %d", st.At, mark, st.Count)
		if r.Verbose {
			line += fmt.Sprintf("  (text %d, pauses %d)  %q", st.Breakdown.TextCount, st.Breakdown.PauseCount, f.Snapshots[i].Text)
		}
		fmt.Println(line)
	}

	if len(steps) > 0 {
		final := steps[len(steps)-1].Count
		fmt.Printf("final: %d/%d\n", min(final, f.Sense.Expected()), f.Sense.Expected())
	}
	return nil
}

// StreamCmd runs one counting session over snapshots piped in as JSON lines.
type StreamCmd struct{}

func (StreamCmd) Run(g *Globals) error {
	cfg, err := g.setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src := transcript.NewLineReader(ctx, os.Stdin)
	eng := itemcount.New(cfg.Counting.Params())
	err = transcript.Feed(ctx, src, eng, func(e transcript.Emission) {
		if e.Final {
			fmt.Printf("%d (final)\n", e.Count)
			return
		}
		fmt.Println(e.Count)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	return src.Err()
}

// ServeCmd runs the WebSocket counting service.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides server.addr)"`
}

func (s *ServeCmd) Run(g *Globals) error {
	cfg, err := g.setup()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}

	printBanner(cfg)

	var opts []server.Option
	if cfg.Server.Metrics {
		opts = append(opts, server.WithMetrics(server.NewMetrics()))
	}
	srv := server.New(cfg.Server.Addr, cfg.Counting.Params(), opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}

// SensesCmd lists the exercise steps.
type SensesCmd struct{}

func (SensesCmd) Run(g *Globals) error {
	for _, t := range sense.Ordered() {
		fmt.Printf("%d. %-12s %d  %s\n", t.StepIndex()+1, t.DisplayName(), t.Expected(), t.Prompt())
	}
	return nil
}

// InitConfigCmd writes the default config file.
type InitConfigCmd struct{}

func (InitConfigCmd) Run(g *Globals) error {
	path, err := config.WriteDefault()
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println("Config already exists at", config.DefaultConfigPath())
		return nil
	}
	fmt.Println("Wrote", path)
	return nil
}

// printBanner displays the startup configuration summary.
func printBanner(cfg *config.Config) {
	fmt.Println("=== groundcount ===")
	fmt.Printf("  Listen:   %s\n", cfg.Server.Addr)
	fmt.Printf("  Pause:    %s\n", cfg.Counting.PauseThreshold)
	fmt.Printf("  Debounce: %s\n", cfg.Counting.DebounceInterval)
	fmt.Printf("  Fillers:  %d words\n", len(cfg.Counting.FillerWords))
	fmt.Printf("  Metrics:  %v\n", cfg.Server.Metrics)
	fmt.Printf("  Log:      %s\n", cfg.LogLevel)
	fmt.Println("===================")
}
