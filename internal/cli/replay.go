package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"codrawer-gesture-bridge/internal/gesture"
	"codrawer-gesture-bridge/internal/input"
	"codrawer-gesture-bridge/internal/wsout"
)

var replayOpts struct {
	speed float64
	raw   bool
}

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Run a recorded trace through the recognizer",
	Long: `Replay reads JSON lines of raw events (as written by "record", "-" for
stdin) and feeds them to the recognizer, honouring the recorded timestamps so
holds fire as they would live. Gestures are printed as JSON lines.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().Float64Var(&replayOpts.speed, "speed", 1, "Playback speed factor (0 = as fast as possible, holds never fire)")
	replayCmd.Flags().BoolVar(&replayOpts.raw, "raw", false, "Also print the raw events")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	evs, err := readEvents(r)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	n, err := replay(cmd.Context(), evs, cmd.OutOrStdout(), cfg.Gesture(), log, replayOpts.speed, replayOpts.raw)
	log.Debug("replay finished", "events", len(evs), "gestures", n)
	return err
}

// readEvents parses JSON lines. Blank lines and lines starting with # are
// skipped.
func readEvents(r io.Reader) ([]input.Event, error) {
	var evs []input.Event
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var ev input.Event
		if err := json.Unmarshal([]byte(text), &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		evs = append(evs, ev)
	}
	return evs, sc.Err()
}

// replay feeds evs to a fresh recognizer and writes its output to w. It
// returns the number of gestures written.
func replay(ctx context.Context, evs []input.Event, w io.Writer, cfg gesture.Config, log *slog.Logger, speed float64, raw bool) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rec, err := gesture.New(cfg, gesture.WithLogger(log))
	if err != nil {
		return 0, err
	}
	in := make(chan input.Event)
	out, err := rec.Run(ctx, in)
	if err != nil {
		return 0, err
	}
	go feed(ctx, evs, in, speed)

	enc := json.NewEncoder(w)
	n := 0
	for ev := range out {
		var msg any
		switch {
		case ev.IsGesture():
			msg = wsout.NewGesture(ev.Gesture, time.Now())
			n++
		case raw:
			msg = wsout.NewDevice(*ev.Device, time.Now())
		default:
			continue
		}
		if err := enc.Encode(msg); err != nil {
			return n, fmt.Errorf("write: %w", err)
		}
	}
	return n, ctx.Err()
}

// feed sends evs to in, spaced by their timestamps divided by speed.
func feed(ctx context.Context, evs []input.Event, in chan<- input.Event, speed float64) {
	defer close(in)
	if len(evs) == 0 {
		return
	}
	start := time.Now()
	t0 := evs[0].Time
	for _, ev := range evs {
		if speed > 0 {
			due := start.Add(time.Duration((ev.Time - t0) / speed * float64(time.Second)))
			t := time.NewTimer(time.Until(due))
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
		select {
		case <-ctx.Done():
			return
		case in <- ev:
		}
	}
}
