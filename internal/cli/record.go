package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"codrawer-gesture-bridge/internal/evdev"
	"codrawer-gesture-bridge/internal/input"
)

var recordOpts struct {
	out      string
	duration time.Duration
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Decode the input devices to JSON lines of raw events",
	Long: `Record decodes the selected touch and key devices and writes one JSON
object per raw event. The output can be fed back with "replay".`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVarP(&recordOpts.out, "out", "o", "", "Write to this file instead of stdout")
	recordCmd.Flags().DurationVar(&recordOpts.duration, "duration", 0, "Stop after this long (0 = until interrupted)")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	sel, err := evdev.SelectDevices(cfg.TouchDevice, cfg.ButtonDevices, cfg.ProbeDuration(), log)
	if err != nil {
		return err
	}
	devs, err := evdev.OpenSelection(sel, evdev.Options{Screen: cfg.Screen(), Grab: cfg.Grab, DumpEvents: cfg.DumpEvents, Logger: log})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if recordOpts.out != "" {
		f, err := os.Create(recordOpts.out)
		if err != nil {
			return fmt.Errorf("create %s: %w", recordOpts.out, err)
		}
		defer f.Close()
		w = f
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if recordOpts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, recordOpts.duration)
		defer cancel()
	}

	events := make(chan input.Event, 256)
	devErr := make(chan error, 1)
	go func() { devErr <- evdev.RunAll(ctx, devs, events) }()

	n, werr := writeEvents(w, events)
	stop()
	for range events {
	}
	err = <-devErr
	log.Info("recording finished", "events", n)
	if werr != nil {
		return werr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// writeEvents encodes events as JSON lines until the channel closes or a
// write fails.
func writeEvents(w io.Writer, events <-chan input.Event) (int, error) {
	enc := json.NewEncoder(w)
	n := 0
	for ev := range events {
		if err := enc.Encode(ev); err != nil {
			return n, fmt.Errorf("write event: %w", err)
		}
		n++
	}
	return n, nil
}
