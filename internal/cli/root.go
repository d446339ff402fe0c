// Package cli implements the gesture-bridge command line.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"codrawer-gesture-bridge/internal/config"
	"codrawer-gesture-bridge/internal/logging"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var bridgeFlags flagValues

var rootCmd = &cobra.Command{
	Use:   "gesture-bridge",
	Short: "Recognize touch and button gestures and stream them to the desktop",
	Long: `gesture-bridge reads the touch panel and hardware keys of an e-ink tablet,
recognizes taps, swipes, pinches, holds and friends, and streams both the raw
events and the gestures to the desktop server over WebSocket.

Settings come from defaults, then gesture-bridge.toml (or --config), then the
environment (DESKTOP_WS, TOUCH_DEVICE, ...), then flags.`,
	SilenceUsage: true,
	RunE:         runBridge,
}

func init() {
	bindFlags(rootCmd.PersistentFlags(), &bridgeFlags)
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup resolves the configuration and builds the logger for cmd.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := bridgeFlags.resolve(cmd.Flags())
	if err != nil {
		return cfg, nil, err
	}
	log, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	return logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: w})
}
