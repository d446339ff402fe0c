package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codrawer-gesture-bridge/internal/bridge"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Stream gestures to the desktop (default)",
	Args:  cobra.NoArgs,
	RunE:  runBridge,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runBridge(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bridge.New(cfg, log)
	err = b.Run(ctx)
	log.Info("bridge stopped", "gestures_sent", b.GesturesSent())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
