package cli

import (
	"github.com/spf13/cobra"

	"codrawer-gesture-bridge/internal/evdev"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List input devices and the ones picked by name",
	Args:  cobra.NoArgs,
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, _ []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	infos, err := evdev.ListDevices()
	if err != nil {
		return err
	}
	for _, d := range infos {
		cmd.Printf("name=%q handlers=%v\n", d.Name, d.Handlers)
	}

	sel := evdev.PickDevices(infos, cfg.TouchDevice, cfg.ButtonDevices)
	touch := sel.Touch
	if touch == "" {
		touch = "(none by name, run will probe)"
	}
	cmd.Printf("touch: %s\n", touch)
	cmd.Printf("buttons: %v\n", sel.Buttons)
	return nil
}
