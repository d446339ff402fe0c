// Command gesture-bridge runs on the tablet: it reads the touch panel and
// hardware keys, recognizes gestures and streams them to the desktop.
package main

import (
	"context"
	"os"

	"codrawer-gesture-bridge/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
