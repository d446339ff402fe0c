package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"codrawer-gesture-bridge/internal/config"
)

// flagValues holds raw flag values. Only flags set on the command line
// override the file and environment.
type flagValues struct {
	configPath string
	buttons    string
	cfg        config.Config
}

func bindFlags(fs *pflag.FlagSet, v *flagValues) {
	d := config.Default()
	v.cfg = d

	fs.StringVar(&v.configPath, "config", "", "TOML config file (default ./"+config.DefaultPath+" if present)")
	fs.StringVar(&v.cfg.WsURL, "ws", d.WsURL, "WebSocket URL of the desktop server")
	fs.StringVar(&v.cfg.TouchDevice, "touch", "", "Touch device path (e.g. /dev/input/event2). If empty, auto-detect.")
	fs.StringVar(&v.buttons, "buttons", "", "Comma separated key device paths. If empty, auto-detect.")
	fs.BoolVar(&v.cfg.Grab, "grab", d.Grab, "EVIOCGRAB the input devices so the stock UI ignores them")
	fs.Float64Var(&v.cfg.ProbeSeconds, "probe-seconds", d.ProbeSeconds, "Seconds to probe each /dev/input/event* when auto-detecting (touch the screen during this!)")
	fs.IntVar(&v.cfg.ScreenWidth, "screen-width", d.ScreenWidth, "Screen width in pixels")
	fs.IntVar(&v.cfg.ScreenHeight, "screen-height", d.ScreenHeight, "Screen height in pixels")
	fs.BoolVar(&v.cfg.SwapXY, "swap-xy", d.SwapXY, "Swap the touch panel axes")
	fs.BoolVar(&v.cfg.MirrorX, "mirror-x", d.MirrorX, "Mirror the touch panel horizontally")
	fs.BoolVar(&v.cfg.MirrorY, "mirror-y", d.MirrorY, "Mirror the touch panel vertically")
	fs.Float64Var(&v.cfg.DPI, "dpi", d.DPI, "Screen density, used to convert the jitter tolerance to pixels")
	fs.Float64Var(&v.cfg.JitterMM, "jitter-mm", d.JitterMM, "Finger travel in millimetres treated as noise")
	fs.IntVar(&v.cfg.HoldShortMS, "hold-short-ms", d.HoldShortMS, "Delay before a short hold")
	fs.IntVar(&v.cfg.HoldLongMS, "hold-long-ms", d.HoldLongMS, "Delay before a long hold")
	fs.BoolVar(&v.cfg.ForwardRaw, "forward-raw", d.ForwardRaw, "Also stream raw input events")
	fs.Float64Var(&v.cfg.MotionHz, "motion-hz", d.MotionHz, "Max raw motion messages per second per finger (0 = unlimited)")
	fs.Float64Var(&v.cfg.PingSeconds, "ping-seconds", d.PingSeconds, "WebSocket ping interval (seconds)")
	fs.Float64Var(&v.cfg.PongTimeoutSeconds, "pong-timeout-seconds", d.PongTimeoutSeconds, "Reconnect if no pong is received in this window")
	fs.StringVar(&v.cfg.LogLevel, "log-level", d.LogLevel, "debug|info|warn|error")
	fs.StringVar(&v.cfg.LogFormat, "log-format", d.LogFormat, "text|json")
	fs.BoolVar(&v.cfg.DumpEvents, "dump-events", d.DumpEvents, "Log raw input events at debug level. Noisy.")
}

// resolve loads file and environment settings and applies the flags that
// were set explicitly.
func (v *flagValues) resolve(fs *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(v.configPath)
	if err != nil {
		return cfg, err
	}

	overrides := map[string]func(){
		"ws":                   func() { cfg.WsURL = v.cfg.WsURL },
		"touch":                func() { cfg.TouchDevice = v.cfg.TouchDevice },
		"buttons":              func() { cfg.ButtonDevices = config.SplitList(v.buttons) },
		"grab":                 func() { cfg.Grab = v.cfg.Grab },
		"probe-seconds":        func() { cfg.ProbeSeconds = v.cfg.ProbeSeconds },
		"screen-width":         func() { cfg.ScreenWidth = v.cfg.ScreenWidth },
		"screen-height":        func() { cfg.ScreenHeight = v.cfg.ScreenHeight },
		"swap-xy":              func() { cfg.SwapXY = v.cfg.SwapXY },
		"mirror-x":             func() { cfg.MirrorX = v.cfg.MirrorX },
		"mirror-y":             func() { cfg.MirrorY = v.cfg.MirrorY },
		"dpi":                  func() { cfg.DPI = v.cfg.DPI },
		"jitter-mm":            func() { cfg.JitterMM = v.cfg.JitterMM },
		"hold-short-ms":        func() { cfg.HoldShortMS = v.cfg.HoldShortMS },
		"hold-long-ms":         func() { cfg.HoldLongMS = v.cfg.HoldLongMS },
		"forward-raw":          func() { cfg.ForwardRaw = v.cfg.ForwardRaw },
		"motion-hz":            func() { cfg.MotionHz = v.cfg.MotionHz },
		"ping-seconds":         func() { cfg.PingSeconds = v.cfg.PingSeconds },
		"pong-timeout-seconds": func() { cfg.PongTimeoutSeconds = v.cfg.PongTimeoutSeconds },
		"log-level":            func() { cfg.LogLevel = v.cfg.LogLevel },
		"log-format":           func() { cfg.LogFormat = v.cfg.LogFormat },
		"dump-events":          func() { cfg.DumpEvents = v.cfg.DumpEvents },
	}
	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w (see --help)", err)
	}
	return cfg, nil
}
