// Package config assembles the bridge configuration from defaults, an
// optional TOML file, environment variables and command line flags, in that
// order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"codrawer-gesture-bridge/internal/evdev"
	"codrawer-gesture-bridge/internal/gesture"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// DefaultPath is read when no --config flag is given and the file exists.
const DefaultPath = "gesture-bridge.toml"

type Config struct {
	WsURL string `toml:"ws_url"`

	TouchDevice   string   `toml:"touch_device"`
	ButtonDevices []string `toml:"button_devices"`
	Grab          bool     `toml:"grab"`
	ProbeSeconds  float64  `toml:"probe_seconds"`

	ScreenWidth  int     `toml:"screen_width"`
	ScreenHeight int     `toml:"screen_height"`
	SwapXY       bool    `toml:"swap_xy"`
	MirrorX      bool    `toml:"mirror_x"`
	MirrorY      bool    `toml:"mirror_y"`
	DPI          float64 `toml:"dpi"`

	JitterMM    float64 `toml:"jitter_mm"`
	HoldShortMS int     `toml:"hold_short_ms"`
	HoldLongMS  int     `toml:"hold_long_ms"`

	// ForwardRaw also streams raw device events; motion is capped at MotionHz.
	ForwardRaw bool    `toml:"forward_raw"`
	MotionHz   float64 `toml:"motion_hz"`

	PingSeconds        float64 `toml:"ping_seconds"`
	PongTimeoutSeconds float64 `toml:"pong_timeout_seconds"`

	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"`
	DumpEvents bool   `toml:"dump_events"`
}

// Default returns settings for a reMarkable 2 class panel.
func Default() Config {
	return Config{
		WsURL:              "ws://127.0.0.1:8000/ws/session1",
		ProbeSeconds:       1.5,
		ScreenWidth:        1404,
		ScreenHeight:       1872,
		DPI:                226,
		JitterMM:           gesture.DefaultJitterMM,
		HoldShortMS:        int(gesture.DefaultHoldShort / time.Millisecond),
		HoldLongMS:         int(gesture.DefaultHoldLong / time.Millisecond),
		ForwardRaw:         true,
		MotionHz:           30,
		PingSeconds:        2,
		PongTimeoutSeconds: 8,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// Load reads defaults, then path (or DefaultPath when path is empty and the
// file exists), then the environment. The result is not validated so that
// flags can still be applied.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.WsURL = getenvDefault("DESKTOP_WS", c.WsURL)
	c.TouchDevice = getenvDefault("TOUCH_DEVICE", c.TouchDevice)
	c.ButtonDevices = getenvListDefault("BUTTON_DEVICES", c.ButtonDevices)
	c.Grab = getenvBoolDefault("GRAB", c.Grab)
	c.ProbeSeconds = getenvFloatDefault("PROBE_SECONDS", c.ProbeSeconds)
	c.ScreenWidth = getenvIntDefault("SCREEN_WIDTH", c.ScreenWidth)
	c.ScreenHeight = getenvIntDefault("SCREEN_HEIGHT", c.ScreenHeight)
	c.SwapXY = getenvBoolDefault("SWAP_XY", c.SwapXY)
	c.MirrorX = getenvBoolDefault("MIRROR_X", c.MirrorX)
	c.MirrorY = getenvBoolDefault("MIRROR_Y", c.MirrorY)
	c.DPI = getenvFloatDefault("DPI", c.DPI)
	c.JitterMM = getenvFloatDefault("JITTER_MM", c.JitterMM)
	c.HoldShortMS = getenvIntDefault("HOLD_SHORT_MS", c.HoldShortMS)
	c.HoldLongMS = getenvIntDefault("HOLD_LONG_MS", c.HoldLongMS)
	c.ForwardRaw = getenvBoolDefault("FORWARD_RAW", c.ForwardRaw)
	c.MotionHz = getenvFloatDefault("MOTION_HZ", c.MotionHz)
	c.PingSeconds = getenvFloatDefault("PING_SECONDS", c.PingSeconds)
	c.PongTimeoutSeconds = getenvFloatDefault("PONG_TIMEOUT_SECONDS", c.PongTimeoutSeconds)
	c.LogLevel = getenvDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenvDefault("LOG_FORMAT", c.LogFormat)
	c.DumpEvents = getenvBoolDefault("DUMP_EVENTS", c.DumpEvents)
}

// Validate reports the first problem found.
func (c Config) Validate() error {
	var problems []string
	if !strings.HasPrefix(c.WsURL, "ws://") && !strings.HasPrefix(c.WsURL, "wss://") {
		problems = append(problems, fmt.Sprintf("ws_url %q must start with ws:// or wss://", c.WsURL))
	}
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		problems = append(problems, fmt.Sprintf("screen size %dx%d must be positive", c.ScreenWidth, c.ScreenHeight))
	}
	if c.MotionHz < 0 {
		problems = append(problems, "motion_hz must not be negative")
	}
	if err := c.Gesture().Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, problems[0])
	}
	return nil
}

// Gesture returns the recognizer tolerances.
func (c Config) Gesture() gesture.Config {
	return gesture.Config{
		JitterMM:  c.JitterMM,
		DPI:       c.DPI,
		HoldShort: time.Duration(c.HoldShortMS) * time.Millisecond,
		HoldLong:  time.Duration(c.HoldLongMS) * time.Millisecond,
	}
}

// Screen returns the touch coordinate mapping.
func (c Config) Screen() evdev.Screen {
	return evdev.Screen{
		Width:   c.ScreenWidth,
		Height:  c.ScreenHeight,
		SwapXY:  c.SwapXY,
		MirrorX: c.MirrorX,
		MirrorY: c.MirrorY,
	}
}

func (c Config) PingInterval() time.Duration {
	return time.Duration(float64(time.Second) * max(1, c.PingSeconds))
}

func (c Config) PongTimeout() time.Duration {
	return time.Duration(float64(time.Second) * max(2, c.PongTimeoutSeconds))
}

func (c Config) ProbeDuration() time.Duration {
	return time.Duration(float64(time.Second) * max(0.1, c.ProbeSeconds))
}
