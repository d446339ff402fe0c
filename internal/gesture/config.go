package gesture

import (
	"fmt"
	"time"

	"codrawer-gesture-bridge/internal/geom"
)

const (
	// DefaultJitterMM is the finger travel below which motion is noise.
	DefaultJitterMM = 6.0
	// DefaultHoldShort and DefaultHoldLong are measured from the Down or
	// Pressed event.
	DefaultHoldShort = 666 * time.Millisecond
	DefaultHoldLong  = 1333 * time.Millisecond
)

// Config is read once by New.
type Config struct {
	JitterMM  float64
	DPI       float64
	HoldShort time.Duration
	HoldLong  time.Duration
}

// DefaultConfig returns the stock tolerances for a display of the given density.
func DefaultConfig(dpi float64) Config {
	return Config{
		JitterMM:  DefaultJitterMM,
		DPI:       dpi,
		HoldShort: DefaultHoldShort,
		HoldLong:  DefaultHoldLong,
	}
}

// Jitter is the jitter tolerance in device pixels.
func (c Config) Jitter() float64 { return geom.MMToPx(c.JitterMM, c.DPI) }

// Validate reports the first unusable setting, wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.DPI <= 0:
		return fmt.Errorf("%w: dpi must be positive, got %v", ErrInvalidConfig, c.DPI)
	case c.JitterMM < 0:
		return fmt.Errorf("%w: jitter must not be negative, got %v mm", ErrInvalidConfig, c.JitterMM)
	case c.HoldShort <= 0:
		return fmt.Errorf("%w: short hold delay must be positive", ErrInvalidConfig)
	case c.HoldLong <= c.HoldShort:
		return fmt.Errorf("%w: long hold delay %s must exceed short delay %s", ErrInvalidConfig, c.HoldLong, c.HoldShort)
	}
	return nil
}
