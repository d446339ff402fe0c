package wsout

import (
	"time"

	"github.com/google/uuid"

	"codrawer-gesture-bridge/internal/gesture"
	"codrawer-gesture-bridge/internal/input"
)

// Message type tags, sent as "t".
const (
	TypeHello   = "hello"
	TypeDevice  = "device"
	TypeGesture = "gesture"
)

// Hello opens every connection and describes the panel coordinates.
type Hello struct {
	T        string  `json:"t"`
	Session  string  `json:"session"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	DPI      float64 `json:"dpi"`
	JitterPx float64 `json:"jitter_px"`
	TS       int64   `json:"ts"`
}

// Device is a raw input event passed through unchanged.
type Device struct {
	T     string      `json:"t"`
	Event input.Event `json:"event"`
	TS    int64       `json:"ts"`
}

// Gesture carries one recognized gesture. ID is unique per message so the
// desktop can deduplicate after a reconnect.
type Gesture struct {
	T       string          `json:"t"`
	ID      string          `json:"id"`
	Kind    string          `json:"kind"`
	Gesture gesture.Gesture `json:"gesture"`
	TS      int64           `json:"ts"`
}

func NewHello(session string, width, height int, dpi, jitterPx float64, now time.Time) Hello {
	return Hello{T: TypeHello, Session: session, Width: width, Height: height, DPI: dpi, JitterPx: jitterPx, TS: now.UnixMilli()}
}

func NewDevice(ev input.Event, now time.Time) Device {
	return Device{T: TypeDevice, Event: ev, TS: now.UnixMilli()}
}

func NewGesture(g gesture.Gesture, now time.Time) Gesture {
	return Gesture{T: TypeGesture, ID: uuid.NewString(), Kind: g.Kind(), Gesture: g, TS: now.UnixMilli()}
}

// NewSession returns a fresh session id for Hello.
func NewSession() string { return uuid.NewString() }
