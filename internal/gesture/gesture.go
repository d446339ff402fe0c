package gesture

import (
	"codrawer-gesture-bridge/internal/geom"
	"codrawer-gesture-bridge/internal/input"
)

// Gesture is a semantic gesture. The concrete types below are the only
// implementations; switch on them to interpret a gesture.
type Gesture interface {
	// Kind is a stable snake_case name for the variant, used on the wire.
	Kind() string
	isGesture()
}

type Tap struct {
	Center geom.Point `json:"center"`
}

type MultiTap struct {
	Centers [2]geom.Point `json:"centers"`
}

type Swipe struct {
	Dir   geom.Dir   `json:"dir"`
	Start geom.Point `json:"start"`
	End   geom.Point `json:"end"`
}

type MultiSwipe struct {
	Dir    geom.Dir      `json:"dir"`
	Starts [2]geom.Point `json:"starts"`
	Ends   [2]geom.Point `json:"ends"`
}

// Arrow is a stroke that bows away from its chord mostly along one axis.
// Dir is the direction of the bow, not of the chord.
type Arrow struct {
	Dir   geom.Dir   `json:"dir"`
	Start geom.Point `json:"start"`
	End   geom.Point `json:"end"`
}

// Corner is a stroke that bows away from its chord diagonally.
type Corner struct {
	Dir   geom.DiagDir `json:"dir"`
	Start geom.Point   `json:"start"`
	End   geom.Point   `json:"end"`
}

// Pinch is two opposite swipes moving closer. Strength is the decrease of
// the distance between the fingers, in pixels.
type Pinch struct {
	Axis     geom.Axis     `json:"axis"`
	Strength uint32        `json:"strength"`
	Starts   [2]geom.Point `json:"starts"`
	Ends     [2]geom.Point `json:"ends"`
}

// Spread is two opposite swipes moving apart.
type Spread struct {
	Axis     geom.Axis     `json:"axis"`
	Strength uint32        `json:"strength"`
	Starts   [2]geom.Point `json:"starts"`
	Ends     [2]geom.Point `json:"ends"`
}

// Rotate is a stroke made around a stationary finger. Angle is in degrees,
// counter-clockwise positive, normalised to (-180, 180]; QuarterTurns is
// Angle/90 rounded, so it lies in [-2, 2].
type Rotate struct {
	Center       geom.Point `json:"center"`
	QuarterTurns int8       `json:"quarter_turns"`
	Angle        float64    `json:"angle"`
}

type Cross struct {
	Center geom.Point `json:"center"`
}

type HoldFingerShort struct {
	Position geom.Point `json:"pos"`
	ID       int32      `json:"id"`
}

type HoldFingerLong struct {
	Position geom.Point `json:"pos"`
	ID       int32      `json:"id"`
}

type HoldButtonShort struct {
	Code input.ButtonCode `json:"code"`
}

type HoldButtonLong struct {
	Code input.ButtonCode `json:"code"`
}

func (Tap) Kind() string             { return "tap" }
func (MultiTap) Kind() string        { return "multi_tap" }
func (Swipe) Kind() string           { return "swipe" }
func (MultiSwipe) Kind() string      { return "multi_swipe" }
func (Arrow) Kind() string           { return "arrow" }
func (Corner) Kind() string          { return "corner" }
func (Pinch) Kind() string           { return "pinch" }
func (Spread) Kind() string          { return "spread" }
func (Rotate) Kind() string          { return "rotate" }
func (Cross) Kind() string           { return "cross" }
func (HoldFingerShort) Kind() string { return "hold_finger_short" }
func (HoldFingerLong) Kind() string  { return "hold_finger_long" }
func (HoldButtonShort) Kind() string { return "hold_button_short" }
func (HoldButtonLong) Kind() string  { return "hold_button_long" }

func (Tap) isGesture()             {}
func (MultiTap) isGesture()        {}
func (Swipe) isGesture()           {}
func (MultiSwipe) isGesture()      {}
func (Arrow) isGesture()           {}
func (Corner) isGesture()          {}
func (Pinch) isGesture()           {}
func (Spread) isGesture()          {}
func (Rotate) isGesture()          {}
func (Cross) isGesture()           {}
func (HoldFingerShort) isGesture() {}
func (HoldFingerLong) isGesture()  {}
func (HoldButtonShort) isGesture() {}
func (HoldButtonLong) isGesture()  {}

// Event is one item of the recognizer output: either a raw device event
// passed through unchanged, or a recognized gesture.
type Event struct {
	Device  *input.Event
	Gesture Gesture
}

// IsGesture reports whether e carries a gesture.
func (e Event) IsGesture() bool { return e.Gesture != nil }
