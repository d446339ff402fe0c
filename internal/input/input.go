// Package input defines the raw device events fed to the gesture recognizer.
//
// Events are produced by a platform driver (see internal/evdev) and consumed
// in arrival order. Finger events carry a contact id and a position in screen
// pixels; button events carry a ButtonCode. Time is a monotonic clock reading
// in seconds.
package input

import (
	"fmt"

	"codrawer-gesture-bridge/internal/geom"
)

// Type is the kind of transition an Event reports.
type Type uint8

const (
	FingerDown Type = iota + 1
	FingerMotion
	FingerUp
	ButtonPressed
	ButtonReleased
)

var typeNames = map[Type]string{
	FingerDown:     "finger_down",
	FingerMotion:   "finger_motion",
	FingerUp:       "finger_up",
	ButtonPressed:  "button_pressed",
	ButtonReleased: "button_released",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// IsFinger reports whether t is a finger transition.
func (t Type) IsFinger() bool { return t >= FingerDown && t <= FingerUp }

// IsButton reports whether t is a button transition.
func (t Type) IsButton() bool { return t == ButtonPressed || t == ButtonReleased }

func (t Type) MarshalText() ([]byte, error) {
	if _, ok := typeNames[t]; !ok {
		return nil, fmt.Errorf("input: unknown event type %d", t)
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	for k, v := range typeNames {
		if v == string(b) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("input: unknown event type %q", b)
}

// Event is a single raw device transition.
type Event struct {
	Type     Type       `json:"type"`
	Position geom.Point `json:"pos"`
	ID       int32      `json:"id,omitempty"`
	Code     ButtonCode `json:"code,omitempty"`
	Time     float64    `json:"time"`
}

func Down(id int32, pos geom.Point, t float64) Event {
	return Event{Type: FingerDown, ID: id, Position: pos, Time: t}
}

func Motion(id int32, pos geom.Point, t float64) Event {
	return Event{Type: FingerMotion, ID: id, Position: pos, Time: t}
}

func Up(id int32, pos geom.Point, t float64) Event {
	return Event{Type: FingerUp, ID: id, Position: pos, Time: t}
}

func Press(code ButtonCode, t float64) Event {
	return Event{Type: ButtonPressed, Code: code, Time: t}
}

func Release(code ButtonCode, t float64) Event {
	return Event{Type: ButtonReleased, Code: code, Time: t}
}

func (e Event) String() string {
	if e.Type.IsButton() {
		return fmt.Sprintf("%s code=%s t=%.3f", e.Type, e.Code, e.Time)
	}
	return fmt.Sprintf("%s id=%d pos=(%d,%d) t=%.3f", e.Type, e.ID, e.Position.X, e.Position.Y, e.Time)
}
