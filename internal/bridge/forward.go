package bridge

import (
	"time"

	"golang.org/x/time/rate"

	"codrawer-gesture-bridge/internal/gesture"
	"codrawer-gesture-bridge/internal/input"
	"codrawer-gesture-bridge/internal/wsout"
)

// forwarder turns recognizer output into wire messages. Gestures are always
// sent. Raw events are sent only when enabled, with finger motion capped per
// contact so a busy panel cannot flood the link.
type forwarder struct {
	raw    bool
	limit  rate.Limit
	motion map[int32]*rate.Limiter
}

func newForwarder(raw bool, motionHz float64) *forwarder {
	limit := rate.Inf
	if motionHz > 0 {
		limit = rate.Limit(motionHz)
	}
	return &forwarder{raw: raw, limit: limit, motion: make(map[int32]*rate.Limiter)}
}

func (f *forwarder) message(ev gesture.Event, now time.Time) (any, bool) {
	if ev.Gesture != nil {
		return wsout.NewGesture(ev.Gesture, now), true
	}
	if ev.Device == nil || !f.raw {
		return nil, false
	}

	d := *ev.Device
	switch {
	case d.Type.IsFinger():
		if !f.allowFinger(d, now) {
			return nil, false
		}
	case !d.Type.IsButton():
		// Unknown types would fail to marshal.
		return nil, false
	}
	return wsout.NewDevice(d, now), true
}

func (f *forwarder) allowFinger(d input.Event, now time.Time) bool {
	switch d.Type {
	case input.FingerDown:
		f.motion[d.ID] = rate.NewLimiter(f.limit, 1)
	case input.FingerMotion:
		if l, ok := f.motion[d.ID]; ok && !l.AllowN(now, 1) {
			return false
		}
	case input.FingerUp:
		delete(f.motion, d.ID)
	}
	return true
}
