package gesture

import (
	"time"

	"codrawer-gesture-bridge/internal/geom"
	"codrawer-gesture-bridge/internal/input"
)

// contact is a finger currently on the screen.
type contact struct {
	gen       uint64    // identity of this touch; ids are reused by the driver
	since     time.Time // wall clock at Down, origin of the hold deadlines
	held      bool      // a short hold fired; the Up will not produce a stroke
	positions []geom.Point
}

// still reports whether the finger has stayed within jitter of where it
// landed: both the latest sample and the midpoint sample are compared.
func (c *contact) still(jitter float64) bool {
	n := len(c.positions)
	first, mid, last := c.positions[0], c.positions[n/2], c.positions[n-1]
	return last.Dist(first) < jitter && last.Dist(mid) < jitter
}

type button struct {
	gen        uint64
	since      time.Time
	shortFired bool
}

// registry holds the contacts, buttons and finished strokes of the current
// multi-contact episode. It is not synchronized; Recognizer guards it.
type registry struct {
	contacts map[int32]*contact
	buttons  map[input.ButtonCode]*button
	strokes  [][]geom.Point
	gen      uint64
}

func newRegistry() registry {
	return registry{
		contacts: make(map[int32]*contact),
		buttons:  make(map[input.ButtonCode]*button),
	}
}

func (r *registry) next() uint64 {
	r.gen++
	return r.gen
}

func (r *registry) down(id int32, pos geom.Point, now time.Time) *contact {
	c := &contact{gen: r.next(), since: now, positions: []geom.Point{pos}}
	r.contacts[id] = c
	return c
}

// motion appends pos to the path of id. Unknown ids are ignored.
func (r *registry) motion(id int32, pos geom.Point) {
	if c, ok := r.contacts[id]; ok {
		c.positions = append(c.positions, pos)
	}
}

// up removes id and returns its finished path. Held contacts and unknown ids
// yield no path.
func (r *registry) up(id int32, pos geom.Point) ([]geom.Point, bool) {
	c, ok := r.contacts[id]
	if !ok {
		return nil, false
	}
	delete(r.contacts, id)
	if c.held {
		return nil, false
	}
	return append(c.positions, pos), true
}

func (r *registry) press(code input.ButtonCode, now time.Time) *button {
	b := &button{gen: r.next(), since: now}
	r.buttons[code] = b
	return b
}

func (r *registry) release(code input.ButtonCode) {
	delete(r.buttons, code)
}

// takeStrokes hands the pending strokes to the caller and clears the queue.
func (r *registry) takeStrokes() [][]geom.Point {
	s := r.strokes
	r.strokes = nil
	return s
}
