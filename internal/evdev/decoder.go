package evdev

// Touch + key decoding.
//
// The kernel reports multi-touch contacts with the type B slot protocol:
// ABS_MT_SLOT selects a slot, ABS_MT_TRACKING_ID >= 0 starts a contact in it
// and -1 ends it, ABS_MT_POSITION_X/Y update it, and SYN_REPORT closes the
// frame. Single-touch panels only send BTN_TOUCH + ABS_X/ABS_Y; those are
// decoded as slot 0. Transitions are only emitted at SYN_REPORT so X/Y never
// desync.
//
// After SYN_DROPPED everything up to and including the next SYN_REPORT is
// discarded, then the decoder reads the device state back (EVIOCGMTSLOTS,
// EVIOCGKEY) and emits whatever transitions the lost events carried.

import (
	"maps"
	"slices"
	"sort"

	"codrawer-gesture-bridge/internal/geom"
	"codrawer-gesture-bridge/internal/input"
)

// Screen maps raw touch coordinates to screen pixels.
type Screen struct {
	Width   int
	Height  int
	SwapXY  bool // panel axes are rotated relative to the display
	MirrorX bool
	MirrorY bool
}

type slotState struct {
	x, y      int32
	track     int32 // tracking id of the contact in the slot
	active    bool
	wasActive bool
	moved     bool
	last      geom.Point
}

type decoder struct {
	screen   Screen
	ranges   absRanges
	slot     int32
	slots    map[int32]*slotState
	mt       bool // device speaks the slot protocol
	dropping bool // after SYN_DROPPED, until the next SYN_REPORT
	pending  []input.Event
	keys     map[input.ButtonCode]bool // pressed, as last emitted

	// snapshot reads the current device state after a drop. Nil, or an
	// error, is treated as an idle device: every contact and key is released.
	snapshot func() (deviceState, error)
}

// deviceState is the kernel's view of a device at one instant.
type deviceState struct {
	mt      bool
	curSlot int32
	slots   map[int32]slotSnapshot // active slots only
	keys    map[input.ButtonCode]bool
}

type slotSnapshot struct {
	track int32
	x, y  int32
}

func newDecoder(screen Screen, ranges absRanges) *decoder {
	return &decoder{
		screen: screen,
		ranges: ranges,
		slots:  make(map[int32]*slotState),
		keys:   make(map[input.ButtonCode]bool),
	}
}

func (d *decoder) cur() *slotState {
	s, ok := d.slots[d.slot]
	if !ok {
		s = &slotState{}
		d.slots[d.slot] = s
	}
	return s
}

// feed consumes one raw event and calls emit for every finished transition.
func (d *decoder) feed(ev rawEvent, emit func(input.Event)) {
	if d.dropping {
		if ev.Type == EV_SYN && ev.Code == SYN_REPORT {
			d.dropping = false
			d.resync(ev.Time)
			d.emitPending(emit)
		}
		return
	}

	switch ev.Type {
	case EV_ABS:
		d.abs(ev)

	case EV_KEY:
		switch {
		case ev.Code == BTN_TOUCH:
			if !d.mt {
				d.slot = 0
				d.cur().active = ev.Value != 0
			}
		case input.ButtonCode(ev.Code).Known():
			d.key(ev)
		}

	case EV_SYN:
		switch ev.Code {
		case SYN_REPORT:
			d.flush(ev.Time)
			d.emitPending(emit)
		case SYN_DROPPED:
			d.pending = d.pending[:0]
			d.dropping = true
		}
	}
}

func (d *decoder) abs(ev rawEvent) {
	switch ev.Code {
	case ABS_MT_SLOT:
		d.mt = true
		d.slot = ev.Value
	case ABS_MT_TRACKING_ID:
		d.mt = true
		s := d.cur()
		s.active = ev.Value >= 0
		if s.active {
			s.track = ev.Value
		}
	case ABS_MT_POSITION_X:
		d.mt = true
		s := d.cur()
		s.x, s.moved = ev.Value, true
	case ABS_MT_POSITION_Y:
		d.mt = true
		s := d.cur()
		s.y, s.moved = ev.Value, true
	case ABS_X:
		if !d.mt {
			d.slot = 0
			s := d.cur()
			s.x, s.moved = ev.Value, true
		}
	case ABS_Y:
		if !d.mt {
			d.slot = 0
			s := d.cur()
			s.y, s.moved = ev.Value, true
		}
	}
}

// key queues button transitions. Autorepeat (value 2) is dropped.
func (d *decoder) key(ev rawEvent) {
	code := input.ButtonCode(ev.Code)
	switch ev.Value {
	case 1:
		d.pending = append(d.pending, input.Press(code, ev.Time))
	case 0:
		d.pending = append(d.pending, input.Release(code, ev.Time))
	}
}

func (d *decoder) emitPending(emit func(input.Event)) {
	for _, out := range d.pending {
		switch out.Type {
		case input.ButtonPressed:
			d.keys[out.Code] = true
		case input.ButtonReleased:
			delete(d.keys, out.Code)
		}
		emit(out)
	}
	d.pending = d.pending[:0]
}

// resync queues the transitions that bring the decoder in line with the
// device after a drop. Contacts that ended, or were replaced by a new
// tracking id, are lifted first; then current contacts are put down or moved.
func (d *decoder) resync(t float64) {
	var st deviceState
	if d.snapshot != nil {
		if s, err := d.snapshot(); err == nil {
			st = s
		}
	}

	for id, s := range d.slots {
		now, ok := st.slots[id]
		if s.active && (!ok || now.track != s.track) {
			s.active = false
		}
	}
	d.flush(t)

	for _, id := range slices.Sorted(maps.Keys(st.slots)) {
		now := st.slots[id]
		d.slot = id
		s := d.cur()
		s.active, s.track = true, now.track
		s.x, s.y, s.moved = now.x, now.y, true
	}
	d.flush(t)
	if st.mt {
		d.mt = true
		d.slot = st.curSlot
	}

	for _, code := range slices.Sorted(maps.Keys(d.keys)) {
		if !st.keys[code] {
			d.pending = append(d.pending, input.Release(code, t))
		}
	}
	for _, code := range slices.Sorted(maps.Keys(st.keys)) {
		if code.Known() && !d.keys[code] {
			d.pending = append(d.pending, input.Press(code, t))
		}
	}
}

func (d *decoder) flush(t float64) {
	ids := make([]int32, 0, len(d.slots))
	for id := range d.slots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		s := d.slots[id]
		pos := s.last
		if s.moved {
			pos = d.toScreen(s.x, s.y)
		}
		switch {
		case s.active && !s.wasActive:
			d.pending = append(d.pending, input.Down(id, pos, t))
		case !s.active && s.wasActive:
			d.pending = append(d.pending, input.Up(id, pos, t))
		case s.active && pos != s.last:
			d.pending = append(d.pending, input.Motion(id, pos, t))
		}
		s.last = pos
		s.wasActive = s.active
		s.moved = false
	}
}

func (d *decoder) toScreen(x, y int32) geom.Point {
	w, h := d.screen.Width, d.screen.Height
	if d.screen.SwapXY {
		w, h = h, w
	}
	px := mapAxis(x, d.ranges.xMin, d.ranges.xMax, w)
	py := mapAxis(y, d.ranges.yMin, d.ranges.yMax, h)
	if d.screen.SwapXY {
		px, py = py, px
	}
	if d.screen.MirrorX {
		px = d.screen.Width - 1 - px
	}
	if d.screen.MirrorY {
		py = d.screen.Height - 1 - py
	}
	return geom.Pt(px, py)
}

func mapAxis(v, lo, hi int32, out int) int {
	if out <= 1 || hi <= lo {
		return int(v)
	}
	v = min(max(v, lo), hi)
	return int(int64(v-lo) * int64(out-1) / int64(hi-lo))
}
