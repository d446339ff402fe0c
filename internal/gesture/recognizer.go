package gesture

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"codrawer-gesture-bridge/internal/input"
)

// Recognizer turns a stream of raw input events into gestures.
//
// Raw events are consumed by a single goroutine in arrival order and each
// one is passed through to the output before anything derived from it.
// Hold checks run on a separate timer goroutine and share the registry
// through mu, which is only held around one read-check-emit step.
type Recognizer struct {
	cfg    Config
	jitter float64
	log    *slog.Logger

	mu  sync.Mutex
	reg registry

	holds   *holdQueue
	out     *outbox
	running atomic.Bool
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithLogger sets the logger used for debug traces of recognized gestures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recognizer) {
		if l != nil {
			r.log = l
		}
	}
}

// New validates cfg and returns an idle recognizer. The jitter tolerance is
// fixed here for the lifetime of the recognizer.
func New(cfg Config, opts ...Option) (*Recognizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Recognizer{
		cfg:    cfg,
		jitter: cfg.Jitter(),
		log:    slog.New(slog.DiscardHandler),
		reg:    newRegistry(),
		holds:  newHoldQueue(),
		out:    newOutbox(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Jitter returns the jitter tolerance in pixels.
func (r *Recognizer) Jitter() float64 { return r.jitter }

// Run consumes in until it is closed or ctx is done and returns the output
// stream. The output channel is closed when the recognizer stops; pending
// hold checks are abandoned at that point. Run may only be called once.
func (r *Recognizer) Run(ctx context.Context, in <-chan input.Event) (<-chan Event, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}

	holdCtx, stopHolds := context.WithCancel(ctx)
	out := make(chan Event)

	// The pump follows the caller's ctx only, so events queued before the
	// input closed are still delivered.
	go r.out.pump(ctx, out)
	go r.holds.run(holdCtx, r.checkHold)
	go func() {
		defer r.out.close()
		defer stopHolds()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-in:
				if !ok {
					return
				}
				r.handle(ev)
			}
		}
	}()
	return out, nil
}

func (r *Recognizer) handle(ev input.Event) {
	raw := ev
	r.out.push(Event{Device: &raw})

	switch ev.Type {
	case input.FingerDown:
		r.fingerDown(ev)
	case input.FingerMotion:
		r.mu.Lock()
		r.reg.motion(ev.ID, ev.Position)
		r.mu.Unlock()
	case input.FingerUp:
		r.fingerUp(ev)
	case input.ButtonPressed:
		r.buttonPressed(ev)
	case input.ButtonReleased:
		r.mu.Lock()
		r.reg.release(ev.Code)
		r.mu.Unlock()
	}
}

func (r *Recognizer) fingerDown(ev input.Event) {
	now := time.Now()
	r.mu.Lock()
	c := r.reg.down(ev.ID, ev.Position, now)
	r.mu.Unlock()

	r.holds.schedule(holdCheck{
		deadline: now.Add(r.cfg.HoldShort),
		finger:   true,
		id:       ev.ID,
		gen:      c.gen,
		tier:     tierShort,
	})
}

func (r *Recognizer) fingerUp(ev input.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if path, ok := r.reg.up(ev.ID, ev.Position); ok {
		r.reg.strokes = append(r.reg.strokes, path)
	}
	if len(r.reg.contacts) > 0 || len(r.reg.strokes) == 0 {
		return
	}

	strokes := r.reg.takeStrokes()
	g, ok := Combine(strokes, r.jitter)
	if !ok {
		r.log.Debug("strokes discarded", "count", len(strokes))
		return
	}
	r.emit(g)
}

func (r *Recognizer) buttonPressed(ev input.Event) {
	now := time.Now()
	r.mu.Lock()
	b := r.reg.press(ev.Code, now)
	r.mu.Unlock()

	r.holds.schedule(holdCheck{
		deadline: now.Add(r.cfg.HoldShort),
		code:     ev.Code,
		gen:      b.gen,
		tier:     tierShort,
	})
}

func (r *Recognizer) checkHold(hc holdCheck) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if hc.finger {
		r.checkFingerHold(hc)
	} else {
		r.checkButtonHold(hc)
	}
}

// checkFingerHold must be called with mu held.
func (r *Recognizer) checkFingerHold(hc holdCheck) {
	c, ok := r.reg.contacts[hc.id]
	if !ok || c.gen != hc.gen {
		return
	}
	// A hold never fires while a multi-finger gesture is in progress.
	if len(r.reg.contacts) > 1 || len(r.reg.strokes) > 0 {
		return
	}
	if !c.still(r.jitter) {
		return
	}

	switch hc.tier {
	case tierShort:
		if c.held {
			return
		}
		c.held = true
		r.emit(HoldFingerShort{Position: c.positions[0], ID: hc.id})
		hc.deadline = c.since.Add(r.cfg.HoldLong)
		hc.tier = tierLong
		r.holds.schedule(hc)
	case tierLong:
		if c.held {
			r.emit(HoldFingerLong{Position: c.positions[0], ID: hc.id})
		}
	}
}

// checkButtonHold must be called with mu held.
func (r *Recognizer) checkButtonHold(hc holdCheck) {
	b, ok := r.reg.buttons[hc.code]
	if !ok || b.gen != hc.gen {
		return
	}

	switch hc.tier {
	case tierShort:
		if b.shortFired {
			return
		}
		b.shortFired = true
		r.emit(HoldButtonShort{Code: hc.code})
		hc.deadline = b.since.Add(r.cfg.HoldLong)
		hc.tier = tierLong
		r.holds.schedule(hc)
	case tierLong:
		if b.shortFired {
			r.emit(HoldButtonLong{Code: hc.code})
		}
	}
}

func (r *Recognizer) emit(g Gesture) {
	r.log.Debug("gesture", "kind", g.Kind(), "detail", g)
	r.out.push(Event{Gesture: g})
}
