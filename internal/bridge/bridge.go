// Package bridge wires the input devices, the gesture recognizer and the
// desktop WebSocket together and keeps that pipeline running.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"codrawer-gesture-bridge/internal/config"
	"codrawer-gesture-bridge/internal/evdev"
	"codrawer-gesture-bridge/internal/gesture"
	"codrawer-gesture-bridge/internal/input"
	"codrawer-gesture-bridge/internal/logging"
	"codrawer-gesture-bridge/internal/wsout"
)

const (
	minReconnectDelay = 500 * time.Millisecond
	maxReconnectDelay = 5 * time.Second
	reconnectJitter   = 250 * time.Millisecond
)

var errInputClosed = errors.New("input closed")

type conn interface {
	WriteJSON(v any) error
	Err() <-chan error
	Close() error
}

type dialFunc func(ctx context.Context, url string, opts wsout.Options) (conn, error)

func dialWS(ctx context.Context, url string, opts wsout.Options) (conn, error) {
	c, err := wsout.Dial(ctx, url, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Bridge streams gestures from the local input devices to the desktop.
type Bridge struct {
	cfg     config.Config
	log     *slog.Logger
	session string
	dial    dialFunc

	minDelay time.Duration
	maxDelay time.Duration

	gesturesSent atomic.Int64
	dropped      atomic.Int64
}

func New(cfg config.Config, log *slog.Logger) *Bridge {
	if log == nil {
		log = logging.Discard()
	}
	return &Bridge{
		cfg:      cfg,
		log:      log,
		session:  wsout.NewSession(),
		dial:     dialWS,
		minDelay: minReconnectDelay,
		maxDelay: maxReconnectDelay,
	}
}

// GesturesSent is the number of gesture messages written so far.
func (b *Bridge) GesturesSent() int64 { return b.gesturesSent.Load() }

// Run selects and opens the input devices and streams until ctx is done or
// a device fails.
func (b *Bridge) Run(ctx context.Context) error {
	sel, err := evdev.SelectDevices(b.cfg.TouchDevice, b.cfg.ButtonDevices, b.cfg.ProbeDuration(), b.log)
	if err != nil {
		return err
	}
	devs, err := evdev.OpenSelection(sel, evdev.Options{
		Screen:     b.cfg.Screen(),
		Grab:       b.cfg.Grab,
		DumpEvents: b.cfg.DumpEvents,
		Logger:     b.log,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	raw := make(chan input.Event, 256)
	devErr := make(chan error, 1)
	go func() { devErr <- evdev.RunAll(ctx, devs, raw) }()

	err = b.Stream(ctx, raw)
	cancel()
	if derr := <-devErr; derr != nil && !errors.Is(derr, context.Canceled) {
		return derr
	}
	return err
}

// Stream recognizes gestures on in and forwards them, reconnecting to the
// desktop as needed. It returns nil once in is closed and drained. Events
// produced while disconnected are dropped.
func (b *Bridge) Stream(ctx context.Context, in <-chan input.Event) error {
	rec, err := gesture.New(b.cfg.Gesture(), gesture.WithLogger(b.log))
	if err != nil {
		return err
	}
	events, err := rec.Run(ctx, in)
	if err != nil {
		return err
	}
	b.log.Debug("recognizer started", "jitter_px", rec.Jitter())

	fwd := newForwarder(b.cfg.ForwardRaw, b.cfg.MotionHz)
	opts := wsout.Options{PingEvery: b.cfg.PingInterval(), PongWait: b.cfg.PongTimeout()}
	delay := b.minDelay

	for {
		c, err := b.dial(ctx, b.cfg.WsURL, opts)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wait := delay + b.jitter()
			b.log.Warn("ws connect failed", "err", err, "retry_in", wait)
			if err := b.idle(ctx, events, wait); err != nil {
				return ignoreInputClosed(err)
			}
			delay = time.Duration(math.Min(float64(b.maxDelay), float64(delay)*1.7))
			continue
		}

		b.log.Info("connected", "ws", b.cfg.WsURL, "session", b.session)
		delay = b.minDelay

		err = b.stream(ctx, c, events, fwd, rec.Jitter())
		_ = c.Close()
		if errors.Is(err, errInputClosed) {
			b.log.Info("input closed", "gestures_sent", b.gesturesSent.Load(), "gestures_dropped", b.dropped.Load())
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.log.Warn("disconnected", "err", err, "gestures_sent", b.gesturesSent.Load(), "reconnect_in", delay)
		if err := b.idle(ctx, events, delay); err != nil {
			return ignoreInputClosed(err)
		}
	}
}

func (b *Bridge) stream(ctx context.Context, c conn, events <-chan gesture.Event, fwd *forwarder, jitter float64) error {
	hello := wsout.NewHello(b.session, b.cfg.ScreenWidth, b.cfg.ScreenHeight, b.cfg.DPI, jitter, time.Now())
	if err := c.WriteJSON(hello); err != nil {
		return fmt.Errorf("ws write hello: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-c.Err():
			return err
		case ev, ok := <-events:
			if !ok {
				return inputDone(ctx)
			}
			msg, send := fwd.message(ev, time.Now())
			if !send {
				continue
			}
			if err := c.WriteJSON(msg); err != nil {
				return fmt.Errorf("ws write: %w", err)
			}
			if ev.IsGesture() {
				b.gesturesSent.Add(1)
				b.log.Debug("gesture sent", "kind", ev.Gesture.Kind())
			}
		}
	}
}

// idle waits for d while discarding recognizer output.
func (b *Bridge) idle(ctx context.Context, events <-chan gesture.Event, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		case ev, ok := <-events:
			if !ok {
				return inputDone(ctx)
			}
			if ev.IsGesture() {
				b.dropped.Add(1)
				b.log.Debug("gesture dropped while disconnected", "kind", ev.Gesture.Kind())
			}
		}
	}
}

func (b *Bridge) jitter() time.Duration {
	return time.Duration(rand.Int64N(int64(reconnectJitter)))
}

// inputDone reports why the recognizer output closed.
func inputDone(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errInputClosed
}

func ignoreInputClosed(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}
