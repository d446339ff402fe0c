package evdev

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codrawer-gesture-bridge/internal/geom"
	"codrawer-gesture-bridge/internal/input"
)

// pipeDevice returns a device reading from a pipe and the pipe's write end.
func pipeDevice(t *testing.T, path string) (*Device, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return &Device{Path: path, f: r, opts: Options{Screen: Screen{Width: 1000, Height: 1000}}, log: discardLogger()}, w
}

func TestRunAllStopsOnDeviceLoss(t *testing.T) {
	touch, tw := pipeDevice(t, "touch")
	keys, _ := pipeDevice(t, "keys")

	for _, ev := range []rawEvent{
		abs(1, ABS_MT_TRACKING_ID, 4),
		abs(1, ABS_MT_POSITION_X, 10),
		abs(1, ABS_MT_POSITION_Y, 20),
		syn(1),
	} {
		_, err := tw.Write(encode24(ev))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())

	out := make(chan input.Event, 8)
	done := make(chan error, 1)
	go func() { done <- RunAll(context.Background(), []*Device{touch, keys}, out) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrDeviceGone)
	case <-time.After(2 * time.Second):
		t.Fatal("RunAll did not stop")
	}

	var got []input.Event
	for ev := range out {
		got = append(got, ev)
	}
	assert.Equal(t, []input.Event{input.Down(0, geom.Pt(10, 20), 1)}, got)
}

func TestRunAllCancel(t *testing.T) {
	dev, _ := pipeDevice(t, "idle")
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan input.Event)
	done := make(chan error, 1)
	go func() { done <- RunAll(ctx, []*Device{dev}, out) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("RunAll ignored cancellation")
	}
	_, open := <-out
	assert.False(t, open)
}

func TestOpenSelectionMissingTouch(t *testing.T) {
	_, err := OpenSelection(Selection{Touch: "/nonexistent/event9"}, Options{})
	assert.Error(t, err)
	_, err = OpenSelection(Selection{}, Options{})
	assert.ErrorIs(t, err, ErrNoDevice)
}
