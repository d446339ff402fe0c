package evdev

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"codrawer-gesture-bridge/internal/input"
)

// Options configure how a device node is opened and decoded.
type Options struct {
	Screen Screen
	// Grab takes the device exclusively (EVIOCGRAB) so the stock UI stops
	// seeing its events.
	Grab bool
	// DumpEvents logs every raw input_event at debug level. Noisy.
	DumpEvents bool
	Logger     *slog.Logger
}

// Device is an open /dev/input/event* node.
type Device struct {
	Path string
	Name string

	f         *os.File
	opts      Options
	log       *slog.Logger
	closeOnce sync.Once
}

// Open opens path and reads its name. Axis ranges are read by Run.
func Open(path string, opts Options) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input device %s: %w", path, err)
	}
	var name string
	err = withFd(f, func(fd int) {
		if opts.Grab {
			tryGrab(fd)
		}
		name, _ = getName(fd)
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open input device %s: %w", path, err)
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Device{Path: path, Name: name, f: f, opts: opts, log: log}, nil
}

// Run decodes the device into out until the stream fails or ctx is done.
// It returns ctx.Err() when stopped by the context.
func (d *Device) Run(ctx context.Context, out chan<- input.Event) error {
	fallback := absRanges{xMin: 0, xMax: int32(d.opts.Screen.Width - 1), yMin: 0, yMax: int32(d.opts.Screen.Height - 1)}
	ranges := fallback
	_ = withFd(d.f, func(fd int) { ranges = getRanges(fd, fallback) })
	dec := newDecoder(d.opts.Screen, ranges)
	dec.snapshot = d.snapshot

	// Closing the file unblocks the pending Read.
	stop := context.AfterFunc(ctx, func() { _ = d.Close() })
	defer stop()

	err := d.decode(ctx, bufio.NewReaderSize(d.f, 4096), dec, out)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (d *Device) decode(ctx context.Context, r io.Reader, dec *decoder, out chan<- input.Event) error {
	parser := &inputParser{}
	chunk := make([]byte, 4096)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			var sendErr error
			parser.feed(chunk[:n], func(ev rawEvent) {
				if d.opts.DumpEvents {
					d.log.Debug("raw input", "dev", d.Path, "type", ev.Type, "code", ev.Code, "value", ev.Value, "time", ev.Time)
				}
				dec.feed(ev, func(e input.Event) {
					if sendErr != nil {
						return
					}
					select {
					case out <- e:
					case <-ctx.Done():
						sendErr = ctx.Err()
					}
				})
			})
			if sendErr != nil {
				return sendErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("input device %s: %w", d.Path, ErrDeviceGone)
			}
			return fmt.Errorf("read input device %s: %w", d.Path, err)
		}
	}
}

// snapshot is called after the kernel dropped events for this device.
func (d *Device) snapshot() (deviceState, error) {
	var st deviceState
	var err error
	if cerr := withFd(d.f, func(fd int) { st, err = readState(fd) }); cerr != nil {
		err = cerr
	}
	if err != nil {
		d.log.Warn("resync after dropped events failed, releasing all", "dev", d.Path, "err", err)
		return deviceState{}, err
	}
	d.log.Info("resynced after dropped events", "dev", d.Path, "contacts", len(st.slots))
	return st, nil
}

// withFd runs fn on the raw descriptor. Unlike f.Fd it keeps the file in
// non-blocking mode, so Close still interrupts a pending Read.
func withFd(f *os.File, fn func(fd int)) error {
	rc, err := f.SyscallConn()
	if err != nil {
		return err
	}
	return rc.Control(func(fd uintptr) { fn(int(fd)) })
}

// Close releases the device. It is safe to call more than once.
func (d *Device) Close() error {
	var err error
	d.closeOnce.Do(func() { err = d.f.Close() })
	return err
}

// OpenSelection opens every node of sel with opts. The touch device is
// required; key devices that fail to open are skipped.
func OpenSelection(sel Selection, opts Options) ([]*Device, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	var devs []*Device
	for _, path := range sel.Paths() {
		dev, err := Open(path, opts)
		if err != nil {
			if path == sel.Touch {
				for _, d := range devs {
					_ = d.Close()
				}
				return nil, err
			}
			log.Warn("skipping key device", "path", path, "err", err)
			continue
		}
		log.Info("using input device", "path", dev.Path, "name", dev.Name, "touch", path == sel.Touch)
		devs = append(devs, dev)
	}
	if len(devs) == 0 {
		return nil, ErrNoDevice
	}
	return devs, nil
}

// RunAll runs every device into out and closes out once all of them have
// stopped. The first device failure stops the others and is returned;
// otherwise the result is ctx.Err().
func RunAll(ctx context.Context, devs []*Device, out chan<- input.Event) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var wg sync.WaitGroup
	for _, dev := range devs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := dev.Run(ctx, out); err != nil && ctx.Err() == nil {
				cancel(err)
			}
		}()
	}
	wg.Wait()
	close(out)
	return context.Cause(ctx)
}
