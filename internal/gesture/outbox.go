package gesture

import (
	"context"
	"sync"
)

// outbox is an unbounded FIFO between the producers (event loop and hold
// timer) and the consumer of the output channel. Pushing never blocks.
type outbox struct {
	mu     sync.Mutex
	queue  []Event
	closed bool
	ready  chan struct{}
}

func newOutbox() *outbox {
	return &outbox{ready: make(chan struct{}, 1)}
}

// push appends ev. It reports false once the outbox is closed.
func (o *outbox) push(ev Event) bool {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return false
	}
	o.queue = append(o.queue, ev)
	o.mu.Unlock()
	o.signal()
	return true
}

func (o *outbox) close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	o.signal()
}

func (o *outbox) signal() {
	select {
	case o.ready <- struct{}{}:
	default:
	}
}

// pump delivers queued events to out in order and closes out once the
// outbox is closed and drained, or ctx is done.
func (o *outbox) pump(ctx context.Context, out chan<- Event) {
	defer close(out)
	for {
		o.mu.Lock()
		batch, closed := o.queue, o.closed
		o.queue = nil
		o.mu.Unlock()

		for _, ev := range batch {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		select {
		case <-o.ready:
		case <-ctx.Done():
			return
		}
	}
}
