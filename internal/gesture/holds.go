package gesture

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"codrawer-gesture-bridge/internal/input"
)

type tier uint8

const (
	tierShort tier = iota
	tierLong
)

func (t tier) String() string {
	if t == tierLong {
		return "long"
	}
	return "short"
}

// holdCheck is a pending re-validation of a contact or button. It carries
// no cancel handle: the check re-reads the registry when it fires and does
// nothing if the touch it was armed for is gone.
type holdCheck struct {
	deadline time.Time
	finger   bool
	id       int32
	code     input.ButtonCode
	gen      uint64
	tier     tier
}

type holdHeap []holdCheck

func (h holdHeap) Len() int           { return len(h) }
func (h holdHeap) Less(i, j int) bool { return h[i].deadline.Before(h[j].deadline) }
func (h holdHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *holdHeap) Push(x any)        { *h = append(*h, x.(holdCheck)) }
func (h *holdHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// holdQueue runs every hold check from a single timer loop.
type holdQueue struct {
	mu    sync.Mutex
	items holdHeap
	wake  chan struct{}
}

func newHoldQueue() *holdQueue {
	return &holdQueue{wake: make(chan struct{}, 1)}
}

func (q *holdQueue) schedule(c holdCheck) {
	q.mu.Lock()
	heap.Push(&q.items, c)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *holdQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// due pops every check whose deadline has passed and reports how long to
// wait for the next one (-1 when the queue is empty).
func (q *holdQueue) due(now time.Time) ([]holdCheck, time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []holdCheck
	for len(q.items) > 0 && !q.items[0].deadline.After(now) {
		out = append(out, heap.Pop(&q.items).(holdCheck))
	}
	if len(q.items) == 0 {
		return out, -1
	}
	return out, q.items[0].deadline.Sub(now)
}

// run fires checks as their deadlines pass until ctx is done. fire is
// called without the queue lock held and may schedule further checks.
func (q *holdQueue) run(ctx context.Context, fire func(holdCheck)) {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		ready, wait := q.due(time.Now())
		for _, c := range ready {
			fire(c)
		}
		if len(ready) > 0 {
			continue
		}

		var fired <-chan time.Time
		if wait >= 0 {
			timer.Reset(wait)
			fired = timer.C
		}
		select {
		case <-ctx.Done():
			return
		case <-q.wake:
		case <-fired:
		}
		timer.Stop()
	}
}
