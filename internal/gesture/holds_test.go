package gesture

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldQueueFiresInDeadlineOrder(t *testing.T) {
	q := newHoldQueue()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var fired []int32
	done := make(chan struct{})
	go q.run(ctx, func(c holdCheck) {
		mu.Lock()
		defer mu.Unlock()
		fired = append(fired, c.id)
		if len(fired) == 3 {
			close(done)
		}
	})

	now := time.Now()
	q.schedule(holdCheck{id: 3, deadline: now.Add(90 * time.Millisecond)})
	q.schedule(holdCheck{id: 1, deadline: now.Add(30 * time.Millisecond)})
	q.schedule(holdCheck{id: 2, deadline: now.Add(60 * time.Millisecond)})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("checks did not fire")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int32{1, 2, 3}, fired)
	assert.Equal(t, 0, q.pending())
}

func TestHoldQueueFireMayReschedule(t *testing.T) {
	q := newHoldQueue()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tiers := make(chan tier, 2)
	go q.run(ctx, func(c holdCheck) {
		tiers <- c.tier
		if c.tier == tierShort {
			c.tier = tierLong
			c.deadline = c.deadline.Add(20 * time.Millisecond)
			q.schedule(c)
		}
	})
	q.schedule(holdCheck{deadline: time.Now().Add(10 * time.Millisecond), tier: tierShort})

	for _, want := range []tier{tierShort, tierLong} {
		select {
		case got := <-tiers:
			assert.Equal(t, want, got)
		case <-time.After(5 * time.Second):
			t.Fatalf("%s check did not fire", want)
		}
	}
}

func TestHoldQueueStopsOnCancel(t *testing.T) {
	q := newHoldQueue()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		q.run(ctx, func(holdCheck) { t.Error("fired after cancel") })
		close(stopped)
	}()
	q.schedule(holdCheck{deadline: time.Now().Add(time.Hour)})
	cancel()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}
	require.Equal(t, 1, q.pending())
}

func TestOutboxDrainsAfterClose(t *testing.T) {
	o := newOutbox()
	out := make(chan Event)
	go o.pump(context.Background(), out)

	for i := 0; i < 100; i++ {
		assert.True(t, o.push(Event{Gesture: Tap{}}))
	}
	o.close()
	assert.False(t, o.push(Event{Gesture: Tap{}}))

	n := 0
	for range out {
		n++
	}
	assert.Equal(t, 100, n)
}
