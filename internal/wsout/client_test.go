package wsout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codrawer-gesture-bridge/internal/geom"
	"codrawer-gesture-bridge/internal/gesture"
	"codrawer-gesture-bridge/internal/input"
)

// desktop is a test server that records text messages and pings.
type desktop struct {
	srv   *httptest.Server
	msgs  chan map[string]any
	pings chan struct{}
	conns chan *websocket.Conn
}

func newDesktop(t *testing.T) *desktop {
	t.Helper()
	d := &desktop{
		msgs:  make(chan map[string]any, 16),
		pings: make(chan struct{}, 16),
		conns: make(chan *websocket.Conn, 1),
	}
	up := websocket.Upgrader{}
	d.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.SetPingHandler(func(data string) error {
			select {
			case d.pings <- struct{}{}:
			default:
			}
			return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
		})
		d.conns <- conn
		for {
			_, b, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var m map[string]any
			if json.Unmarshal(b, &m) == nil {
				d.msgs <- m
			}
		}
	}))
	t.Cleanup(d.srv.Close)
	return d
}

func (d *desktop) url() string { return "ws" + strings.TrimPrefix(d.srv.URL, "http") }

func (d *desktop) next(t *testing.T) map[string]any {
	t.Helper()
	select {
	case m := <-d.msgs:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestWriteMessages(t *testing.T) {
	d := newDesktop(t)
	c, err := Dial(context.Background(), d.url(), Options{})
	require.NoError(t, err)
	defer c.Close()

	now := time.UnixMilli(1700000000123)
	require.NoError(t, c.WriteJSON(NewHello("s1", 1404, 1872, 226, 53.4, now)))
	require.NoError(t, c.WriteJSON(NewDevice(input.Down(3, geom.Pt(10, 20), 1.5), now)))
	require.NoError(t, c.WriteJSON(NewGesture(gesture.Swipe{Dir: geom.East, Start: geom.Pt(0, 0), End: geom.Pt(300, 0)}, now)))

	hello := d.next(t)
	assert.Equal(t, "hello", hello["t"])
	assert.Equal(t, "s1", hello["session"])
	assert.EqualValues(t, 1404, hello["width"])
	assert.EqualValues(t, 1700000000123, hello["ts"])

	dev := d.next(t)
	assert.Equal(t, "device", dev["t"])
	ev := dev["event"].(map[string]any)
	assert.Equal(t, "finger_down", ev["type"])
	assert.EqualValues(t, 3, ev["id"])
	assert.Equal(t, map[string]any{"x": 10.0, "y": 20.0}, ev["pos"])

	g := d.next(t)
	assert.Equal(t, "gesture", g["t"])
	assert.Equal(t, "swipe", g["kind"])
	_, err = uuid.Parse(g["id"].(string))
	assert.NoError(t, err)
	assert.Equal(t, "east", g["gesture"].(map[string]any)["dir"])
}

func TestGestureIDsAreUnique(t *testing.T) {
	now := time.Now()
	a := NewGesture(gesture.Tap{}, now)
	b := NewGesture(gesture.Tap{}, now)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, NewSession(), NewSession())
}

func TestPingKeepsConnectionAlive(t *testing.T) {
	d := newDesktop(t)
	c, err := Dial(context.Background(), d.url(), Options{PingEvery: 20 * time.Millisecond, PongWait: 200 * time.Millisecond})
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 3; i++ {
		select {
		case <-d.pings:
		case <-time.After(2 * time.Second):
			t.Fatal("no ping received")
		}
	}
	// Pongs extend the read deadline well past PongWait.
	select {
	case err := <-c.Err():
		t.Fatalf("unexpected connection error: %v", err)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestErrOnServerClose(t *testing.T) {
	d := newDesktop(t)
	c, err := Dial(context.Background(), d.url(), Options{})
	require.NoError(t, err)
	defer c.Close()

	srvConn := <-d.conns
	require.NoError(t, srvConn.Close())

	select {
	case err := <-c.Err():
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("close not reported")
	}
}

func TestDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := Dial(ctx, "ws://127.0.0.1:1/ws", Options{})
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	d := newDesktop(t)
	c, err := Dial(context.Background(), d.url(), Options{})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
