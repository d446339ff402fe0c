// Package wsout streams bridge messages to the desktop over WebSocket.
//
// The client keeps the connection healthy with:
// - TCP keepalive on the dialer
// - a ping ticker
// - a pong watchdog (read deadline)
// - a background reader that processes control frames (required!)
//
// The bridge doesn't consume server messages; it only writes JSON.
package wsout

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 5 * time.Second
	readLimit        = 1 << 20
)

// Options tune the keepalive. Zero values use the defaults below.
type Options struct {
	PingEvery time.Duration
	PongWait  time.Duration
}

func (o Options) withDefaults() Options {
	if o.PingEvery <= 0 {
		o.PingEvery = 2 * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = 8 * time.Second
	}
	return o
}

// Conn is a write-mostly WebSocket connection. Writes are serialized.
type Conn struct {
	conn *websocket.Conn
	mu   sync.Mutex

	done      chan struct{}
	errC      chan error
	closeOnce sync.Once
}

// Dial connects to wsURL and starts the keepalive goroutines.
func Dial(ctx context.Context, wsURL string, opts Options) (*Conn, error) {
	opts = opts.withDefaults()
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("parse ws url: %w", err)
	}

	d := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
		NetDialContext: (&net.Dialer{
			Timeout:   handshakeTimeout,
			KeepAlive: 15 * time.Second,
		}).DialContext,
	}

	conn, _, err := d.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.Redacted(), err)
	}

	c := &Conn{
		conn: conn,
		done: make(chan struct{}),
		errC: make(chan error, 1),
	}

	// Keepalive needs READ to process PONG/close frames.
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(opts.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(opts.PongWait))
	})

	go c.readLoop()
	go c.pingLoop(opts.PingEvery)
	return c, nil
}

// Close sends a close frame when possible and tears the connection down.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// Err receives the first read or keepalive failure.
func (c *Conn) Err() <-chan error { return c.errC }

func (c *Conn) sendErr(err error) {
	select {
	case c.errC <- err:
	default:
	}
}

func (c *Conn) readLoop() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			select {
			case <-c.done:
			default:
				c.sendErr(fmt.Errorf("ws read: %w", err))
			}
			return
		}
	}
}

func (c *Conn) pingLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-t.C:
			c.mu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeTimeout))
			c.mu.Unlock()
			if err != nil {
				c.sendErr(fmt.Errorf("ws ping: %w", err))
				return
			}
		}
	}
}

// WriteJSON sends v as one text message.
func (c *Conn) WriteJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}
