package registry

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/Aladin-0/RM-Backend/internal/metrics"
)

const (
	pingInterval   = 30 * time.Second
	pongDeadline   = 60 * time.Second
	sendBufferSize = 16
)

// Client wraps one live websocket connection with a dedicated writer
// goroutine. All writes go through the bounded send channel so a slow
// consumer can never block a broadcast.
type Client struct {
	conn         *websocket.Conn
	clock        clockwork.Clock
	writeTimeout time.Duration
	sendCh       chan []byte
	done         chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
	sub          *Subscription
}

func newClient(conn *websocket.Conn, clock clockwork.Clock, writeTimeout time.Duration) *Client {
	c := &Client{
		conn:         conn,
		clock:        clock,
		writeTimeout: writeTimeout,
		sendCh:       make(chan []byte, sendBufferSize),
		done:         make(chan struct{}),
	}
	c.configurePongHandler()
	c.wg.Add(1)
	go c.run()
	return c
}

func (c *Client) run() {
	ticker := c.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.wg.Done()

	for {
		select {
		case msg, ok := <-c.sendCh:
			if !ok {
				return
			}
			c.updateWriteDeadline()
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.Chan():
			c.updateWriteDeadline()
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// TrySend queues a payload without blocking. It reports false when the
// buffer is full or the writer has stopped draining, which the dispatcher
// treats as a dead connection.
func (c *Client) TrySend(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.sendCh <- data:
		metrics.DeliveriesTotal.WithLabelValues("sent").Inc()
		return true
	default:
		metrics.DeliveriesTotal.WithLabelValues("dropped").Inc()
		return false
	}
}

func (c *Client) stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
	c.wg.Wait()
}

func (c *Client) configurePongHandler() {
	c.updateReadDeadline()
	c.conn.SetPongHandler(func(string) error {
		c.updateReadDeadline()
		return nil
	})
}

func (c *Client) updateWriteDeadline() {
	_ = c.conn.SetWriteDeadline(c.clock.Now().Add(c.writeTimeout))
}

func (c *Client) updateReadDeadline() {
	_ = c.conn.SetReadDeadline(c.clock.Now().Add(pongDeadline))
}
