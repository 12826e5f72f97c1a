package live

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"poker-front/internal/poker"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// ConnHandlers receive socket events. OnState and OnError run on the
// connection's reader goroutine.
type ConnHandlers struct {
	OnState func(poker.GameState)
	OnError func(error)
	OnClose func(error)
}

// Conn is one WebSocket to a table channel. It never reconnects by itself.
type Conn struct {
	ws        *websocket.Conn
	writeMu   sync.Mutex
	open      atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// Dial opens the socket and starts reading. No handshake payload is sent.
func Dial(ctx context.Context, wsURL string, dialer *websocket.Dialer, handlers ConnHandlers) (*Conn, error) {
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	ws, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, &poker.NetworkError{Op: "dial " + wsURL, Err: err}
	}
	conn := &Conn{
		ws:   ws,
		done: make(chan struct{}),
	}
	conn.open.Store(true)
	go conn.readLoop(handlers)
	return conn, nil
}

func (c *Conn) readLoop(handlers ConnHandlers) {
	defer close(c.done)
	for {
		messageType, data, err := c.ws.ReadMessage()
		if err != nil {
			c.release()
			if handlers.OnClose != nil {
				handlers.OnClose(err)
			}
			return
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}
		state, err := poker.DecodeGameState(data)
		if err != nil {
			log.Printf("ws frame discarded error=%v", err)
			if handlers.OnError != nil {
				handlers.OnError(err)
			}
			continue
		}
		if handlers.OnState != nil {
			handlers.OnState(state)
		}
	}
}

func (c *Conn) Open() bool {
	return c.open.Load()
}

// Send transmits the action if the socket is open and reports whether it did.
// Nothing is queued while the socket is down.
func (c *Conn) Send(action poker.Action) bool {
	if !c.open.Load() {
		return false
	}
	data, err := json.Marshal(action)
	if err != nil {
		return false
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if !c.open.Load() {
		return false
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("ws send failed action=%s error=%v", action.Action, err)
		return false
	}
	return true
}

// release drops the underlying connection once the peer is gone.
func (c *Conn) release() {
	c.closeOnce.Do(func() {
		c.open.Store(false)
		_ = c.ws.Close()
	})
}

// Close shuts the socket and waits for the reader to exit.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.open.Store(false)
		_ = c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		err = c.ws.Close()
	})
	<-c.done
	return err
}
