// Package live keeps a table view fed with snapshots.
//
// A Session has two producers, the table WebSocket (push) and an HTTP poller
// (pull). Both feed one dispatcher goroutine that calls OnState in delivery
// order, so handlers never run concurrently with each other. Snapshots carry
// no sequence number; whichever is delivered last wins until the next one.
package live

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"poker-front/internal/poker"

	"github.com/gorilla/websocket"
)

type Origin string

const (
	OriginPush Origin = "push"
	OriginPoll Origin = "poll"
)

type Config struct {
	TableID  string
	Identity poker.Identity
	// Location is the backend origin used to build the socket URL.
	Location Location
	Dialer   *websocket.Dialer
	Fetcher  Fetcher
	// PollInterval <= 0 disables the fallback poller.
	PollInterval time.Duration
	// ReconnectDelay > 0 redials after the socket closes.
	ReconnectDelay time.Duration

	OnState      func(poker.GameState)
	OnError      func(error)
	OnConnChange func(connected bool)
}

type Session struct {
	cfg        Config
	ctx        context.Context
	cancel     context.CancelFunc
	deliveries chan poker.GameState
	wg         sync.WaitGroup
	closed     atomic.Bool
	lastPush   atomic.Int64

	mu   sync.Mutex
	conn *Conn
	shut bool
}

// Open starts the dispatcher, dials the table socket, fetches one snapshot
// over HTTP and starts the poller. If the dial fails the session keeps
// running on polling alone; without a poller the dial error is returned.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.TableID == "" {
		return nil, errors.New("table id is required")
	}
	if cfg.OnState == nil {
		return nil, errors.New("state handler is required")
	}
	sctx, cancel := context.WithCancel(ctx)
	s := &Session{
		cfg:        cfg,
		ctx:        sctx,
		cancel:     cancel,
		deliveries: make(chan poker.GameState),
	}
	s.wg.Add(1)
	go s.dispatch()

	if err := s.dial(); err != nil {
		if !s.polling() {
			s.closed.Store(true)
			cancel()
			s.wg.Wait()
			return nil, err
		}
		s.reportError(err)
		if cfg.ReconnectDelay > 0 {
			s.wg.Add(1)
			go s.reconnect()
		}
	}

	if cfg.Fetcher != nil {
		poller := s.poller()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			poller.FetchOnce(s.ctx)
		}()
		if s.polling() {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				poller.Run(s.ctx)
			}()
		}
	}
	log.Printf("live session opened table_id=%s user_id=%s polling=%t", cfg.TableID, cfg.Identity.UserID, s.polling())
	return s, nil
}

func (s *Session) polling() bool {
	return s.cfg.Fetcher != nil && s.cfg.PollInterval > 0
}

func (s *Session) poller() *Poller {
	return &Poller{
		Fetcher:  s.cfg.Fetcher,
		TableID:  s.cfg.TableID,
		Interval: s.cfg.PollInterval,
		Deliver: func(state poker.GameState) {
			s.deliver(state, OriginPoll)
		},
		OnError: s.reportError,
		LastPush: func() time.Time {
			return time.Unix(0, s.lastPush.Load())
		},
	}
}

func (s *Session) dial() error {
	wsURL := BuildWebSocketURL(s.cfg.TableID, s.cfg.Identity.UserID, s.cfg.Identity.Username, s.cfg.Location)
	conn, err := Dial(s.ctx, wsURL, s.cfg.Dialer, ConnHandlers{
		OnState: func(state poker.GameState) {
			s.deliver(state, OriginPush)
		},
		OnError: s.reportError,
		OnClose: s.handleClose,
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.shut {
		s.mu.Unlock()
		_ = conn.Close()
		return context.Canceled
	}
	previous := s.conn
	s.conn = conn
	s.mu.Unlock()
	if previous != nil {
		_ = previous.Close()
	}
	s.notifyConn(true)
	return nil
}

func (s *Session) dispatch() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case state := <-s.deliveries:
			if s.ctx.Err() != nil {
				return
			}
			s.cfg.OnState(state)
		}
	}
}

func (s *Session) deliver(state poker.GameState, origin Origin) {
	if origin == OriginPush {
		s.lastPush.Store(time.Now().UnixNano())
	}
	select {
	case s.deliveries <- state:
	case <-s.ctx.Done():
	}
}

func (s *Session) handleClose(err error) {
	if s.closed.Load() {
		return
	}
	log.Printf("live socket closed table_id=%s error=%v", s.cfg.TableID, err)
	s.notifyConn(false)
	s.reportError(&poker.NetworkError{Op: "table socket", Err: err})
	if s.cfg.ReconnectDelay > 0 {
		s.wg.Add(1)
		go s.reconnect()
	}
}

func (s *Session) reconnect() {
	defer s.wg.Done()
	timer := time.NewTimer(s.cfg.ReconnectDelay)
	defer timer.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
		}
		err := s.dial()
		if err == nil {
			log.Printf("live socket reconnected table_id=%s", s.cfg.TableID)
			return
		}
		if s.ctx.Err() != nil {
			return
		}
		log.Printf("live socket redial failed table_id=%s error=%v", s.cfg.TableID, err)
		timer.Reset(s.cfg.ReconnectDelay)
	}
}

func (s *Session) reportError(err error) {
	if err == nil || s.closed.Load() || s.cfg.OnError == nil {
		return
	}
	s.cfg.OnError(err)
}

func (s *Session) notifyConn(connected bool) {
	if s.closed.Load() || s.cfg.OnConnChange == nil {
		return
	}
	s.cfg.OnConnChange(connected)
}

// Connected reports whether the table socket is currently open.
func (s *Session) Connected() bool {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	return conn != nil && conn.Open()
}

// Send pushes an action over the socket. It returns false, dropping the
// action, when the socket is not open.
func (s *Session) Send(action poker.Action) bool {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return false
	}
	return conn.Send(action)
}

// Close releases the socket and timers. No handler runs after Close returns.
// It must not be called from OnState.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.cancel()
	s.mu.Lock()
	s.shut = true
	conn := s.conn
	s.mu.Unlock()
	var err error
	if conn != nil {
		err = conn.Close()
	}
	s.wg.Wait()
	log.Printf("live session closed table_id=%s user_id=%s", s.cfg.TableID, s.cfg.Identity.UserID)
	return err
}
