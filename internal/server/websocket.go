package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"poker-front/internal/identity"
	"poker-front/internal/live"
	"poker-front/internal/poker"
	"poker-front/internal/render"
	"poker-front/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	msgNotConnected   = "Not connected"
	msgInvalidAction  = "Invalid action."
	msgWaitingState   = "Waiting for the table..."
	msgTableOffline   = "Unable to reach the table."
	msgPollingOnly    = "Live updates paused. Refreshing periodically."
	msgConnectionLost = "Connection problem. Retrying..."
	leaveTimeout      = 5 * time.Second
)

// relay is one browser socket bridged to a backend table session.
type relay struct {
	conn     *websocket.Conn
	tableID  string
	identity poker.Identity
	session  *live.Session

	writeMu sync.Mutex

	stateMu  sync.Mutex
	state    poker.GameState
	hasState bool
}

type relayHub struct {
	mu     sync.Mutex
	tables map[string]map[*relay]struct{}
}

func newRelayHub() *relayHub {
	return &relayHub{
		tables: make(map[string]map[*relay]struct{}),
	}
}

func (h *relayHub) Add(r *relay) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.tables[r.tableID]
	if group == nil {
		group = make(map[*relay]struct{})
		h.tables[r.tableID] = group
	}
	group[r] = struct{}{}
}

func (h *relayHub) Remove(r *relay) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.tables[r.tableID]
	if group == nil {
		return
	}
	delete(group, r)
	_ = r.conn.Close()
	if len(group) == 0 {
		delete(h.tables, r.tableID)
	}
}

func (h *relayHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	count := 0
	for _, group := range h.tables {
		count += len(group)
	}
	return count
}

// CloseAll closes every browser socket; each relay's read loop then closes
// its own backend session.
func (h *relayHub) CloseAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0)
	for _, group := range h.tables {
		for r := range group {
			conns = append(conns, r.conn)
		}
	}
	h.mu.Unlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (r *relay) send(messages ...wsHTMLMessage) {
	if len(messages) == 0 {
		return
	}
	var payload any = messages
	if len(messages) == 1 {
		payload = messages[0]
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	_ = r.conn.WriteMessage(websocket.TextMessage, data)
}

func (r *relay) latest() (poker.GameState, bool) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	return r.state, r.hasState
}

func (r *relay) remember(state poker.GameState) {
	r.stateMu.Lock()
	r.state = state
	r.hasState = true
	r.stateMu.Unlock()
}

func (s *Server) handleGameWebsocket(c *gin.Context) {
	var uri tableURI
	if !bindURI(c, &uri) {
		return
	}
	params := c.Request.URL.Query()
	if strings.TrimSpace(params.Get(identity.KeyUserID)) == "" {
		writeError(c.Writer, http.StatusBadRequest, "user_id is required")
		return
	}
	id := identity.Resolve(params, nil)
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected table_id=%s user_id=%s remote=%s", uri.TableID, id.UserID, c.Request.RemoteAddr)
	rl := &relay{conn: conn, tableID: uri.TableID, identity: id}
	s.relays.Add(rl)
	defer s.relays.Remove(rl)

	opts := s.renderOptions()
	session, err := live.Open(context.Background(), live.Config{
		TableID:        uri.TableID,
		Identity:       id,
		Location:       live.LocationFromURL(s.backend.BaseURL()),
		Dialer:         s.dialer,
		Fetcher:        s.backend,
		PollInterval:   s.cfg.PollInterval(),
		ReconnectDelay: s.cfg.ReconnectDelay(),
		OnState: func(state poker.GameState) {
			rl.remember(state)
			rl.send(renderTableMessages(render.Build(state, id, opts))...)
		},
		OnError: func(err error) {
			log.Printf("table session error table_id=%s user_id=%s error=%v", uri.TableID, id.UserID, err)
			var appErr *poker.ApplicationError
			var netErr *poker.NetworkError
			switch {
			case errors.As(err, &appErr):
				rl.send(textMessage("#actionStatus", poker.UserMessage(err, msgInvalidAction)))
			case errors.As(err, &netErr):
				rl.send(textMessage("#connection", msgConnectionLost))
			}
		},
		OnConnChange: func(connected bool) {
			if connected {
				rl.send(textMessage("#connection", ""))
				return
			}
			rl.send(textMessage("#connection", msgPollingOnly))
		},
	})
	if err != nil {
		log.Printf("table session failed table_id=%s user_id=%s error=%v", uri.TableID, id.UserID, err)
		rl.send(textMessage("#connection", msgTableOffline))
		return
	}
	rl.session = session
	defer session.Close()
	if session.Connected() {
		rl.send(textMessage("#connection", ""))
	}
	s.readRelay(rl)
}

func (s *Server) readRelay(rl *relay) {
	for {
		_, data, err := rl.conn.ReadMessage()
		if err != nil {
			log.Printf("ws disconnected table_id=%s user_id=%s error=%v", rl.tableID, rl.identity.UserID, err)
			return
		}
		var frame browserFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			rl.send(textMessage("#actionStatus", msgInvalidAction))
			continue
		}
		name := strings.ToLower(strings.TrimSpace(frame.Action))
		if name == browserLeave {
			s.leaveTable(rl)
			return
		}
		s.relayAction(rl, poker.NewAction(rl.identity.UserID, poker.ActionName(name), frame.Amount))
	}
}

// relayAction validates against the latest snapshot and forwards the action
// unchanged. Invalid actions never reach the backend.
func (s *Server) relayAction(rl *relay, action poker.Action) {
	state, ok := rl.latest()
	if !ok {
		rl.send(textMessage("#actionStatus", msgWaitingState))
		return
	}
	if err := poker.ValidateAction(action, state, s.cfg.MinBet); err != nil {
		rl.send(textMessage("#actionStatus", poker.UserMessage(err, msgInvalidAction)))
		return
	}
	sent := rl.session.Send(action)
	if err := s.recordAction(rl.tableID, action, sent); err != nil {
		log.Printf("action record failed table_id=%s user_id=%s error=%v", rl.tableID, action.UserID, err)
	}
	if !sent {
		log.Printf("action dropped table_id=%s user_id=%s action=%s", rl.tableID, action.UserID, action.Action)
		rl.send(textMessage("#actionStatus", msgNotConnected))
		return
	}
	log.Printf("action sent table_id=%s user_id=%s action=%s amount=%d", rl.tableID, action.UserID, action.Action, action.Amount)
	rl.send(textMessage("#actionStatus", ""))
}

func (s *Server) leaveTable(rl *relay) {
	ctx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
	defer cancel()
	if err := s.backend.LeaveTable(ctx, rl.tableID, rl.identity.UserID); err != nil {
		log.Printf("leave failed table_id=%s user_id=%s error=%v", rl.tableID, rl.identity.UserID, err)
	} else {
		log.Printf("table left table_id=%s user_id=%s", rl.tableID, rl.identity.UserID)
	}
	rl.send(redirectMessage(web.LobbyURL(rl.identity.UserID, rl.identity.Username)))
}
