package server

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"poker-front/internal/api"
	"poker-front/internal/config"

	"github.com/gorilla/websocket"
)

const sampleState = `{
	"community": ["Ah", "Kd", "7c"],
	"hole_cards": {"u1": ["Qs", "Qh"], "u2": ["2c", "9d"]},
	"pot": 30,
	"stacks": {"u1": 500, "u2": 480},
	"current_player": "u1",
	"current_bet": 20,
	"contributions": {"u1": 10, "u2": 20},
	"allowed_actions": ["fold", "call", "raise"],
	"started": true,
	"players": [{"user_id": "u1", "username": "ann"}, {"user_id": "u2", "username": "bob"}]
}`

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

// fakeBackend serves the poker REST API and table sockets.
type fakeBackend struct {
	*httptest.Server

	mu         sync.Mutex
	joinCalls  map[string]int
	leaves     []string
	tablesDown bool

	actions chan []byte
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	backend := &fakeBackend{
		joinCalls: make(map[string]int),
		actions:   make(chan []byte, 8),
	}
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tables", func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		down := backend.tablesDown
		backend.mu.Unlock()
		if down {
			http.Error(w, `{"error":"database offline"}`, http.StatusInternalServerError)
			return
		}
		level := r.URL.Query().Get("level")
		_, _ = io.WriteString(w, `{"tables":[{"id":7,"small_blind":5,"big_blind":10,"buy_in":1000,"players":3},{"id":"`+level+`-1","small_blind":1,"big_blind":2,"buy_in":100,"players":0}]}`)
	})
	mux.HandleFunc("GET /api/balance", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"balance":1500}`)
	})
	mux.HandleFunc("POST /api/join", func(w http.ResponseWriter, r *http.Request) {
		tableID := r.URL.Query().Get("table_id")
		backend.mu.Lock()
		backend.joinCalls[tableID]++
		backend.mu.Unlock()
		switch tableID {
		case "full":
			_, _ = io.WriteString(w, `{"success":false,"message":"Table full"}`)
		case "boom":
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
		default:
			_, _ = io.WriteString(w, `{"success":true,"message":"Joined","seat_idx":2}`)
		}
	})
	mux.HandleFunc("GET /api/game_state", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sampleState)
	})
	mux.HandleFunc("POST /api/leave", func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		backend.leaves = append(backend.leaves, r.URL.Query().Get("table_id")+"|"+r.URL.Query().Get("user_id"))
		backend.mu.Unlock()
		_, _ = io.WriteString(w, `{"success":true}`)
	})
	mux.HandleFunc("GET /api/history", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "  no hands played yet for "+r.URL.Query().Get("user_id")+"\n")
	})
	mux.HandleFunc("GET /ws/game/{tableId}", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		if r.PathValue("tableId") == "garbled" {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"pot":`)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(strings.Replace(sampleState, `"pot": 30`, `"pot": 45`, 1))); err != nil {
				return
			}
		} else if err := conn.WriteMessage(websocket.TextMessage, []byte(sampleState)); err != nil {
			return
		}
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			backend.actions <- data
		}
	})
	backend.Server = newTestServer(t, mux)
	t.Cleanup(backend.Close)
	return backend
}

func (b *fakeBackend) joins(tableID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.joinCalls[tableID]
}

func (b *fakeBackend) leaveCalls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.leaves...)
}

func newTestApp(t *testing.T) (*Server, *httptest.Server, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend(t)
	client, err := api.New(backend.URL, backend.Client())
	if err != nil {
		t.Fatalf("api client: %v", err)
	}
	cfg := config.Default()
	cfg.PollIntervalSeconds = 0
	srv := New(nil, cfg, client)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, ts, backend
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func decodeJoin(t *testing.T, resp *http.Response) joinResponse {
	t.Helper()
	var payload joinResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode join response: %v", err)
	}
	return payload
}

func dialRelay(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// waitForMessage reads relay frames until match accepts one.
func waitForMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration, match func(wsHTMLMessage) bool) wsHTMLMessage {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		_ = conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read websocket message: %v", err)
		}
		var batch []wsHTMLMessage
		if err := json.Unmarshal(data, &batch); err != nil {
			var single wsHTMLMessage
			if err := json.Unmarshal(data, &single); err != nil {
				t.Fatalf("decode websocket message: %v", err)
			}
			batch = []wsHTMLMessage{single}
		}
		for _, message := range batch {
			if match(message) {
				return message
			}
		}
	}
}

func targetMessage(target string) func(wsHTMLMessage) bool {
	return func(message wsHTMLMessage) bool {
		return message.Type == "html" && message.Target == target
	}
}
