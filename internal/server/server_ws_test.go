package server

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"poker-front/internal/poker"

	"github.com/gorilla/websocket"
)

func TestGameWebsocketPushesTableHTML(t *testing.T) {
	_, ts, _ := newTestApp(t)
	conn := dialRelay(t, ts, "/ws/game/7?user_id=u1&username=ann")

	seats := waitForMessage(t, conn, 5*time.Second, targetMessage("#seats"))
	if seats.Mode != "inner" {
		t.Fatalf("expected inner mode, got %q", seats.Mode)
	}
	if !strings.Contains(seats.HTML, "ann") || !strings.Contains(seats.HTML, "bob") {
		t.Fatalf("expected both seats, got %s", seats.HTML)
	}
	if strings.Contains(seats.HTML, "9♦") || strings.Contains(seats.HTML, "2♣") {
		t.Fatalf("opponent hole cards leaked: %s", seats.HTML)
	}
	if strings.Count(seats.HTML, poker.FaceDown) != 2 {
		t.Fatalf("expected two face-down cards, got %s", seats.HTML)
	}
}

func TestGameWebsocketKeepsRenderOnMalformedFrame(t *testing.T) {
	_, ts, _ := newTestApp(t)
	conn := dialRelay(t, ts, "/ws/game/garbled?user_id=u1&username=ann")

	waitForMessage(t, conn, 5*time.Second, func(message wsHTMLMessage) bool {
		if message.Target == "#connection" && strings.Contains(message.HTML, msgConnectionLost) {
			t.Fatalf("malformed frame reported as a connection problem")
		}
		return message.Target == "#board" && strings.Contains(message.HTML, "Pot 45")
	})
}

func TestGameWebsocketRelaysValidAction(t *testing.T) {
	_, ts, backend := newTestApp(t)
	conn := dialRelay(t, ts, "/ws/game/7?user_id=u1&username=ann")
	waitForMessage(t, conn, 5*time.Second, targetMessage("#controls"))

	if err := conn.WriteJSON(map[string]any{"action": "raise", "amount": 60}); err != nil {
		t.Fatalf("write action: %v", err)
	}
	select {
	case data := <-backend.actions:
		var action poker.Action
		if err := json.Unmarshal(data, &action); err != nil {
			t.Fatalf("decode action: %v", err)
		}
		if action.UserID != "u1" || action.Action != poker.Raise || action.Amount != 60 {
			t.Fatalf("unexpected action %+v", action)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("backend did not receive the action")
	}
}

func TestGameWebsocketRejectsInvalidAction(t *testing.T) {
	_, ts, backend := newTestApp(t)
	conn := dialRelay(t, ts, "/ws/game/7?user_id=u1&username=ann")
	waitForMessage(t, conn, 5*time.Second, targetMessage("#controls"))

	if err := conn.WriteJSON(map[string]any{"action": "raise", "amount": 5}); err != nil {
		t.Fatalf("write action: %v", err)
	}
	status := waitForMessage(t, conn, 5*time.Second, func(message wsHTMLMessage) bool {
		return message.Target == "#actionStatus" && message.HTML != ""
	})
	if status.HTML != "amount must be between 40 and 510" {
		t.Fatalf("unexpected status %q", status.HTML)
	}

	if err := conn.WriteJSON(map[string]any{"action": "check"}); err != nil {
		t.Fatalf("write action: %v", err)
	}
	status = waitForMessage(t, conn, 5*time.Second, func(message wsHTMLMessage) bool {
		return message.Target == "#actionStatus" && message.HTML != ""
	})
	if status.HTML != "check is not available right now" {
		t.Fatalf("unexpected status %q", status.HTML)
	}

	select {
	case data := <-backend.actions:
		t.Fatalf("invalid action reached backend: %s", data)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestGameWebsocketLeaveRedirectsToLobby(t *testing.T) {
	_, ts, backend := newTestApp(t)
	conn := dialRelay(t, ts, "/ws/game/7?user_id=u1&username=ann")
	waitForMessage(t, conn, 5*time.Second, targetMessage("#seats"))

	if err := conn.WriteJSON(map[string]any{"action": "leave"}); err != nil {
		t.Fatalf("write leave: %v", err)
	}
	redirect := waitForMessage(t, conn, 5*time.Second, func(message wsHTMLMessage) bool {
		return message.Type == "redirect"
	})
	if redirect.URL != "/?user_id=u1&username=ann" {
		t.Fatalf("unexpected redirect %q", redirect.URL)
	}
	leaves := backend.leaveCalls()
	if len(leaves) != 1 || leaves[0] != "7|u1" {
		t.Fatalf("expected one leave call, got %v", leaves)
	}
}

func TestGameWebsocketRequiresUser(t *testing.T) {
	_, ts, _ := newTestApp(t)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/game/7"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		_ = conn.Close()
		t.Fatalf("expected handshake to fail without user_id")
	}
	if resp == nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestRelayHubCountsAndCloses(t *testing.T) {
	srv, ts, _ := newTestApp(t)
	conn := dialRelay(t, ts, "/ws/game/7?user_id=u1&username=ann")
	waitForMessage(t, conn, 5*time.Second, targetMessage("#seats"))
	if got := srv.relays.Count(); got != 1 {
		t.Fatalf("expected one relay, got %d", got)
	}

	srv.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	deadline := time.Now().Add(5 * time.Second)
	for srv.relays.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("relay was not removed after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
