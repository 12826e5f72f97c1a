package live

import (
	"net/url"
	"testing"
)

func TestBuildWebSocketURL(t *testing.T) {
	got := BuildWebSocketURL("123", "u1", "alice", Location{Protocol: "https:", Host: "example.com"})
	if want := "wss://example.com/ws/game/123?user_id=u1&username=alice"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	got = BuildWebSocketURL("123", "u1", "alice", Location{Protocol: "http:", Host: "localhost:8080"})
	if want := "ws://localhost:8080/ws/game/123?user_id=u1&username=alice"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestBuildWebSocketURLEscapes(t *testing.T) {
	got := BuildWebSocketURL("a/b", "u 1", "al&ce", Location{Protocol: "file:", Host: "h"})
	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Scheme != "ws" {
		t.Fatalf("expected ws for non-https page, got %q", parsed.Scheme)
	}
	if parsed.Query().Get("user_id") != "u 1" || parsed.Query().Get("username") != "al&ce" {
		t.Fatalf("query not round-tripped: %q", parsed.RawQuery)
	}
	if parsed.EscapedPath() != "/ws/game/a%2Fb" {
		t.Fatalf("unexpected path %q", parsed.EscapedPath())
	}
}

func TestLocationFromURL(t *testing.T) {
	u, _ := url.Parse("https://poker.example:8443/lobby")
	loc := LocationFromURL(u)
	if loc.Protocol != "https:" || loc.Host != "poker.example:8443" {
		t.Fatalf("unexpected location %#v", loc)
	}
}
