package main

import (
	"strings"
	"testing"

	"poker-front/internal/poker"
	"poker-front/internal/render"
)

func TestParseAmount(t *testing.T) {
	if value, err := parseAmount(" 40 "); err != nil || value != 40 {
		t.Fatalf("expected 40, got %d %v", value, err)
	}
	for _, text := range []string{"", "4.5", "abc"} {
		if _, err := parseAmount(text); err == nil {
			t.Fatalf("expected error for %q", text)
		}
	}
}

func TestControlOption(t *testing.T) {
	if got := controlOption(render.Control{Action: poker.Fold}); got != "Fold" {
		t.Fatalf("unexpected option %q", got)
	}
	got := controlOption(render.Control{Action: poker.Raise, HasAmount: true, Min: 40, Max: 510})
	if got != "Raise (40-510)" {
		t.Fatalf("unexpected option %q", got)
	}
}

func TestTableRows(t *testing.T) {
	rows := tableRows([]poker.TableSummary{{ID: "7", SmallBlind: 5, BigBlind: 10, BuyIn: 1000, Players: 3}})
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(rows))
	}
	if strings.Join(rows[1], ",") != "7,5/10,1000,3" {
		t.Fatalf("unexpected row %v", rows[1])
	}
}

func TestOfferLatestKeepsNewest(t *testing.T) {
	states := make(chan poker.GameState, 1)
	offerLatest(states, poker.GameState{Pot: 1})
	offerLatest(states, poker.GameState{Pot: 2})
	if got := latest(states, poker.GameState{}); got.Pot != 2 {
		t.Fatalf("expected newest snapshot, got pot %s", got.Pot)
	}
	if got := latest(states, poker.GameState{Pot: 9}); got.Pot != 9 {
		t.Fatalf("expected fallback when empty, got pot %s", got.Pot)
	}
}

func TestCardsTextHidesFaceDown(t *testing.T) {
	text := cardsText(render.HoleCards([]string{"As", "Kd"}, false))
	if strings.Contains(text, "A") || strings.Contains(text, "K") {
		t.Fatalf("face-down cards leaked: %q", text)
	}
	if strings.Count(text, poker.FaceDown) != 2 {
		t.Fatalf("expected two face-down glyphs, got %q", text)
	}
}
