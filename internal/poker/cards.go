package poker

import (
	"fmt"
	"strings"

	pk "github.com/paulhankin/poker"
)

// FaceDown is shown in place of any card the local player may not see.
const FaceDown = "🂠"

type Card struct {
	Code string
	Rank string
	Suit string
	suit pk.Suit
}

var rankValues = map[string]pk.Rank{
	"A": 1, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7,
	"8": 8, "9": 9, "T": 10, "10": 10, "J": 11, "Q": 12, "K": 13,
}

var suitValues = map[string]pk.Suit{
	"c": pk.Club,
	"d": pk.Diamond,
	"h": pk.Heart,
	"s": pk.Spade,
	"♣": pk.Club,
	"♦": pk.Diamond,
	"♥": pk.Heart,
	"♠": pk.Spade,
}

var suitGlyphs = map[pk.Suit]string{
	pk.Club:    "♣",
	pk.Diamond: "♦",
	pk.Heart:   "♥",
	pk.Spade:   "♠",
}

// ParseCard reads a card code such as "As", "10h", "Td" or "K♠".
func ParseCard(code string) (Card, error) {
	trimmed := strings.TrimSpace(code)
	runes := []rune(trimmed)
	if len(runes) < 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}
	rankPart := strings.ToUpper(string(runes[:len(runes)-1]))
	suitPart := strings.ToLower(string(runes[len(runes)-1:]))
	rank, ok := rankValues[rankPart]
	if !ok {
		return Card{}, fmt.Errorf("invalid card rank %q", code)
	}
	suit, ok := suitValues[suitPart]
	if !ok {
		return Card{}, fmt.Errorf("invalid card suit %q", code)
	}
	if _, err := pk.MakeCard(suit, rank); err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", code, err)
	}
	if rankPart == "10" {
		rankPart = "T"
	}
	return Card{Code: trimmed, Rank: rankPart, Suit: suitGlyphs[suit], suit: suit}, nil
}

func (c Card) Label() string {
	rank := c.Rank
	if rank == "T" {
		rank = "10"
	}
	return rank + c.Suit
}

func (c Card) Red() bool {
	return c.suit == pk.Heart || c.suit == pk.Diamond
}
