package poker

import "testing"

func TestParseCard(t *testing.T) {
	cases := []struct {
		code  string
		label string
		red   bool
	}{
		{code: "As", label: "A♠"},
		{code: "10h", label: "10♥", red: true},
		{code: "Td", label: "10♦", red: true},
		{code: "KS", label: "K♠"},
		{code: "2c", label: "2♣"},
		{code: "Q♥", label: "Q♥", red: true},
	}
	for _, tc := range cases {
		card, err := ParseCard(tc.code)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.code, err)
		}
		if card.Label() != tc.label {
			t.Fatalf("parse %q: expected label %q, got %q", tc.code, tc.label, card.Label())
		}
		if card.Red() != tc.red {
			t.Fatalf("parse %q: expected red=%v", tc.code, tc.red)
		}
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	for _, code := range []string{"", "A", "1s", "Zx", "11h"} {
		if _, err := ParseCard(code); err == nil {
			t.Fatalf("expected error for %q", code)
		}
	}
}
