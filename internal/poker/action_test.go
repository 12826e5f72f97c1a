package poker

import (
	"errors"
	"testing"
)

func bettingState() GameState {
	return GameState{
		CurrentBet:     40,
		Stacks:         map[string]Amount{"u1": 460, "u2": 300},
		Contributions:  map[string]Amount{"u1": 40, "u2": 0},
		AllowedActions: []ActionName{Fold, Call, Raise},
		Started:        true,
	}
}

func TestActionBounds(t *testing.T) {
	state := bettingState()
	id := Identity{UserID: "u1"}

	raise := ActionBounds(state, id, Raise, 10)
	if raise.Min != 80 || raise.Max != 500 {
		t.Fatalf("unexpected raise bounds %+v", raise)
	}
	bet := ActionBounds(state, id, Bet, 10)
	if bet.Min != 10 || bet.Max != 500 {
		t.Fatalf("unexpected bet bounds %+v", bet)
	}
	state.CurrentBet = 0
	if got := ActionBounds(state, id, Raise, 10); got.Min != 1 {
		t.Fatalf("expected raise minimum floored at 1, got %+v", got)
	}
}

func TestBoundsClamp(t *testing.T) {
	bounds := Bounds{Min: 20, Max: 100}
	cases := map[int64]int64{5: 20, 20: 20, 55: 55, 100: 100, 500: 100}
	for in, want := range cases {
		if got := bounds.Clamp(in); got != want {
			t.Fatalf("clamp(%d): expected %d, got %d", in, want, got)
		}
	}
	if got := (Bounds{Min: 50, Max: 10}).Clamp(30); got != 50 {
		t.Fatalf("expected min when window is empty, got %d", got)
	}
}

func TestValidateActionAcceptsInRangeRaise(t *testing.T) {
	action := NewAction("u1", Raise, 120)
	if err := ValidateAction(action, bettingState(), 10); err != nil {
		t.Fatalf("expected valid raise, got %v", err)
	}
}

func TestValidateActionRejectsOutOfRangeWithoutChangingIt(t *testing.T) {
	action := NewAction("u1", Raise, 5000)
	err := ValidateAction(action, bettingState(), 10)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "amount" {
		t.Fatalf("expected amount validation error, got %v", err)
	}
	if action.Amount != 5000 {
		t.Fatalf("validation must not alter the amount, got %d", action.Amount)
	}
}

func TestValidateActionRejectsActionsNotAllowed(t *testing.T) {
	err := ValidateAction(NewAction("u1", Check, 0), bettingState(), 10)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "action" {
		t.Fatalf("expected action validation error, got %v", err)
	}
}

func TestValidateActionShape(t *testing.T) {
	cases := []struct {
		name   string
		action Action
		field  string
	}{
		{name: "missing user", action: Action{Action: Fold}, field: "user_id"},
		{name: "unknown action", action: Action{UserID: "u1", Action: "allin"}, field: "action"},
		{name: "missing amount", action: Action{UserID: "u1", Action: Raise}, field: "amount"},
	}
	for _, tc := range cases {
		err := ValidateAction(tc.action, bettingState(), 10)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != tc.field {
			t.Fatalf("%s: expected %s validation error, got %v", tc.name, tc.field, err)
		}
	}
}

func TestNewActionDropsAmountForNonBets(t *testing.T) {
	if got := NewAction("u1", Call, 75); got.Amount != 0 {
		t.Fatalf("expected amount dropped for call, got %d", got.Amount)
	}
	if got := NewAction("u1", Bet, 75); got.Amount != 75 {
		t.Fatalf("expected amount kept for bet, got %d", got.Amount)
	}
}
