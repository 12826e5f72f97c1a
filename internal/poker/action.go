package poker

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type ActionName string

const (
	Fold  ActionName = "fold"
	Check ActionName = "check"
	Call  ActionName = "call"
	Bet   ActionName = "bet"
	Raise ActionName = "raise"
)

// ActionNames is the fixed control order used by every renderer.
var ActionNames = []ActionName{Fold, Check, Call, Bet, Raise}

// NeedsAmount reports whether the action carries an amount.
func (a ActionName) NeedsAmount() bool {
	return a == Bet || a == Raise
}

// Action is the client-to-server message.
type Action struct {
	UserID string     `json:"user_id" validate:"required"`
	Action ActionName `json:"action" validate:"required,oneof=fold check call bet raise"`
	Amount int64      `json:"amount,omitempty" validate:"gte=0"`
}

// NewAction builds an action message, dropping the amount for actions that
// do not take one.
func NewAction(userID string, name ActionName, amount int64) Action {
	action := Action{UserID: userID, Action: name}
	if name.NeedsAmount() {
		action.Amount = amount
	}
	return action
}

// Bounds is the advisory [Min, Max] window for a bet or raise amount.
type Bounds struct {
	Min int64
	Max int64
}

func (b Bounds) Contains(amount int64) bool {
	return amount >= b.Min && amount <= b.Max
}

// Clamp pulls value into the window. Used for input defaults only; sends are
// validated, never adjusted.
func (b Bounds) Clamp(value int64) int64 {
	if b.Max < b.Min {
		return b.Min
	}
	if value < b.Min {
		return b.Min
	}
	if value > b.Max {
		return b.Max
	}
	return value
}

// ActionBounds computes the amount window for name from the latest snapshot.
// Fractional snapshot values are rounded inward so every amount in the window
// is a whole number the snapshot allows.
func ActionBounds(state GameState, id Identity, name ActionName, minBet int64) Bounds {
	bounds := Bounds{Min: minBet}
	if name == Raise {
		bounds.Min = (2 * state.CurrentBet).Ceil()
	}
	if bounds.Min < 1 {
		bounds.Min = 1
	}
	bounds.Max = (state.StackOf(id.UserID) + state.ContributionOf(id.UserID)).Floor()
	return bounds
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func actionValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

var actionMessages = map[string]map[string]string{
	"user_id": {
		"required": "missing user id",
	},
	"action": {
		"required": "choose an action",
		"oneof":    "unknown action",
	},
	"amount": {
		"gte": "amount must be positive",
	},
}

// ValidateAction checks an outgoing action against the latest snapshot.
// Advisory only: the server decides what is legal.
func ValidateAction(action Action, state GameState, minBet int64) error {
	if err := actionValidator().Struct(action); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			verr := verrs[0]
			msg := "invalid action"
			if fieldMsgs, ok := actionMessages[verr.Field()]; ok {
				if m, ok := fieldMsgs[verr.Tag()]; ok {
					msg = m
				}
			}
			return &ValidationError{Field: verr.Field(), Message: msg}
		}
		return &ValidationError{Message: "invalid action"}
	}
	if !state.Allows(action.Action) {
		return &ValidationError{Field: "action", Message: string(action.Action) + " is not available right now"}
	}
	if !action.Action.NeedsAmount() {
		return nil
	}
	if action.Amount <= 0 {
		return &ValidationError{Field: "amount", Message: "amount must be positive"}
	}
	bounds := ActionBounds(state, Identity{UserID: action.UserID}, action.Action, minBet)
	if !bounds.Contains(action.Amount) {
		return &ValidationError{
			Field:   "amount",
			Message: "amount must be between " + strconv.FormatInt(bounds.Min, 10) + " and " + strconv.FormatInt(bounds.Max, 10),
		}
	}
	return nil
}
