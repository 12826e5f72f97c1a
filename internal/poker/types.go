package poker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ID is an identifier the backend may emit as either a JSON string or a JSON
// number. It always marshals as a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*id = ID(value)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(number.String(), 64); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(number.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Amount is a chip count as the backend reports it. Snapshots may carry
// whole numbers written as 15, 15.0 or fractional values like 990.5.
type Amount float64

func (a Amount) String() string {
	return strconv.FormatFloat(float64(a), 'f', -1, 64)
}

// Floor is the largest whole amount not above a.
func (a Amount) Floor() int64 {
	return int64(math.Floor(float64(a)))
}

// Ceil is the smallest whole amount not below a.
func (a Amount) Ceil() int64 {
	return int64(math.Ceil(float64(a)))
}

type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type TableSummary struct {
	ID         ID      `json:"id"`
	SmallBlind float64 `json:"small_blind"`
	BigBlind   float64 `json:"big_blind"`
	BuyIn      float64 `json:"buy_in"`
	Players    int     `json:"players"`
}

type PlayerRef struct {
	UserID   ID     `json:"user_id"`
	Username string `json:"username"`
}

// GameState is one full snapshot of the visible table. Snapshots replace each
// other wholesale; nothing is merged between them.
type GameState struct {
	Community      []string            `json:"community"`
	HoleCards      map[string][]string `json:"hole_cards"`
	Pot            Amount              `json:"pot"`
	Stacks         map[string]Amount   `json:"stacks"`
	CurrentPlayer  ID                  `json:"current_player"`
	CurrentBet     Amount              `json:"current_bet"`
	Contributions  map[string]Amount   `json:"contributions"`
	AllowedActions []ActionName        `json:"allowed_actions"`
	Started        bool                `json:"started"`
	Players        []PlayerRef         `json:"players"`
}

// Allows reports whether name is in the snapshot's allowed actions.
func (s GameState) Allows(name ActionName) bool {
	for _, allowed := range s.AllowedActions {
		if allowed == name {
			return true
		}
	}
	return false
}

func (s GameState) StackOf(userID string) Amount {
	return s.Stacks[userID]
}

func (s GameState) ContributionOf(userID string) Amount {
	return s.Contributions[userID]
}

type frameEnvelope struct {
	GameState
	Error   string `json:"error"`
	Message string `json:"message"`
}

// DecodeGameState decodes one snapshot. A payload that only carries an error
// or message is reported as an ApplicationError.
func DecodeGameState(data []byte) (GameState, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return GameState{}, &ProtocolError{Op: "decode game state", Err: fmt.Errorf("expected a JSON object")}
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return GameState{}, &ProtocolError{Op: "decode game state", Err: err}
	}
	var envelope frameEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return GameState{}, &ProtocolError{Op: "decode game state", Err: err}
	}
	if !hasSnapshotFields(raw) {
		if envelope.Error != "" {
			return GameState{}, &ApplicationError{Message: envelope.Error}
		}
		if envelope.Message != "" {
			return GameState{}, &ApplicationError{Message: envelope.Message}
		}
		return GameState{}, &ProtocolError{Op: "decode game state", Err: fmt.Errorf("payload has no game state fields")}
	}
	return envelope.GameState, nil
}

var snapshotFields = []string{
	"players",
	"allowed_actions",
	"started",
	"pot",
	"community",
	"hole_cards",
	"stacks",
	"current_player",
	"current_bet",
	"contributions",
}

func hasSnapshotFields(raw map[string]json.RawMessage) bool {
	for _, field := range snapshotFields {
		if _, ok := raw[field]; ok {
			return true
		}
	}
	return false
}
