// Package render maps a snapshot to a table view model. Build is pure: the
// same snapshot and identity always produce the same view, and every field
// comes from the snapshot it was given.
package render

import (
	"math"
	"strconv"

	"poker-front/internal/poker"
)

const (
	DefaultMinBet    int64 = 10
	DefaultTableSize       = 6
)

type Layout struct {
	Width  float64
	Height float64
	Margin float64
}

var DefaultLayout = Layout{Width: 640, Height: 420, Margin: 60}

type Options struct {
	Layout    Layout
	MinBet    int64
	TableSize int
}

func DefaultOptions() Options {
	return Options{Layout: DefaultLayout, MinBet: DefaultMinBet, TableSize: DefaultTableSize}
}

type CardView struct {
	Code     string
	Label    string
	Red      bool
	FaceDown bool
}

type Seat struct {
	Index        int
	UserID       string
	Username     string
	Local        bool
	Current      bool
	Stack        poker.Amount
	Contribution poker.Amount
	Angle        float64
	X            float64
	Y            float64
	Cards        []CardView
}

type Control struct {
	Action  poker.ActionName
	Enabled bool
	// Amount window for bet/raise; zero otherwise.
	HasAmount bool
	Min       int64
	Max       int64
	Default   int64
}

type TableView struct {
	Seats      []Seat
	Community  []CardView
	Pot        poker.Amount
	CurrentBet poker.Amount
	Started    bool
	Status     string
	YourTurn   bool
	Controls   []Control
}

func Build(state poker.GameState, id poker.Identity, opts Options) TableView {
	if opts.TableSize <= 0 {
		opts.TableSize = DefaultTableSize
	}
	view := TableView{
		Pot:        state.Pot,
		CurrentBet: state.CurrentBet,
		Started:    state.Started,
		Status:     StatusLine(state, opts.TableSize),
		YourTurn:   id.UserID != "" && string(state.CurrentPlayer) == id.UserID,
		Community:  make([]CardView, 0, len(state.Community)),
	}
	for _, code := range state.Community {
		view.Community = append(view.Community, faceUp(code))
	}

	players := SeatOrder(state.Players, id.UserID)
	view.Seats = make([]Seat, 0, len(players))
	for i, player := range players {
		userID := string(player.UserID)
		x, y, angle := SeatPosition(i, len(players), opts.Layout)
		seat := Seat{
			Index:        i,
			UserID:       userID,
			Username:     player.Username,
			Local:        userID == id.UserID,
			Current:      userID != "" && userID == string(state.CurrentPlayer),
			Stack:        state.StackOf(userID),
			Contribution: state.ContributionOf(userID),
			Angle:        angle,
			X:            x,
			Y:            y,
		}
		seat.Cards = HoleCards(state.HoleCards[userID], seat.Local)
		view.Seats = append(view.Seats, seat)
	}
	view.Controls = Controls(state, id, opts.MinBet)
	return view
}

// SeatOrder rotates players so the local player is first. The order is kept
// as-is when the local player is not seated.
func SeatOrder(players []poker.PlayerRef, localID string) []poker.PlayerRef {
	ordered := make([]poker.PlayerRef, 0, len(players))
	start := -1
	for i, player := range players {
		if localID != "" && string(player.UserID) == localID {
			start = i
			break
		}
	}
	if start < 0 {
		return append(ordered, players...)
	}
	ordered = append(ordered, players[start:]...)
	return append(ordered, players[:start]...)
}

// SeatPosition places seat i of n on the table circle. Seat 0 sits at the
// bottom anchor (180°) and the rest follow clockwise:
// angle(i) = 360*i/n + 180, with 0° at the top of the table.
func SeatPosition(i, n int, layout Layout) (x, y, angle float64) {
	if n <= 0 {
		return 0, 0, 0
	}
	angle = math.Mod(360*float64(i)/float64(n)+180, 360)
	radius := math.Min(layout.Width, layout.Height)/2 - layout.Margin
	if radius < 0 {
		radius = 0
	}
	cx, cy := layout.Width/2, layout.Height/2
	theta := angle * math.Pi / 180
	x = round2(cx + radius*math.Sin(theta))
	y = round2(cy - radius*math.Cos(theta))
	return x, y, angle
}

func round2(value float64) float64 {
	rounded := math.Round(value*100) / 100
	if rounded == 0 {
		return 0
	}
	return rounded
}

// HoleCards returns literal cards only when visible is true; otherwise one
// face-down card per card held, with no code attached.
func HoleCards(codes []string, visible bool) []CardView {
	cards := make([]CardView, 0, len(codes))
	for _, code := range codes {
		if !visible {
			cards = append(cards, CardView{Label: poker.FaceDown, FaceDown: true})
			continue
		}
		cards = append(cards, faceUp(code))
	}
	return cards
}

func faceUp(code string) CardView {
	card, err := poker.ParseCard(code)
	if err != nil {
		return CardView{Code: code, Label: code}
	}
	return CardView{Code: code, Label: card.Label(), Red: card.Red()}
}

func StatusLine(state poker.GameState, tableSize int) string {
	if state.Started {
		return "Game in progress"
	}
	return "Waiting for players (" + strconv.Itoa(len(state.Players)) + "/" + strconv.Itoa(tableSize) + ")"
}

// Controls returns one control per known action, enabled only when the
// snapshot allows it.
func Controls(state poker.GameState, id poker.Identity, minBet int64) []Control {
	controls := make([]Control, 0, len(poker.ActionNames))
	for _, name := range poker.ActionNames {
		control := Control{Action: name, Enabled: state.Allows(name)}
		if name.NeedsAmount() {
			bounds := poker.ActionBounds(state, id, name, minBet)
			control.HasAmount = true
			control.Min = bounds.Min
			control.Max = bounds.Max
			control.Default = bounds.Clamp(bounds.Min)
		}
		controls = append(controls, control)
	}
	return controls
}

// EnabledActions lists the actions a player may pick right now.
func (v TableView) EnabledActions() []Control {
	enabled := make([]Control, 0, len(v.Controls))
	for _, control := range v.Controls {
		if control.Enabled {
			enabled = append(enabled, control)
		}
	}
	return enabled
}
