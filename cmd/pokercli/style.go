package main

import (
	"fmt"
	"strconv"
	"strings"

	"poker-front/internal/api"
	"poker-front/internal/poker"
	"poker-front/internal/render"

	"github.com/pterm/pterm"
)

// printTable draws opponents on top, the board in the middle and the local
// seat at the bottom.
func printTable(tableID string, view render.TableView) {
	var others []pterm.Panel
	var dashboard []pterm.Panel
	for _, seat := range view.Seats {
		panel := pterm.Panel{Data: seatBox(seat)}
		if seat.Local {
			dashboard = append(dashboard, panel)
			continue
		}
		others = append(others, panel)
	}
	rows := make([][]pterm.Panel, 0, 3)
	if len(others) > 0 {
		rows = append(rows, others)
	}
	rows = append(rows, []pterm.Panel{{Data: boardBox(tableID, view)}})
	if len(dashboard) > 0 {
		rows = append(rows, dashboard)
	}
	if err := pterm.DefaultPanel.WithPanels(rows).Render(); err != nil {
		pterm.Error.Println(err.Error())
	}
}

func seatBox(seat render.Seat) string {
	padding := 4
	if seat.Local {
		padding = 10
	}
	box := pterm.DefaultBox.WithHorizontalPadding(padding).WithTopPadding(1).WithBottomPadding(1)
	title := seat.Username
	if seat.Current {
		title = pterm.LightCyan(title + " *")
	}
	return box.WithTitle(title).WithTitleTopLeft().Sprintf("Stack: %s\nBet: %s\n%s", seat.Stack, seat.Contribution, cardsText(seat.Cards))
}

func boardBox(tableID string, view render.TableView) string {
	box := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	community := cardsText(view.Community)
	if community == "" {
		community = pterm.Gray("no community cards")
	}
	body := fmt.Sprintf("%s\nPot: %s | Current bet: %s\n%s", community, view.Pot, view.CurrentBet, view.Status)
	return box.WithTitle(pterm.LightYellow("|TABLE " + tableID + "|")).WithTitleTopCenter().Sprint(body)
}

func cardsText(cards []render.CardView) string {
	parts := make([]string, 0, len(cards))
	for _, card := range cards {
		switch {
		case card.FaceDown:
			parts = append(parts, pterm.Gray(poker.FaceDown))
		case card.Red:
			parts = append(parts, pterm.LightRed(card.Label))
		default:
			parts = append(parts, card.Label)
		}
	}
	return strings.Join(parts, " ")
}

func waitingText(view render.TableView) string {
	if !view.Started {
		return view.Status
	}
	for _, seat := range view.Seats {
		if seat.Current {
			return pterm.Sprintf("Waiting for %s to act ...", pterm.LightCyan(seat.Username))
		}
	}
	return "Waiting for the next hand ..."
}

func tableRows(tables []poker.TableSummary) pterm.TableData {
	rows := pterm.TableData{{"Table", "Blinds", "Buy-in", "Players"}}
	for _, table := range tables {
		rows = append(rows, []string{
			string(table.ID),
			api.FormatBlinds(table),
			api.FormatAmount(table.BuyIn),
			strconv.Itoa(table.Players),
		})
	}
	return rows
}

func tableOption(table poker.TableSummary) string {
	return fmt.Sprintf("Table %s · %s · buy-in %s · %d players", table.ID, api.FormatBlinds(table), api.FormatAmount(table.BuyIn), table.Players)
}

func controlOption(control render.Control) string {
	label := strings.ToUpper(string(control.Action[:1])) + string(control.Action[1:])
	if control.HasAmount {
		return fmt.Sprintf("%s (%d-%d)", label, control.Min, control.Max)
	}
	return label
}

func parseAmount(text string) (int64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, fmt.Errorf("enter an amount")
	}
	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount must be a whole number")
	}
	return value, nil
}
