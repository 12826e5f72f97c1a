package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"poker-front/internal/api"
	"poker-front/internal/identity"
	"poker-front/internal/live"
	"poker-front/internal/poker"
	"poker-front/internal/render"

	"github.com/pterm/pterm"
)

const (
	leaveOption        = "Leave table"
	msgLoadTablesError = "Failed to load tables."
	msgJoinError       = "Failed to join table."
)

func main() {
	serverFlag := flag.String("server", envOr("BACKEND_URL", "http://localhost:8000"), "poker backend base URL")
	levelFlag := flag.String("level", envOr("DEFAULT_LEVEL", "beginner"), "stakes level to list")
	tableFlag := flag.String("table", "", "table id to join directly")
	userFlag := flag.String("user_id", "", "user id (overrides stored identity)")
	nameFlag := flag.String("username", "", "display name (overrides stored identity)")
	dbFlag := flag.String("db", identity.DefaultSQLitePath(), "sqlite file for the stored identity")
	pollFlag := flag.Uint("poll", 2, "fallback poll interval in seconds, 0 disables")
	minBetFlag := flag.Int64("min-bet", render.DefaultMinBet, "minimum opening bet")
	flag.Parse()

	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options{
		server:   *serverFlag,
		level:    *levelFlag,
		tableID:  *tableFlag,
		userID:   *userFlag,
		username: *nameFlag,
		dbPath:   *dbFlag,
		poll:     time.Duration(*pollFlag) * time.Second,
		minBet:   *minBetFlag,
	}); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

type options struct {
	server   string
	level    string
	tableID  string
	userID   string
	username string
	dbPath   string
	poll     time.Duration
	minBet   int64
}

func run(ctx context.Context, opts options) error {
	var store identity.Storage
	sqliteStore, err := identity.OpenSQLiteStore(opts.dbPath)
	if err != nil {
		slog.Warn("identity store unavailable, using memory", "path", opts.dbPath, "error", err)
		store = identity.NewMemoryStore()
	} else {
		defer sqliteStore.Close()
		store = sqliteStore
	}
	params := url.Values{}
	if opts.userID != "" {
		params.Set(identity.KeyUserID, opts.userID)
	}
	if opts.username != "" {
		params.Set(identity.KeyUsername, opts.username)
	}
	id := identity.Resolve(params, store)
	pterm.Info.Printfln("Playing as %s (%s)", pterm.LightCyan(id.Username), id.UserID)

	client, err := api.New(opts.server, nil)
	if err != nil {
		return err
	}
	if balance, err := client.GetBalance(ctx, id.UserID); err != nil {
		slog.Warn("balance unavailable", "error", err)
	} else {
		pterm.Info.Printfln("Balance: %s", api.FormatAmount(balance.Balance))
	}

	tableID := strings.TrimSpace(opts.tableID)
	if tableID == "" {
		tableID, err = chooseTable(ctx, client, opts.level)
		if err != nil {
			return err
		}
	}

	spinner, _ := pterm.DefaultSpinner.Start("Joining table " + tableID + " ...")
	result, err := client.JoinTable(ctx, tableID, id.UserID)
	if err != nil {
		spinner.Fail()
		return errors.New(poker.UserMessage(err, msgJoinError))
	}
	if !result.Success {
		spinner.Fail()
		message := result.Message
		if message == "" {
			message = msgJoinError
		}
		return errors.New(message)
	}
	spinner.Success("Joined table " + tableID)

	return play(ctx, client, tableID, id, opts)
}

func chooseTable(ctx context.Context, client *api.Client, level string) (string, error) {
	spinner, _ := pterm.DefaultSpinner.Start("Loading " + level + " tables ...")
	tables, err := client.ListTables(ctx, level)
	if err != nil {
		spinner.Fail()
		return "", errors.New(msgLoadTablesError)
	}
	spinner.Success()
	if len(tables.Tables) == 0 {
		return "", fmt.Errorf("no %s tables available", level)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableRows(tables.Tables)).Render(); err != nil {
		slog.Warn("table render failed", "error", err)
	}
	options := make([]string, 0, len(tables.Tables))
	byOption := make(map[string]string, len(tables.Tables))
	for _, table := range tables.Tables {
		option := tableOption(table)
		options = append(options, option)
		byOption[option] = string(table.ID)
	}
	selected, err := pterm.DefaultInteractiveSelect.WithDefaultText("Select a table").WithOptions(options).Show()
	if err != nil {
		return "", err
	}
	return byOption[selected], nil
}

func play(ctx context.Context, client *api.Client, tableID string, id poker.Identity, opts options) error {
	states := make(chan poker.GameState, 1)
	session, err := live.Open(ctx, live.Config{
		TableID:      tableID,
		Identity:     id,
		Location:     live.LocationFromURL(client.BaseURL()),
		Fetcher:      client,
		PollInterval: opts.poll,
		OnState: func(state poker.GameState) {
			offerLatest(states, state)
		},
		OnError: func(err error) {
			var appErr *poker.ApplicationError
			if errors.As(err, &appErr) {
				pterm.Warning.Println(appErr.Message)
				return
			}
			slog.Warn("table connection problem", "error", err)
		},
		OnConnChange: func(connected bool) {
			if connected {
				slog.Info("live updates connected", "table_id", tableID)
				return
			}
			slog.Warn("live updates lost, polling", "table_id", tableID)
		},
	})
	if err != nil {
		return errors.New(poker.UserMessage(err, "Unable to reach the table."))
	}
	defer session.Close()

	renderOpts := render.DefaultOptions()
	renderOpts.MinBet = opts.minBet
	for {
		var state poker.GameState
		select {
		case <-ctx.Done():
			pterm.Info.Println("Closing table session.")
			return nil
		case state = <-states:
		}
		view := render.Build(state, id, renderOpts)
		printTable(tableID, view)
		if !view.YourTurn {
			pterm.Info.Println(waitingText(view))
			continue
		}
		action, leave, err := promptAction(view, id)
		if err != nil {
			return err
		}
		if leave {
			if err := client.LeaveTable(ctx, tableID, id.UserID); err != nil {
				slog.Warn("leave failed", "error", err)
			}
			pterm.Success.Println("Left table " + tableID)
			return nil
		}
		// Validate against the newest snapshot, which may have moved on while
		// the prompt was open.
		state = latest(states, state)
		if err := poker.ValidateAction(action, state, opts.minBet); err != nil {
			pterm.Error.Println(poker.UserMessage(err, "Invalid action."))
			offerLatest(states, state)
			continue
		}
		if !session.Send(action) {
			pterm.Error.Println("Not connected")
			offerLatest(states, state)
			continue
		}
		slog.Info("action sent", "action", string(action.Action), "amount", action.Amount)
	}
}

// offerLatest replaces any pending snapshot so the loop only sees the newest.
func offerLatest(states chan poker.GameState, state poker.GameState) {
	for {
		select {
		case states <- state:
			return
		default:
		}
		select {
		case <-states:
		default:
		}
	}
}

func latest(states chan poker.GameState, fallback poker.GameState) poker.GameState {
	select {
	case state := <-states:
		return state
	default:
		return fallback
	}
}

func promptAction(view render.TableView, id poker.Identity) (poker.Action, bool, error) {
	enabled := view.EnabledActions()
	options := make([]string, 0, len(enabled)+1)
	byOption := make(map[string]render.Control, len(enabled))
	for _, control := range enabled {
		option := controlOption(control)
		options = append(options, option)
		byOption[option] = control
	}
	options = append(options, leaveOption)
	selected, err := pterm.DefaultInteractiveSelect.WithDefaultText("Select your next action").WithOptions(options).Show()
	if err != nil {
		return poker.Action{}, false, err
	}
	if selected == leaveOption {
		return poker.Action{}, true, nil
	}
	control := byOption[selected]
	var amount int64
	if control.HasAmount {
		for {
			text, err := pterm.DefaultInteractiveTextInput.
				WithDefaultText(fmt.Sprintf("Amount (%d-%d)", control.Min, control.Max)).
				WithDefaultValue(fmt.Sprint(control.Default)).
				Show()
			if err != nil {
				return poker.Action{}, false, err
			}
			amount, err = parseAmount(text)
			if err != nil {
				pterm.Error.Println(err.Error())
				continue
			}
			break
		}
	}
	return poker.NewAction(id.UserID, control.Action, amount), false, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
