package web

import (
	"context"
	"io"
	"strings"

	"poker-front/internal/poker"
	"poker-front/internal/render"

	"github.com/a-h/templ"
)

// GamePage is the in-game shell. Everything inside it is filled by html
// messages pushed over the page socket.
func GamePage(data GamePageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Table `+esc(data.TableID)+`</title>
  </head>
  <body>
    <main class="game" data-socket="`+esc(data.SocketURL)+`">
      <header>
        <a href="`+esc(LobbyURL(data.UserID, data.Username))+`">Lobby</a>
        <span>Table `+esc(data.TableID)+` · `+esc(data.Username)+`</span>
        <button type="button" id="leaveTable">Leave</button>
      </header>
      <div id="connection" class="status">Connecting...</div>
      <div id="gameStatus" class="status"></div>
      <section id="table" class="table" style="position:relative;width:`+ftoa(data.Layout.Width)+`px;height:`+ftoa(data.Layout.Height)+`px">
        <div id="board" class="board"></div>
        <div id="seats"></div>
      </section>
      <section id="controls" class="controls"></section>
      <div id="actionStatus" class="result"></div>
    </main>
    <script>
      const root = document.querySelector("main.game");
      const connection = document.getElementById("connection");
      const actionStatus = document.getElementById("actionStatus");
      let socket = null;

      function apply(message) {
        if (message.type === "html") {
          const target = document.querySelector(message.target);
          if (target) {
            target.innerHTML = message.html;
          }
        } else if (message.type === "redirect") {
          window.location.href = message.url;
        }
      }

      function connect() {
        socket = new WebSocket(root.dataset.socket);
        socket.onopen = () => { connection.textContent = ""; };
        socket.onmessage = (event) => {
          const payload = JSON.parse(event.data);
          (Array.isArray(payload) ? payload : [payload]).forEach(apply);
        };
        socket.onclose = () => {
          connection.textContent = "Disconnected.";
          document.querySelectorAll("#controls button").forEach((b) => { b.disabled = true; });
        };
      }

      function send(message) {
        if (!socket || socket.readyState !== WebSocket.OPEN) {
          actionStatus.textContent = "Not connected";
          return;
        }
        socket.send(JSON.stringify(message));
      }

      document.getElementById("controls").addEventListener("change", (event) => {
        const input = event.target.closest("input[type=number]");
        if (!input) {
          return;
        }
        const min = Number(input.min), max = Number(input.max);
        let value = Math.floor(Number(input.value));
        if (Number.isNaN(value) || value < min) value = min;
        if (value > max) value = max;
        input.value = value;
      });

      document.getElementById("controls").addEventListener("click", (event) => {
        const button = event.target.closest("button[data-action]");
        if (!button || button.disabled) {
          return;
        }
        const message = { action: button.dataset.action };
        const input = document.querySelector("input[data-amount-for='" + button.dataset.action + "']");
        if (input) {
          message.amount = Number(input.value);
        }
        actionStatus.textContent = "";
        send(message);
      });

      document.getElementById("leaveTable").addEventListener("click", () => send({ action: "leave" }));
      window.addEventListener("beforeunload", () => { if (socket) socket.close(); });
      connect();
    </script>
  </body>
</html>
`)
		return err
	})
}

func Seats(seats []render.Seat) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		for _, seat := range seats {
			classes := "seat"
			if seat.Local {
				classes += " seat-local"
			}
			if seat.Current {
				classes += " seat-current"
			}
			b.WriteString(`<div class="` + classes + `" data-user-id="` + esc(seat.UserID) + `" style="position:absolute;left:` + ftoa(seat.X) + `px;top:` + ftoa(seat.Y) + `px">`)
			b.WriteString(`<div class="seat-name">` + esc(seat.Username) + `</div>`)
			b.WriteString(`<div class="seat-stack">` + seat.Stack.String() + `</div>`)
			if seat.Contribution > 0 {
				b.WriteString(`<div class="seat-bet">` + seat.Contribution.String() + `</div>`)
			}
			b.WriteString(`<div class="seat-cards">`)
			writeCards(&b, seat.Cards)
			b.WriteString(`</div></div>`)
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func Board(view render.TableView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="community">`)
		writeCards(&b, view.Community)
		b.WriteString(`</div>`)
		b.WriteString(`<div class="pot">Pot ` + view.Pot.String() + `</div>`)
		b.WriteString(`<div class="current-bet">Current bet ` + view.CurrentBet.String() + `</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func StatusLine(view render.TableView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		text := view.Status
		if view.YourTurn {
			text += " · Your turn"
		}
		_, err := io.WriteString(w, esc(text))
		return err
	})
}

// Controls renders every action; only those the snapshot allows are enabled.
func Controls(controls []render.Control) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		for _, control := range controls {
			disabled := ""
			if !control.Enabled {
				disabled = ` disabled`
			}
			name := string(control.Action)
			b.WriteString(`<span class="control">`)
			if control.HasAmount {
				b.WriteString(`<input type="number" step="1" data-amount-for="` + esc(name) + `" min="` + i64toa(control.Min) + `" max="` + i64toa(control.Max) + `" value="` + i64toa(control.Default) + `"` + disabled + `/>`)
			}
			b.WriteString(`<button type="button" data-action="` + esc(name) + `"` + disabled + `>` + esc(actionLabel(control.Action)) + `</button>`)
			b.WriteString(`</span>`)
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeCards(b *strings.Builder, cards []render.CardView) {
	for _, card := range cards {
		switch {
		case card.FaceDown:
			b.WriteString(`<span class="card card-back">` + poker.FaceDown + `</span>`)
		case card.Red:
			b.WriteString(`<span class="card card-red">` + esc(card.Label) + `</span>`)
		default:
			b.WriteString(`<span class="card">` + esc(card.Label) + `</span>`)
		}
	}
}

func actionLabel(name poker.ActionName) string {
	value := string(name)
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
