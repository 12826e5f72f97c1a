package web

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

func LobbyPage(data LobbyData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Poker Lobby</title>
  </head>
  <body>
    <main class="shell" data-user-id="` + esc(data.UserID) + `" data-username="` + esc(data.Username) + `">
      <header class="hero">
        <h1>Poker Lobby</h1>
        <p>Playing as <strong>` + esc(data.Username) + `</strong>`)
		if data.Balance != "" {
			b.WriteString(` · Balance <span id="balance">` + esc(data.Balance) + `</span>`)
		}
		b.WriteString(`</p>
      </header>
      <section class="panel">
        <label for="level">Stakes</label>
        <select id="level" name="level">`)
		for _, level := range data.Levels {
			selected := ""
			if level == data.Level {
				selected = ` selected`
			}
			b.WriteString(`<option value="` + esc(level) + `"` + selected + `>` + esc(level) + `</option>`)
		}
		b.WriteString(`</select>
        <div id="lobbyStatus" class="result">` + esc(data.Flash) + `</div>
        <div id="tableList">`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := TableList(data.Tables, data.Error).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>
      </section>
    </main>
    <script>
      const shell = document.querySelector("main.shell");
      const status = document.getElementById("lobbyStatus");
      const list = document.getElementById("tableList");
      const level = document.getElementById("level");
      const query = "user_id=" + encodeURIComponent(shell.dataset.userId) + "&username=" + encodeURIComponent(shell.dataset.username);
      let joining = false;

      async function loadTables() {
        status.textContent = "";
        try {
          const res = await fetch("/lobby/tables?level=" + encodeURIComponent(level.value) + "&" + query);
          list.innerHTML = await res.text();
        } catch (err) {
          status.textContent = "Failed to load tables.";
        }
      }

      level.addEventListener("change", loadTables);

      list.addEventListener("click", async (event) => {
        const button = event.target.closest("[data-join]");
        if (!button || joining) {
          return;
        }
        joining = true;
        status.textContent = "Joining table...";
        try {
          const res = await fetch("/lobby/join?" + query, {
            method: "POST",
            headers: { "Content-Type": "application/json" },
            body: JSON.stringify({ table_id: button.dataset.join })
          });
          const data = await res.json();
          if (data.success && data.redirect) {
            window.location.href = data.redirect;
            return;
          }
          status.textContent = data.message || data.error || "Failed to join table.";
        } catch (err) {
          status.textContent = "Failed to join table.";
        } finally {
          joining = false;
        }
      });
    </script>
  </body>
</html>
`)
		return err
	})
}

// TableList is replaced wholesale on every load or stakes change.
func TableList(tables []TableCard, loadError string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		if loadError != "" {
			b.WriteString(`<p class="empty">` + esc(loadError) + `</p>`)
			_, err := io.WriteString(w, b.String())
			return err
		}
		if len(tables) == 0 {
			_, err := io.WriteString(w, `<p class="empty">No tables at these stakes yet.</p>`)
			return err
		}
		b.WriteString(`<ul class="tables">`)
		for _, table := range tables {
			b.WriteString(`<li class="table-card" data-table-id="` + esc(table.ID) + `">`)
			b.WriteString(`<span class="table-name">Table ` + esc(table.ID) + `</span>`)
			b.WriteString(`<span class="blinds">Blinds ` + esc(table.Blinds) + `</span>`)
			b.WriteString(`<span class="buy-in">Buy-in ` + esc(table.BuyIn) + `</span>`)
			b.WriteString(`<span class="players">` + itoa(table.Players) + ` seated</span>`)
			b.WriteString(`<button type="button" class="primary" data-join="` + esc(table.ID) + `">Join</button>`)
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
