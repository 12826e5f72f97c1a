package server

import (
	"bytes"
	"context"

	"poker-front/internal/render"
	"poker-front/internal/web"

	"github.com/a-h/templ"
)

func renderTableMessages(view render.TableView) []wsHTMLMessage {
	return []wsHTMLMessage{
		htmlMessage("#seats", "inner", renderComponentHTML(web.Seats(view.Seats))),
		htmlMessage("#board", "inner", renderComponentHTML(web.Board(view))),
		htmlMessage("#gameStatus", "inner", renderComponentHTML(web.StatusLine(view))),
		htmlMessage("#controls", "inner", renderComponentHTML(web.Controls(view.Controls))),
	}
}

func renderComponentHTML(component templ.Component) string {
	var buf bytes.Buffer
	if err := component.Render(context.Background(), &buf); err != nil {
		return ""
	}
	return buf.String()
}

func textMessage(target, text string) wsHTMLMessage {
	return htmlMessage(target, "inner", escapeHTML(text))
}

func escapeHTML(value string) string {
	if value == "" {
		return ""
	}
	return templ.EscapeString(value)
}
