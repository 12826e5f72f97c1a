package server

import "poker-front/internal/poker"

type lobbyQuery struct {
	Level string `form:"level" binding:"omitempty,level"`
}

type joinBody struct {
	TableID poker.ID `json:"table_id" binding:"required"`
}

type joinResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

type gameQuery struct {
	TableID  string `form:"table_id" binding:"required,max=64"`
	UserID   string `form:"user_id" binding:"omitempty,max=64"`
	Username string `form:"username" binding:"omitempty,max=64"`
}

type tableURI struct {
	TableID string `uri:"tableId" binding:"required,max=64"`
}

type accountURI struct {
	Op string `uri:"op" binding:"required,oneof=deposit withdraw history"`
}

// browserFrame is what the game page sends over its socket.
type browserFrame struct {
	Action string `json:"action"`
	Amount int64  `json:"amount"`
}

const browserLeave = "leave"

type wsHTMLMessage struct {
	Type   string `json:"type"`
	Target string `json:"target,omitempty"`
	Mode   string `json:"mode,omitempty"`
	HTML   string `json:"html,omitempty"`
	URL    string `json:"url,omitempty"`
}

func htmlMessage(target, mode, html string) wsHTMLMessage {
	return wsHTMLMessage{Type: "html", Target: target, Mode: mode, HTML: html}
}

func redirectMessage(url string) wsHTMLMessage {
	return wsHTMLMessage{Type: "redirect", URL: url}
}

type actionLogEntry struct {
	UserID    string `json:"user_id"`
	Action    string `json:"action"`
	Amount    int64  `json:"amount,omitempty"`
	Accepted  bool   `json:"accepted"`
	CreatedAt string `json:"created_at"`
}
