package web

import "poker-front/internal/render"

type TableCard struct {
	ID      string
	Blinds  string
	BuyIn   string
	Players int
}

type LobbyData struct {
	UserID   string
	Username string
	Level    string
	Levels   []string
	Balance  string
	Tables   []TableCard
	Error    string
	Flash    string
}

type GamePageData struct {
	TableID   string
	UserID    string
	Username  string
	SocketURL string
	Layout    render.Layout
}
