package server

import (
	"log"
	"net/http"
	"strings"

	"poker-front/internal/api"
	"poker-front/internal/identity"
	"poker-front/internal/poker"
	"poker-front/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

const (
	msgLoadTablesFailed = "Failed to load tables."
	msgJoinFailed       = "Failed to join table."
	msgJoinInProgress   = "Join already in progress."
)

func (s *Server) handleLobby(c *gin.Context) {
	var query lobbyQuery
	if !bindQuery(c, &query) {
		return
	}
	id := identity.Resolve(c.Request.URL.Query(), s.sessions.Identity(c.Writer, c.Request))
	level := s.resolveLevel(c, query.Level)
	data := web.LobbyData{
		UserID:   id.UserID,
		Username: id.Username,
		Level:    level,
		Levels:   s.cfg.Levels,
		Flash:    s.sessions.PopFlash(c.Writer, c.Request),
	}
	ctx := c.Request.Context()
	if balance, err := s.backend.GetBalance(ctx, id.UserID); err != nil {
		log.Printf("balance unavailable user_id=%s error=%v", id.UserID, err)
	} else {
		data.Balance = api.FormatAmount(balance.Balance)
	}
	tables, err := s.backend.ListTables(ctx, level)
	if err != nil {
		log.Printf("list tables failed level=%s error=%v", level, err)
		data.Error = msgLoadTablesFailed
	} else {
		data.Tables = tableCards(tables.Tables)
	}
	templ.Handler(web.LobbyPage(data)).ServeHTTP(c.Writer, c.Request)
}

// handleLobbyTables re-renders the whole table list for a stakes change.
func (s *Server) handleLobbyTables(c *gin.Context) {
	var query lobbyQuery
	if !bindQuery(c, &query) {
		return
	}
	level := s.resolveLevel(c, query.Level)
	tables, err := s.backend.ListTables(c.Request.Context(), level)
	if err != nil {
		log.Printf("list tables failed level=%s error=%v", level, err)
		templ.Handler(web.TableList(nil, msgLoadTablesFailed)).ServeHTTP(c.Writer, c.Request)
		return
	}
	templ.Handler(web.TableList(tableCards(tables.Tables), "")).ServeHTTP(c.Writer, c.Request)
}

func (s *Server) handleLobbyJoin(c *gin.Context) {
	id := identity.Resolve(c.Request.URL.Query(), s.sessions.Identity(c.Writer, c.Request))
	var body joinBody
	if !bindJSON(c, &body, joinMessages, msgJoinFailed) {
		return
	}
	tableID := strings.TrimSpace(string(body.TableID))
	if !s.joins.Begin(tableID, id.UserID) {
		writeJSON(c.Writer, http.StatusConflict, joinResponse{Message: msgJoinInProgress})
		return
	}
	defer s.joins.Done(tableID, id.UserID)

	result, err := s.backend.JoinTable(c.Request.Context(), tableID, id.UserID)
	if err != nil {
		log.Printf("join failed table_id=%s user_id=%s error=%v", tableID, id.UserID, err)
		writeJSON(c.Writer, http.StatusBadGateway, joinResponse{Message: msgJoinFailed})
		return
	}
	if err := s.recordJoin(tableID, id.UserID, result); err != nil {
		log.Printf("join record failed table_id=%s user_id=%s error=%v", tableID, id.UserID, err)
	}
	if !result.Success {
		message := result.Message
		if message == "" {
			message = msgJoinFailed
		}
		log.Printf("join rejected table_id=%s user_id=%s message=%q", tableID, id.UserID, message)
		writeJSON(c.Writer, http.StatusOK, joinResponse{Message: message})
		return
	}
	log.Printf("table joined table_id=%s user_id=%s", tableID, id.UserID)
	writeJSON(c.Writer, http.StatusOK, joinResponse{
		Success:  true,
		Message:  result.Message,
		Redirect: web.GameURL(tableID, id.UserID, id.Username),
	})
}

// resolveLevel prefers the requested tier, then the one this browser last
// picked, then the configured default. Tiers outside LEVELS are ignored.
func (s *Server) resolveLevel(c *gin.Context, requested string) string {
	level := strings.TrimSpace(requested)
	if level != "" {
		if s.cfg.HasLevel(level) {
			s.sessions.SetLevel(c.Writer, c.Request, level)
			return level
		}
		log.Printf("unknown level ignored level=%s", level)
	}
	if stored := s.sessions.GetLevel(c.Writer, c.Request); stored != "" && s.cfg.HasLevel(stored) {
		return stored
	}
	return s.cfg.DefaultLevel
}

func tableCards(tables []poker.TableSummary) []web.TableCard {
	cards := make([]web.TableCard, 0, len(tables))
	for _, table := range tables {
		cards = append(cards, web.TableCard{
			ID:      string(table.ID),
			Blinds:  api.FormatBlinds(table),
			BuyIn:   api.FormatAmount(table.BuyIn),
			Players: table.Players,
		})
	}
	return cards
}
