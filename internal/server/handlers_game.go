package server

import (
	"log"
	"net/http"

	"poker-front/internal/api"
	"poker-front/internal/identity"
	"poker-front/internal/live"
	"poker-front/internal/poker"
	"poker-front/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleGameView(c *gin.Context) {
	var query gameQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.sessions.SetFlash(c.Writer, c.Request, "Choose a table first.")
		c.Redirect(http.StatusFound, "/")
		return
	}
	id := identity.Resolve(c.Request.URL.Query(), s.sessions.Identity(c.Writer, c.Request))
	data := web.GamePageData{
		TableID:   query.TableID,
		UserID:    id.UserID,
		Username:  id.Username,
		SocketURL: live.BuildWebSocketURL(query.TableID, id.UserID, id.Username, pageLocation(c.Request)),
		Layout:    s.renderOptions().Layout,
	}
	log.Printf("game view table_id=%s user_id=%s", query.TableID, id.UserID)
	templ.Handler(web.GamePage(data)).ServeHTTP(c.Writer, c.Request)
}

// handleAccount passes the backend's free-text account response through.
func (s *Server) handleAccount(c *gin.Context) {
	var uri accountURI
	if !bindURI(c, &uri) {
		return
	}
	id := identity.Resolve(c.Request.URL.Query(), s.sessions.Identity(c.Writer, c.Request))
	text, err := s.backend.Account(c.Request.Context(), api.AccountOp(uri.Op), id.UserID)
	if err != nil {
		log.Printf("account request failed op=%s user_id=%s error=%v", uri.Op, id.UserID, err)
		writeError(c.Writer, http.StatusBadGateway, poker.UserMessage(err, "Account request failed."))
		return
	}
	c.String(http.StatusOK, text)
}

func (s *Server) handleActionLog(c *gin.Context) {
	var uri tableURI
	if !bindURI(c, &uri) {
		return
	}
	var query actionLogQuery
	if !bindQuery(c, &query) {
		return
	}
	if s.db == nil {
		writeError(c.Writer, http.StatusServiceUnavailable, "action log requires a database")
		return
	}
	query = query.normalized()
	entries, total, err := s.listActions(uri.TableID, query)
	if err != nil {
		log.Printf("action log failed table_id=%s error=%v", uri.TableID, err)
		writeError(c.Writer, http.StatusInternalServerError, "failed to load actions")
		return
	}
	writeJSON(c.Writer, http.StatusOK, gin.H{
		"actions":    entries,
		"pagination": buildActionLogPage(uri.TableID, query, total),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	status := gin.H{"status": "ok", "relays": s.relays.Count()}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status["database"] = "unavailable"
		} else {
			status["database"] = "ok"
		}
	}
	writeJSON(c.Writer, http.StatusOK, status)
}
