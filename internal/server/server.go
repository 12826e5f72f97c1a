package server

import (
	"net/http"
	"time"

	"poker-front/internal/api"
	"poker-front/internal/config"
	"poker-front/internal/render"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

type Server struct {
	db       *gorm.DB
	cfg      config.Config
	backend  *api.Client
	sessions *sessionStore
	relays   *relayHub
	joins    *joinGuard
	dialer   *websocket.Dialer
}

func New(conn *gorm.DB, cfg config.Config, backend *api.Client) *Server {
	registerValidators()
	return &Server{
		db:       conn,
		cfg:      cfg,
		backend:  backend,
		sessions: newSessionStore(conn),
		relays:   newRelayHub(),
		joins:    newJoinGuard(),
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/", s.handleLobby)
	router.GET("/lobby/tables", s.handleLobbyTables)
	router.POST("/lobby/join", s.handleLobbyJoin)
	router.GET("/game", s.handleGameView)
	router.GET("/ws/game/:tableId", s.handleGameWebsocket)
	router.GET("/account/:op", s.handleAccount)
	router.GET("/tables/:tableId/actions", s.handleActionLog)
	router.GET("/healthz", s.handleHealth)
	return router
}

// Close drops every open relay and its backend session.
func (s *Server) Close() {
	s.relays.CloseAll()
}

func (s *Server) renderOptions() render.Options {
	return render.Options{
		Layout: render.Layout{
			Width:  s.cfg.TableWidth,
			Height: s.cfg.TableHeight,
			Margin: s.cfg.SeatMargin,
		},
		MinBet:    s.cfg.MinBet,
		TableSize: s.cfg.TableSize,
	}
}
