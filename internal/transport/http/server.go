package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dkovalsky/relaychat/internal/config"
	"github.com/dkovalsky/relaychat/internal/core"
	"github.com/dkovalsky/relaychat/internal/transport"
)

// NewServer builds the HTTP side: health, room stats, and the websocket
// endpoint that speaks the same line protocol as the TCP listener.
func NewServer(reg *core.Registry, handler *transport.Handler, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler)
	router.GET("/api/rooms", listRoomsHandler(reg))
	router.GET("/ws", NewWSHandler(handler, logger))

	return &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

// RoomsResponse is the /api/rooms payload.
type RoomsResponse struct {
	Rooms   []core.RoomStat `json:"rooms"`
	Clients int             `json:"clients"`
}

// listRoomsHandler reports the provisioned rooms with current occupancy.
// GET /api/rooms
func listRoomsHandler(reg *core.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms, clients := reg.Stats()
		c.JSON(stdhttp.StatusOK, RoomsResponse{Rooms: rooms, Clients: clients})
	}
}
