package http

import (
	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dkovalsky/relaychat/internal/transport"
)

// NewWSHandler upgrades the request and bridges the websocket into the shared
// line-protocol handler. Each text frame carries newline-terminated UTF-8,
// exactly what a TCP peer would send, so websocket.NetConn makes the two
// transports indistinguishable to the session logic.
func NewWSHandler(handler *transport.Handler, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("ws accept error")
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := c.Request.Context()
		handler.Serve(ctx, websocket.NetConn(ctx, conn, websocket.MessageText))

		conn.Close(websocket.StatusNormalClosure, "closing")
	}
}
