package transport

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dkovalsky/relaychat/internal/core"
)

// Handler runs the line protocol for one accepted connection at a time. It is
// transport-agnostic: anything that satisfies net.Conn (a TCP socket, a
// websocket wrapped with websocket.NetConn) gets the same session lifecycle.
type Handler struct {
	reg        *core.Registry
	disp       *core.Dispatcher
	log        *zerolog.Logger
	drainGrace time.Duration
}

// NewHandler builds a connection handler. drainGrace bounds how long teardown
// waits for queued outbound lines to flush before force-closing the socket.
func NewHandler(reg *core.Registry, disp *core.Dispatcher, logger *zerolog.Logger, drainGrace time.Duration) *Handler {
	return &Handler{reg: reg, disp: disp, log: logger, drainGrace: drainGrace}
}

// Serve owns conn from registration to teardown. It returns when the peer
// disconnects, sends /quit, a read fails, or ctx is canceled; cleanup runs on
// every path so no session outlives its connection.
func (h *Handler) Serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	clientID, out := h.reg.AllocateClient()
	logger := h.log.With().
		Str("conn_id", uuid.NewString()).
		Int64("client_id", clientID).
		Logger()

	// The identity announcement goes out before the drain goroutine starts,
	// so it is always the first line the peer sees and no chat content can
	// race ahead of it.
	if _, err := fmt.Fprintf(conn, "CLIENT_ID:%d\n", clientID); err != nil {
		h.reg.RemoveClient(clientID)
		logger.Warn().Err(err).Msg("failed to announce client id")
		return
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		h.drain(conn, out, &logger)
	}()

	// Every fresh client starts in the lobby.
	if err := h.reg.JoinRoom(clientID, h.disp.Lobby()); err != nil {
		logger.Error().Err(err).Msg("lobby join failed")
	} else {
		out.TrySend("Welcome to the lobby! Use '/help' for commands")
	}

	logger.Info().Str("remote", remoteAddr(conn)).Msg("client connected")

	// On shutdown the scanner is blocked in a read; closing the conn is what
	// unblocks it.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		res := h.disp.Dispatch(clientID, line)
		for _, reply := range res.Replies {
			out.TrySend(reply)
		}
		if res.Dropped > 0 {
			logger.Debug().Int("dropped", res.Dropped).Msg("broadcast skipped slow recipients")
		}
		if res.Terminate {
			break
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		logger.Warn().Err(err).Msg("read loop ended with error")
	}

	// Closing the outbox (inside RemoveClient) lets the drain goroutine flush
	// whatever is queued, the farewell included; the grace period keeps a
	// vanished peer from stalling teardown.
	h.reg.RemoveClient(clientID)
	select {
	case <-drained:
	case <-time.After(h.drainGrace):
		logger.Warn().Msg("outbound drain did not finish within grace period")
	}

	logger.Info().Msg("client disconnected")
}

// drain is the single consumer of the client's outbox. It terminates when the
// outbox is closed or a write fails; it never re-enters the registry.
func (h *Handler) drain(conn net.Conn, out *core.Outbox, logger *zerolog.Logger) {
	w := bufio.NewWriter(conn)
	for line := range out.Lines() {
		if _, err := w.WriteString(line + "\n"); err != nil {
			logger.Debug().Err(err).Msg("write to client failed")
			return
		}
		if err := w.Flush(); err != nil {
			logger.Debug().Err(err).Msg("write to client failed")
			return
		}
	}
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
