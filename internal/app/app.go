package app

import (
	"context"
	stdhttp "net/http"

	"github.com/rs/zerolog"

	"github.com/dkovalsky/relaychat/internal/config"
	"github.com/dkovalsky/relaychat/internal/core"
	"github.com/dkovalsky/relaychat/internal/transport"
	transporthttp "github.com/dkovalsky/relaychat/internal/transport/http"
	"github.com/dkovalsky/relaychat/internal/transport/tcp"
)

// App wires together the registry, the TCP listener, and the HTTP side.
type App struct {
	cfg        config.Config
	tcpServer  *tcp.Server
	httpServer *stdhttp.Server
	log        *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	reg := core.NewRegistry(cfg.RoomIDs(), cfg.OutboxCapacity, core.WithRoomCapacity(cfg.RoomCapacity))
	disp := core.NewDispatcher(reg, cfg.LobbyRoom)
	handler := transport.NewHandler(reg, disp, logger, cfg.DrainGrace)

	logger.Info().
		Int("rooms", len(cfg.RoomIDs())).
		Str("lobby", cfg.LobbyRoom).
		Msg("registry provisioned")

	return &App{
		cfg:        cfg,
		tcpServer:  tcp.NewServer(cfg.TCPAddr, handler, logger),
		httpServer: transporthttp.NewServer(reg, handler, &cfg, logger),
		log:        logger,
	}
}

// Run starts both listeners and blocks until context cancellation or a fatal
// listener error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 2)

	go func() {
		serverErr <- a.tcpServer.Run(ctx)
	}()

	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.stop(context.Background())
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down")
		a.stop(shutdownCtx)
		return <-serverErr
	}
}

func (a *App) stop(ctx context.Context) {
	a.tcpServer.Close()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Warn().Err(err).Msg("http shutdown error")
	}
}
