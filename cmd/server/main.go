package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkovalsky/relaychat/internal/app"
	"github.com/dkovalsky/relaychat/internal/config"
	"github.com/dkovalsky/relaychat/internal/log"
)

func main() {
	defaults := config.Default()

	configPath := flag.String("config", "", "path to config file")
	addr := flag.String("addr", defaults.TCPAddr, "TCP listen address")
	httpAddr := flag.String("http-addr", defaults.HTTPAddr, "HTTP listen address")
	shutdownTimeout := flag.Duration("shutdown-timeout", defaults.ShutdownTimeout, "graceful shutdown timeout")
	logLevel := flag.String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	flag.Parse()

	bootLogger := log.New("info")

	cfg, cfgPath, err := config.Load(bootLogger, *configPath)
	if err != nil {
		bootLogger.Fatal().Err(err).Str("path", cfgPath).Msg("failed to load config")
	}

	// Flags set on the command line win over config file and env values.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.TCPAddr = *addr
		case "http-addr":
			cfg.HTTPAddr = *httpAddr
		case "shutdown-timeout":
			cfg.ShutdownTimeout = *shutdownTimeout
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	logger := log.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, logger)

	logger.Info().Str("tcp_addr", cfg.TCPAddr).Str("http_addr", cfg.HTTPAddr).Msg("starting relaychat server")
	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}
