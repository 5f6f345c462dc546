package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"grimm.is/wafplan/internal/logging"
	"grimm.is/wafplan/internal/server"
)

// RunServe runs the compile API until interrupted.
func RunServe(addr string, jsonLogs bool, debug bool) error {
	cfg := logging.DefaultConfig()
	cfg.JSON = jsonLogs
	if debug {
		cfg.Level = logging.LevelDebug
	}
	logger := logging.New(cfg)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(logger).ListenAndServe(ctx, addr)
}
