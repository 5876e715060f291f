package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	cmdinternal "github.com/spacelift-io/workdayscalr/cmd/internal"
	"github.com/spacelift-io/workdayscalr/internal"
	"github.com/spacelift-io/workdayscalr/internal/tracing"
)

// KEDA external scaler keeping workloads up during a time window on the Nth
// working day of each month.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Fail fast on misconfiguration.
	var cfg internal.RuntimeConfig
	if err := cfg.Parse(); err != nil {
		logger.Error("failed to parse configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracer(ctx, logger, "workdayscalr", string(cfg.TracingExporter))
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	err = cmdinternal.Run(ctx, logger, &cfg)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("error shutting down tracer provider", "error", shutdownErr)
	}

	if err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
