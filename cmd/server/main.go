// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"bunkhaus/internal/auth"
	"bunkhaus/internal/blobstore"
	"bunkhaus/internal/config"
	"bunkhaus/internal/inventory"
	"bunkhaus/internal/membership"
	"bunkhaus/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: "2006-01-02 15:04:05",
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := initTracing(ctx, cfg.OTLPEndpoint)
		if err != nil {
			logger.Error("init tracing", "error", err)
			os.Exit(1)
		}
		defer shutdown(context.Background())
	}

	store, cleanup, err := blobstore.Open(ctx, cfg)
	if err != nil {
		logger.Error("open blob store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	inv := inventory.NewService(store, logger)
	mem := membership.NewService(inv, store, logger)
	au := auth.NewService(store, logger)

	// Loading members reconciles bed occupancy against the member
	// list, healing any drift left by a previous run.
	if err := inv.Load(ctx); err != nil {
		logger.Error("load inventory", "error", err)
		os.Exit(1)
	}
	if err := mem.Load(ctx); err != nil {
		logger.Error("load members", "error", err)
		os.Exit(1)
	}
	if err := au.Load(ctx); err != nil {
		logger.Error("load credentials", "error", err)
		os.Exit(1)
	}

	handler := server.NewRouter(server.Deps{
		Inventory:    inv,
		Membership:   mem,
		Auth:         au,
		AuthRequired: cfg.AuthRequired,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("starting server", "addr", srv.Addr, "backend", string(cfg.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

// initTracing wires the OTLP HTTP exporter and installs the global
// tracer provider.
func initTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}
