// cmd/drift/main.go
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"bunkhaus/internal/blobstore"
	"bunkhaus/internal/config"
	"bunkhaus/internal/drift"
	"bunkhaus/internal/inventory"
	"bunkhaus/internal/membership"
)

// Runs a drift experiment against the configured store: flips random
// bed flags, reconciles from the member list and verifies the
// occupancy invariant holds again. Exits non-zero when it does not.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.LogLevel}))
	ctx := context.Background()

	store, cleanup, err := blobstore.Open(ctx, cfg)
	if err != nil {
		logger.Error("open blob store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	inv := inventory.NewService(store, logger)
	mem := membership.NewService(inv, store, logger)

	if err := inv.Load(ctx); err != nil {
		logger.Error("load inventory", "error", err)
		os.Exit(1)
	}
	if err := mem.Load(ctx); err != nil {
		logger.Error("load members", "error", err)
		os.Exit(1)
	}

	runner := drift.NewRunner(inv, mem, logger)
	result, err := runner.Run(ctx, drift.DefaultExperiment())
	if err != nil {
		logger.Error("experiment failed", "error", err)
		os.Exit(1)
	}

	json.NewEncoder(os.Stdout).Encode(result)
	if !result.HypothesisHeld {
		logger.Error("hypothesis violated", "drift_after", result.DriftAfter)
		os.Exit(1)
	}
}
