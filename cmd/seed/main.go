// cmd/seed/main.go
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"bunkhaus/internal/auth"
	"bunkhaus/internal/blobstore"
	"bunkhaus/internal/config"
	"bunkhaus/internal/dates"
	"bunkhaus/internal/inventory"
	"bunkhaus/internal/membership"
)

// Seeds the demo credential and a small sample property with a few
// assigned members into the configured blob store.
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
	au := auth.NewService(store, logger)

	if err := au.Seed(ctx, cfg.SeedUsername, cfg.SeedPassword); err != nil {
		logger.Error("seed credential", "error", err)
		os.Exit(1)
	}

	property, err := inv.CreateProperty(ctx, inventory.CreatePropertyRequest{
		Name: "Sunrise PG",
		Type: inventory.TypeHostelPG,
		City: "Pune",
		Area: "Kothrud",
		Buildings: []inventory.BuildingSpec{
			{
				Name: "Main Block",
				Floors: []inventory.FloorSpec{
					{
						Label: "G",
						Rooms: []inventory.RoomSpec{
							{RoomNumber: "101", ShareType: inventory.ShareDouble},
							{RoomNumber: "102", ShareType: inventory.ShareTriple},
						},
					},
					{
						Label: "1",
						Rooms: []inventory.RoomSpec{
							{RoomNumber: "201", ShareType: inventory.ShareSingle},
							{RoomNumber: "202", BedCount: 4},
						},
					},
				},
			},
		},
		BedPricing: []inventory.BedPricing{
			{BedCount: 1, DailyPrice: 500, MonthlyPrice: 9000},
			{BedCount: 2, DailyPrice: 350, MonthlyPrice: 6500},
			{BedCount: 3, DailyPrice: 250, MonthlyPrice: 5000},
			{BedCount: 4, DailyPrice: 200, MonthlyPrice: 4200},
		},
	})
	if err != nil {
		logger.Error("seed property", "error", err)
		os.Exit(1)
	}
	if err := inv.SetActiveProperty(ctx, property.ID); err != nil {
		logger.Error("set active property", "error", err)
		os.Exit(1)
	}

	building := property.Buildings[0]
	ground := building.Floors[0]
	today := dates.FormatISO(dates.Today())

	members := []membership.Member{
		{
			Name:       "Ravi Patil",
			Phone:      "9800000001",
			JoinedDate: today,
			Assignment: &inventory.BedPath{
				PropertyID: property.ID,
				BuildingID: building.ID,
				FloorID:    ground.ID,
				RoomID:     ground.Rooms[0].ID,
				BedID:      "B1",
			},
		},
		{
			Name:         "Suresh Kale",
			Phone:        "9800000002",
			VillageName:  "Wai",
			JoinedDate:   today,
			PaymentCycle: 3,
			Assignment: &inventory.BedPath{
				PropertyID: property.ID,
				BuildingID: building.ID,
				FloorID:    ground.ID,
				RoomID:     ground.Rooms[1].ID,
				BedID:      "B2",
			},
		},
	}
	for _, m := range members {
		if _, err := mem.AddMember(ctx, m); err != nil {
			logger.Error("seed member", "member", m.Name, "error", err)
			os.Exit(1)
		}
	}
	if err := mem.Reconcile(ctx); err != nil {
		logger.Error("reconcile occupancy", "error", err)
		os.Exit(1)
	}

	seeded, _ := inv.GetProperty(ctx, property.ID)
	logger.Info("seeded",
		"property", seeded.Name,
		"rooms", seeded.TotalRooms,
		"beds", seeded.TotalBeds,
		"members", len(members),
	)
}
