// cmd/seed loads a starter asset inventory into the database so a fresh
// deployment has something to monitor. Safe to re-run: rows are upserted.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/couchcryptid/asset-sentinel/internal/adapter/postgres"
	"github.com/couchcryptid/asset-sentinel/internal/domain"
	"github.com/couchcryptid/asset-sentinel/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	logger := observability.NewLogger("info", "text")
	store := postgres.NewStore(pool, logger)
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	for _, a := range starterAssets() {
		if err := store.UpsertAsset(ctx, a); err != nil {
			return err
		}
		fmt.Printf("  seeded %s (%s)\n", a.ID, a.Name)
	}
	fmt.Printf("seeded %d asset(s)\n", len(starterAssets()))
	return nil
}

func ptr(v float64) *float64 { return &v }

func starterAssets() []domain.Asset {
	return []domain.Asset{
		{
			ID: "MUM-WH-01", Name: "Mumbai Central Warehouse", Category: "Logistics Hub",
			Lat: ptr(19.0760), Lon: ptr(72.8777), Importance: 8, RadiusKm: 10,
		},
		{
			ID: "DEL-HU-05", Name: "Delhi Distribution Center", Category: "Distribution",
			Lat: ptr(28.7041), Lon: ptr(77.1025), Importance: 5, RadiusKm: 15,
		},
		{
			ID: "BLR-HQ-99", Name: "Bengaluru Global HQ", Category: "Headquarters",
			Lat: ptr(12.9716), Lon: ptr(77.5946), Importance: 10, RadiusKm: 5,
		},
		{
			ID: "CHE-PT-02", Name: "Chennai Port Operations", Category: "Port Access",
			Lat: ptr(13.0827), Lon: ptr(80.2707), Importance: 9, RadiusKm: 20,
		},
	}
}
