// Package postgres persists assets, analysis runs, threat items, and
// alert records to a PostgreSQL database.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/asset-sentinel/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied idempotently at startup. The service owns its
// tables, so a migration tool would be overkill at this size.
const schema = `
CREATE TABLE IF NOT EXISTS assets (
	id          text PRIMARY KEY,
	name        text NOT NULL,
	category    text NOT NULL DEFAULT '',
	lat         double precision,
	lon         double precision,
	importance  integer NOT NULL DEFAULT 5,
	radius_km   double precision NOT NULL DEFAULT 50
);

CREATE TABLE IF NOT EXISTS analysis_runs (
	id             uuid PRIMARY KEY,
	asset_id       text NOT NULL REFERENCES assets(id),
	asset_name     text NOT NULL,
	risk_topic     text NOT NULL,
	weather        jsonb NOT NULL DEFAULT '{}',
	max_risk_score integer NOT NULL,
	analyzed_at    timestamptz NOT NULL
);

CREATE INDEX IF NOT EXISTS analysis_runs_asset_time
	ON analysis_runs (asset_id, analyzed_at DESC);

CREATE TABLE IF NOT EXISTS threat_items (
	id             uuid PRIMARY KEY,
	run_id         uuid NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
	position       integer NOT NULL,
	headline       text NOT NULL,
	source         text NOT NULL DEFAULT '',
	published_at   timestamptz,
	url            text NOT NULL DEFAULT '',
	summary        text NOT NULL DEFAULT '',
	risk_score     integer NOT NULL,
	severity       text NOT NULL,
	reasoning      text NOT NULL DEFAULT '',
	action         text NOT NULL DEFAULT '',
	impacted_asset text NOT NULL DEFAULT '',
	failed         boolean NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS alerts (
	id        uuid PRIMARY KEY,
	threat_id uuid,
	channel   text NOT NULL,
	recipient text NOT NULL,
	status    text NOT NULL,
	sent_at   timestamptz NOT NULL
);
`

// Store implements domain.Store on a pgx connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Migrate applies the schema. Safe to run on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// ListAssets returns the monitored asset inventory.
func (s *Store) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, category, lat, lon, importance, radius_km
		 FROM assets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Category, &a.Lat, &a.Lon, &a.Importance, &a.RadiusKm); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return assets, nil
}

// UpsertAsset inserts or updates one asset row.
func (s *Store) UpsertAsset(ctx context.Context, a domain.Asset) error {
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO assets (id, name, category, lat, lon, importance, radius_km)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			importance = EXCLUDED.importance,
			radius_km = EXCLUDED.radius_km`,
		a.ID, a.Name, a.Category, a.Lat, a.Lon, a.Importance, a.RadiusKm,
	); err != nil {
		return fmt.Errorf("upsert asset %s: %w", a.ID, err)
	}
	return nil
}

// SaveAnalysisRun inserts the run row and returns its generated id.
func (s *Store) SaveAnalysisRun(ctx context.Context, run domain.AnalysisRun) (string, error) {
	weather, err := json.Marshal(run.Weather)
	if err != nil {
		return "", fmt.Errorf("marshal weather: %w", err)
	}

	id := uuid.NewString()
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO analysis_runs (id, asset_id, asset_name, risk_topic, weather, max_risk_score, analyzed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, run.AssetID, run.AssetName, run.RiskTopic, weather, run.MaxRiskScore, run.AnalyzedAt,
	); err != nil {
		return "", fmt.Errorf("insert analysis run: %w", err)
	}
	return id, nil
}

// SaveThreatItems inserts all scored items for a run in one transaction
// and returns the generated row ids in input order.
func (s *Store) SaveThreatItems(ctx context.Context, runID string, threats []domain.ScoredThreat) ([]string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	ids := make([]string, len(threats))
	for i, t := range threats {
		ids[i] = uuid.NewString()
		var publishedAt any
		if !t.Item.PublishedAt.IsZero() {
			publishedAt = t.Item.PublishedAt
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO threat_items
				(id, run_id, position, headline, source, published_at, url, summary,
				 risk_score, severity, reasoning, action, impacted_asset, failed)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			ids[i], runID, i,
			t.Item.Headline, t.Item.Source, publishedAt, t.Item.URL, t.Item.Summary,
			t.Assessment.RiskScore, t.Assessment.Severity, t.Assessment.Reasoning,
			t.Assessment.Action, t.Assessment.ImpactedAsset, t.Assessment.Failed,
		); err != nil {
			return nil, fmt.Errorf("insert threat item %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit threat items: %w", err)
	}
	return ids, nil
}

// SaveAlert records one alert dispatch attempt and returns its id.
func (s *Store) SaveAlert(ctx context.Context, alert domain.Alert) (string, error) {
	id := uuid.NewString()
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO alerts (id, threat_id, channel, recipient, status, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, alert.ThreatID, alert.Channel, alert.Recipient, alert.Status, alert.SentAt,
	); err != nil {
		return "", fmt.Errorf("insert alert: %w", err)
	}
	return id, nil
}

// LatestAnalysis loads the most recent run for an asset along with its
// threat items. Returns domain.ErrNotFound when the asset has no runs.
func (s *Store) LatestAnalysis(ctx context.Context, assetID string) (*domain.AnalysisRun, error) {
	run := &domain.AnalysisRun{}
	var weather []byte
	if err := s.pool.QueryRow(ctx,
		`SELECT id, asset_id, asset_name, risk_topic, weather, max_risk_score, analyzed_at
		 FROM analysis_runs
		 WHERE asset_id = $1
		 ORDER BY analyzed_at DESC
		 LIMIT 1`, assetID,
	).Scan(&run.ID, &run.AssetID, &run.AssetName, &run.RiskTopic, &weather, &run.MaxRiskScore, &run.AnalyzedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("latest analysis for %s: %w", assetID, err)
	}
	if err := json.Unmarshal(weather, &run.Weather); err != nil {
		return nil, fmt.Errorf("unmarshal weather: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT headline, source, published_at, url, summary,
			risk_score, severity, reasoning, action, impacted_asset, failed
		 FROM threat_items
		 WHERE run_id = $1
		 ORDER BY position`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("load threat items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.ScoredThreat
		var publishedAt *time.Time
		if err := rows.Scan(
			&t.Item.Headline, &t.Item.Source, &publishedAt, &t.Item.URL, &t.Item.Summary,
			&t.Assessment.RiskScore, &t.Assessment.Severity, &t.Assessment.Reasoning,
			&t.Assessment.Action, &t.Assessment.ImpactedAsset, &t.Assessment.Failed,
		); err != nil {
			return nil, fmt.Errorf("scan threat item: %w", err)
		}
		if publishedAt != nil {
			t.Item.PublishedAt = *publishedAt
		}
		run.Threats = append(run.Threats, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate threat items: %w", err)
	}
	return run, nil
}
