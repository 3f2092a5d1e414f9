// Package monitor drives the analysis pipeline across all assets on a
// fixed cadence and dispatches alerts above the configured threshold.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/asset-sentinel/internal/domain"
	"github.com/couchcryptid/asset-sentinel/internal/observability"
	"github.com/jonboulle/clockwork"
)

// AssetAnalyzer evaluates one asset against a registry snapshot.
type AssetAnalyzer interface {
	AnalyzeAsset(ctx context.Context, reg *domain.Registry, asset domain.Asset) (domain.AnalysisRun, error)
}

// RunPublisher publishes completed analysis runs downstream. A nil
// publisher disables publication.
type RunPublisher interface {
	Publish(ctx context.Context, run domain.AnalysisRun) error
}

// Config holds the scheduler's tuning knobs.
type Config struct {
	Recipient     string
	RiskThreshold int
	Interval      time.Duration

	// AlertCooldown suppresses repeat alerts per asset within the window.
	// Zero disables suppression: a sustained threat re-alerts every tick.
	AlertCooldown time.Duration
}

// Scheduler runs the scan loop: one immediate scan at startup, then one
// per interval until the context is cancelled. Per-asset failures are
// isolated so one asset can never abort a tick.
type Scheduler struct {
	cfg       Config
	store     domain.Store
	analyzer  AssetAnalyzer
	alerts    domain.AlertSender
	publisher RunPublisher
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	ready atomic.Bool

	// lastAlert tracks the most recent successful dispatch per asset for
	// cooldown checks. Only touched from the scan loop.
	lastAlert map[string]time.Time
}

// New creates a Scheduler.
func New(cfg Config, store domain.Store, analyzer AssetAnalyzer, alerts domain.AlertSender, publisher RunPublisher, clk clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		store:     store,
		analyzer:  analyzer,
		alerts:    alerts,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
		metrics:   metrics,
		lastAlert: make(map[string]time.Time),
	}
}

// CheckReadiness returns nil once the scheduler has completed at least one
// scan cycle.
func (s *Scheduler) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no scan cycle completed yet")
	}
	return nil
}

// Run executes the scan loop until the context is cancelled. The first
// scan starts immediately; subsequent scans follow the configured
// interval.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("monitor started",
		"interval", s.cfg.Interval,
		"risk_threshold", s.cfg.RiskThreshold,
		"recipient", s.cfg.Recipient,
	)

	if err := s.Scan(ctx); err != nil && ctx.Err() != nil {
		return nil
	}

	ticker := s.clock.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("monitor stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if err := s.Scan(ctx); err != nil && ctx.Err() != nil {
				return nil
			}
		}
	}
}

// Scan runs one full cycle across all assets. The registry is snapshotted
// once at cycle start, so a concurrent configuration change is only
// observed by the next tick. Returns an error only when the asset set
// cannot be loaded or the context is cancelled.
func (s *Scheduler) Scan(ctx context.Context) error {
	start := s.clock.Now()
	s.metrics.ScanRunning.Set(1)
	defer s.metrics.ScanRunning.Set(0)

	assets, err := s.store.ListAssets(ctx)
	if err != nil {
		s.metrics.PersistenceErrors.Inc()
		s.logger.Error("asset listing failed, skipping scan", "error", err)
		return fmt.Errorf("list assets: %w", err)
	}

	reg := domain.NewRegistry(assets)
	s.logger.Info("scan started", "assets", reg.Len())

	for _, asset := range reg.Assets() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !asset.Located() {
			s.logger.Debug("skipping unlocated asset", "asset", asset.Name)
			continue
		}
		s.scanAsset(ctx, reg, asset)
	}

	s.metrics.ScansTotal.Inc()
	s.metrics.ScanDuration.Observe(s.clock.Since(start).Seconds())
	s.ready.Store(true)
	s.logger.Info("scan complete", "duration", s.clock.Since(start))
	return nil
}

// scanAsset evaluates, persists, publishes, and possibly alerts for one
// asset. All failures are logged and absorbed here.
func (s *Scheduler) scanAsset(ctx context.Context, reg *domain.Registry, asset domain.Asset) {
	run, err := s.analyzer.AnalyzeAsset(ctx, reg, asset)
	if err != nil {
		s.metrics.AssetScanErrors.Inc()
		s.logger.Error("asset evaluation failed", "asset", asset.Name, "error", err)
		return
	}

	s.metrics.AssetsScanned.Inc()
	s.metrics.AssetMaxRisk.WithLabelValues(asset.Name).Set(float64(run.MaxRiskScore))
	s.logger.Info("asset evaluated",
		"asset", asset.Name,
		"threats", len(run.Threats),
		"max_risk_score", run.MaxRiskScore,
	)

	itemIDs := s.persist(ctx, &run)
	s.publish(ctx, run)
	s.maybeAlert(ctx, asset, run, itemIDs)
}

// persist writes the run row and then the item rows, returning the item
// ids in threat order (nil when either write failed). The two writes are
// not transactional; readers tolerate a run without items.
func (s *Scheduler) persist(ctx context.Context, run *domain.AnalysisRun) []string {
	id, err := s.store.SaveAnalysisRun(ctx, *run)
	if err != nil {
		s.metrics.PersistenceErrors.Inc()
		s.logger.Error("analysis run save failed", "asset", run.AssetName, "error", err)
		return nil
	}
	run.ID = id

	if len(run.Threats) == 0 {
		return nil
	}
	itemIDs, err := s.store.SaveThreatItems(ctx, id, run.Threats)
	if err != nil {
		s.metrics.PersistenceErrors.Inc()
		s.logger.Error("threat items save failed", "run_id", id, "error", err)
		return nil
	}
	return itemIDs
}

func (s *Scheduler) publish(ctx context.Context, run domain.AnalysisRun) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, run); err != nil {
		s.logger.Warn("run publication failed", "asset", run.AssetName, "error", err)
	}
}

// maybeAlert dispatches one notification for the asset's highest-scoring
// threat when the max risk score strictly exceeds the threshold, and
// records the outcome. itemIDs links the alert record to the persisted
// threat row when persistence succeeded.
func (s *Scheduler) maybeAlert(ctx context.Context, asset domain.Asset, run domain.AnalysisRun, itemIDs []string) {
	if run.MaxRiskScore <= s.cfg.RiskThreshold {
		return
	}
	topIdx := run.TopThreatIndex()
	if topIdx < 0 {
		return
	}
	top := &run.Threats[topIdx]

	if s.cfg.AlertCooldown > 0 {
		if last, ok := s.lastAlert[asset.ID]; ok && s.clock.Since(last) < s.cfg.AlertCooldown {
			s.logger.Info("alert suppressed by cooldown",
				"asset", asset.Name, "last_alert", last)
			return
		}
	}

	location := run.Weather.Location
	if location == "" {
		location = asset.Name
	}
	payload := domain.AlertPayload{
		AssetName: asset.Name,
		Score:     run.MaxRiskScore,
		Location:  fmt.Sprintf("%s (Temp: %gC)", location, run.Weather.TempC),
		Summary:   top.Assessment.Reasoning,
		Action:    top.Assessment.Action,
	}

	status := domain.AlertStatusSent
	if err := s.alerts.Send(ctx, s.cfg.Recipient, payload); err != nil {
		status = domain.AlertStatusFailed
		s.metrics.AlertsDispatched.WithLabelValues(status).Inc()
		s.logger.Error("alert dispatch failed", "asset", asset.Name, "error", err)
	} else {
		s.metrics.AlertsDispatched.WithLabelValues(status).Inc()
		s.logger.Info("alert dispatched",
			"asset", asset.Name,
			"recipient", s.cfg.Recipient,
			"max_risk_score", run.MaxRiskScore,
		)
		s.lastAlert[asset.ID] = s.clock.Now()
	}

	var threatID *string
	if topIdx < len(itemIDs) {
		threatID = &itemIDs[topIdx]
	}
	if _, err := s.store.SaveAlert(ctx, domain.NewAlert(threatID, "email", s.cfg.Recipient, status)); err != nil {
		s.metrics.PersistenceErrors.Inc()
		s.logger.Error("alert record save failed", "asset", asset.Name, "error", err)
	}
}
