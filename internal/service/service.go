// Package service wires the record store, counters, analytics, retention and
// health components behind the surface the web layer calls.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/derekgallardo01/music-genie/internal/adapter/repo"
	"github.com/derekgallardo01/music-genie/internal/cleanup"
	"github.com/derekgallardo01/music-genie/internal/domain"
	"github.com/derekgallardo01/music-genie/internal/health"
	"github.com/derekgallardo01/music-genie/internal/infra"
	"github.com/derekgallardo01/music-genie/internal/stats"
	"github.com/derekgallardo01/music-genie/internal/storage"
)

// Service owns the shared connection pool and exposes the storage core's
// operations. Construct once per process; Close releases the pool.
type Service struct {
	pool         *infra.Pool
	generations  domain.GenerationRepository
	interactions domain.InteractionRepository
	metrics      domain.MetricsRepository
	usage        domain.UsageStatsRepository
	aggregator   *stats.Aggregator
	cleaner      *cleanup.Cleaner
	scorer       *health.Scorer
	log          zerolog.Logger
}

// New assembles the service around an initialized pool.
func New(pool *infra.Pool, cfg *infra.Config, log zerolog.Logger) *Service {
	store := storage.NewArtifactStore(cfg.AudioURLPrefix)
	gens := repo.NewGenerationRepository(pool, store, log)
	interactions := repo.NewInteractionRepository(pool, log)
	metrics := repo.NewMetricsRepository(pool)

	return &Service{
		pool:         pool,
		generations:  gens,
		interactions: interactions,
		metrics:      metrics,
		usage:        repo.NewUsageStatsRepository(pool),
		aggregator:   stats.NewAggregator(gens, log),
		cleaner:      cleanup.NewCleaner(gens, store, log),
		scorer:       health.NewScorer(metrics, gens, log),
		log:          log,
	}
}

// CreateRecord persists one validated generation record.
func (s *Service) CreateRecord(ctx context.Context, in domain.GenerationInput, artifactPath string) (*domain.GenerationRecord, error) {
	return s.generations.Create(ctx, in, artifactPath)
}

// GetRecent returns the newest records, reconciling stored artifact sizes.
func (s *Service) GetRecent(ctx context.Context, limit int, includeFailed bool) ([]domain.GenerationRecord, error) {
	return s.generations.Recent(ctx, limit, includeFailed)
}

// GetMostPlayed returns completed records ordered by play count.
func (s *Service) GetMostPlayed(ctx context.Context, limit int) ([]domain.GenerationRecord, error) {
	return s.generations.MostPlayed(ctx, limit)
}

// Search matches prompts against the query.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]domain.GenerationRecord, error) {
	return s.generations.Search(ctx, query, limit)
}

// GetFavorites returns completed, favorited records.
func (s *Service) GetFavorites(ctx context.Context, limit int) ([]domain.GenerationRecord, error) {
	return s.generations.Favorites(ctx, limit)
}

// RecordPlay increments a record's play counter.
func (s *Service) RecordPlay(ctx context.Context, generationID string, playDuration *float64) (bool, error) {
	return s.interactions.RecordPlay(ctx, generationID, playDuration)
}

// RecordDownload increments a record's download counter.
func (s *Service) RecordDownload(ctx context.Context, generationID string) (bool, error) {
	return s.interactions.RecordDownload(ctx, generationID)
}

// ToggleFavorite flips a record's favorited flag.
func (s *Service) ToggleFavorite(ctx context.Context, generationID string) (bool, error) {
	return s.interactions.ToggleFavorite(ctx, generationID)
}

// GetStats computes the trailing-window report.
func (s *Service) GetStats(ctx context.Context, days int) stats.Report {
	return s.aggregator.Report(ctx, days)
}

// SnapshotDailyUsage rolls up today's activity and persists it, replacing any
// earlier rollup for the same day.
func (s *Service) SnapshotDailyUsage(ctx context.Context) (domain.UsageSnapshot, error) {
	snap, err := s.aggregator.DailySnapshot(ctx)
	if err != nil {
		return domain.UsageSnapshot{}, err
	}
	if err := s.usage.UpsertDaily(ctx, snap); err != nil {
		return domain.UsageSnapshot{}, err
	}
	return snap, nil
}

// Cleanup runs the retention policy.
func (s *Service) Cleanup(ctx context.Context, daysToKeep int, keepFavorites, dryRun bool) (cleanup.Report, error) {
	return s.cleaner.Run(ctx, daysToKeep, keepFavorites, dryRun)
}

// GetHealth derives the composite health signal.
func (s *Service) GetHealth(ctx context.Context) health.Report {
	return s.scorer.Check(ctx)
}

// Metrics exposes the monitoring sample repository for the collector.
func (s *Service) Metrics() domain.MetricsRepository {
	return s.metrics
}

// GetPoolStatus returns pool utilization for operational monitoring.
func (s *Service) GetPoolStatus() infra.PoolStatus {
	return s.pool.Status()
}

// Close tears down the connection pool.
func (s *Service) Close() {
	s.pool.Close()
}
