package health

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/derekgallardo01/music-genie/internal/domain"
)

// Status buckets for the composite score.
const (
	StatusHealthy  = "healthy"
	StatusWarning  = "warning"
	StatusCritical = "critical"
	StatusUnknown  = "unknown"
)

// RecentActivity summarizes the trailing hour of generation work.
type RecentActivity struct {
	TotalGenerations int     `json:"total_generations"`
	Successful       int     `json:"successful"`
	Failed           int     `json:"failed"`
	SuccessRate      float64 `json:"success_rate"`
}

// Report carries the composite health signal. A computation failure yields
// score 0 and status unknown with Error set; it never propagates.
type Report struct {
	HealthScore    int                   `json:"health_score"`
	Status         string                `json:"status"`
	LatestMetrics  *domain.MetricsSample `json:"latest_metrics"`
	RecentActivity RecentActivity        `json:"recent_activity"`
	CheckedAt      time.Time             `json:"checked_at"`
	Error          string                `json:"error,omitempty"`
}

// MetricsSource yields the latest monitoring sample.
type MetricsSource interface {
	Latest(ctx context.Context) (*domain.MetricsSample, error)
}

// ActivitySource yields trailing-window generation counts.
type ActivitySource interface {
	CountsSince(ctx context.Context, since time.Time) (domain.WindowCounts, error)
}

// Scorer derives a 0-100 health score from the latest metrics sample and the
// last hour of generation activity.
type Scorer struct {
	metrics MetricsSource
	gens    ActivitySource
	log     zerolog.Logger
	now     func() time.Time
}

// NewScorer constructs the health scorer.
func NewScorer(metrics MetricsSource, gens ActivitySource, log zerolog.Logger) *Scorer {
	return &Scorer{metrics: metrics, gens: gens, log: log, now: time.Now}
}

// Check computes the current health report. Penalties: CPU > 80% and
// memory > 85% cost 20 each, error rate > 10% costs 30, and a trailing-hour
// failure ratio above 20% costs a further 30. The score floors at 0.
func (s *Scorer) Check(ctx context.Context) Report {
	now := s.now().UTC()

	latest, err := s.metrics.Latest(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return s.unknown(now, err)
	}

	counts, err := s.gens.CountsSince(ctx, now.Add(-time.Hour))
	if err != nil {
		return s.unknown(now, err)
	}

	score := 100
	if latest != nil {
		if latest.CPUUsage != nil && *latest.CPUUsage > 80 {
			score -= 20
		}
		if latest.MemoryUsage != nil && *latest.MemoryUsage > 85 {
			score -= 20
		}
		if latest.ErrorRate > 0.1 {
			score -= 30
		}
	}
	if counts.Total > 0 && float64(counts.Failed)/float64(counts.Total) > 0.2 {
		score -= 30
	}
	if score < 0 {
		score = 0
	}

	status := StatusCritical
	switch {
	case score >= 80:
		status = StatusHealthy
	case score >= 50:
		status = StatusWarning
	}

	denom := counts.Total
	if denom < 1 {
		denom = 1
	}
	return Report{
		HealthScore:   score,
		Status:        status,
		LatestMetrics: latest,
		RecentActivity: RecentActivity{
			TotalGenerations: counts.Total,
			Successful:       counts.Completed,
			Failed:           counts.Failed,
			SuccessRate:      float64(counts.Completed) / float64(denom) * 100,
		},
		CheckedAt: now,
	}
}

func (s *Scorer) unknown(now time.Time, err error) Report {
	s.log.Error().Err(err).Msg("health check failed")
	return Report{
		HealthScore: 0,
		Status:      StatusUnknown,
		CheckedAt:   now,
		Error:       err.Error(),
	}
}
