package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/derekgallardo01/music-genie/internal/domain"
)

// Window bounds accepted by Report.
const (
	MinDays = 1
	MaxDays = 365
)

// DeviceStats is the per-device slice of a report.
type DeviceStats struct {
	Count   int     `json:"count"`
	AvgTime float64 `json:"avg_time"`
}

// Report is a point-in-time aggregate over a trailing window. When Error is
// set all counts are zero; analytics failures degrade instead of propagating.
type Report struct {
	PeriodDays            int                    `json:"period_days"`
	TotalGenerations      int                    `json:"total_generations"`
	SuccessfulGenerations int                    `json:"successful_generations"`
	FailedGenerations     int                    `json:"failed_generations"`
	SuccessRate           float64                `json:"success_rate"`
	AvgGenerationTime     float64                `json:"avg_generation_time"`
	AvgRealtimeFactor     float64                `json:"avg_realtime_factor"`
	TotalFileSizeMB       float64                `json:"total_file_size_mb"`
	AvgFileSizeMB         float64                `json:"avg_file_size_mb"`
	TotalPlays            int                    `json:"total_plays"`
	TotalDownloads        int                    `json:"total_downloads"`
	TotalFavorites        int                    `json:"total_favorites"`
	DeviceBreakdown       map[string]DeviceStats `json:"device_breakdown"`
	Recent24hGenerations  int                    `json:"recent_24h_generations"`
	CalculatedAt          time.Time              `json:"calculated_at"`
	Error                 string                 `json:"error,omitempty"`
}

// RecordSource is the slice of the record store the aggregator reads.
type RecordSource interface {
	CountsSince(ctx context.Context, since time.Time) (domain.WindowCounts, error)
	AggregatesSince(ctx context.Context, since time.Time) (domain.WindowAggregates, error)
	DeviceBreakdownSince(ctx context.Context, since time.Time) ([]domain.DeviceAggregate, error)
	UniqueUsersSince(ctx context.Context, since time.Time) (int, error)
}

// Aggregator computes windowed statistics over the record store.
type Aggregator struct {
	gens RecordSource
	log  zerolog.Logger
	now  func() time.Time
}

// NewAggregator constructs the aggregator.
func NewAggregator(gens RecordSource, log zerolog.Logger) *Aggregator {
	return &Aggregator{gens: gens, log: log, now: time.Now}
}

// Report computes statistics over the trailing window of days, clamped to
// [1, 365]. The underlying queries run concurrently; each is individually
// snapshot-consistent, which is the accepted consistency level for analytics.
func (a *Aggregator) Report(ctx context.Context, days int) Report {
	if days < MinDays {
		days = MinDays
	}
	if days > MaxDays {
		days = MaxDays
	}

	now := a.now().UTC()
	since := now.AddDate(0, 0, -days)

	var (
		counts   domain.WindowCounts
		aggs     domain.WindowAggregates
		devices  []domain.DeviceAggregate
		recent24 domain.WindowCounts
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = a.gens.CountsSince(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		aggs, err = a.gens.AggregatesSince(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		devices, err = a.gens.DeviceBreakdownSince(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		recent24, err = a.gens.CountsSince(gctx, now.Add(-24*time.Hour))
		return err
	})
	if err := g.Wait(); err != nil {
		a.log.Error().Err(err).Int("period_days", days).Msg("stats computation failed")
		return Report{
			PeriodDays:   days,
			CalculatedAt: now,
			Error:        err.Error(),
		}
	}

	breakdown := make(map[string]DeviceStats, len(devices))
	for _, d := range devices {
		breakdown[d.Device] = DeviceStats{Count: d.Count, AvgTime: round2(d.AvgTime)}
	}

	total := counts.Total
	if total < 1 {
		total = 1
	}
	successRate := float64(counts.Completed) / float64(total) * 100

	report := Report{
		PeriodDays:            days,
		TotalGenerations:      counts.Total,
		SuccessfulGenerations: counts.Completed,
		FailedGenerations:     counts.Failed,
		SuccessRate:           round2(successRate),
		AvgGenerationTime:     round2(aggs.AvgGenerationTime),
		AvgRealtimeFactor:     round2(aggs.AvgRealtimeFactor),
		TotalFileSizeMB:       round2(aggs.TotalFileSizeMB),
		AvgFileSizeMB:         round2(aggs.AvgFileSizeMB),
		TotalPlays:            aggs.TotalPlays,
		TotalDownloads:        aggs.TotalDownloads,
		TotalFavorites:        aggs.TotalFavorites,
		DeviceBreakdown:       breakdown,
		Recent24hGenerations:  recent24.Total,
		CalculatedAt:          now,
	}

	a.log.Info().
		Int("period_days", days).
		Int("total", counts.Total).
		Float64("success_rate", report.SuccessRate).
		Msg("generated stats report")
	return report
}

// DailySnapshot rolls up activity since midnight UTC into a usage snapshot.
// Unlike Report it propagates errors; callers persist the result and must not
// overwrite a stored row with zeros.
func (a *Aggregator) DailySnapshot(ctx context.Context) (domain.UsageSnapshot, error) {
	now := a.now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var (
		counts domain.WindowCounts
		aggs   domain.WindowAggregates
		users  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = a.gens.CountsSince(gctx, day)
		return err
	})
	g.Go(func() (err error) {
		aggs, err = a.gens.AggregatesSince(gctx, day)
		return err
	})
	g.Go(func() (err error) {
		users, err = a.gens.UniqueUsersSince(gctx, day)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.UsageSnapshot{}, fmt.Errorf("daily usage snapshot: %w", err)
	}

	return domain.UsageSnapshot{
		Date:                  day,
		TotalGenerations:      counts.Total,
		SuccessfulGenerations: counts.Completed,
		FailedGenerations:     counts.Failed,
		AvgGenerationTime:     round2(aggs.AvgGenerationTime),
		AvgRealtimeFactor:     round2(aggs.AvgRealtimeFactor),
		TotalPlays:            aggs.TotalPlays,
		TotalDownloads:        aggs.TotalDownloads,
		TotalFavorites:        aggs.TotalFavorites,
		UniqueUsers:           users,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
