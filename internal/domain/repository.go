package domain

import (
	"context"
	"time"
)

// WindowCounts are record counts over a trailing window.
type WindowCounts struct {
	Total     int
	Completed int
	Failed    int
}

// WindowAggregates are computed over completed records in a trailing window.
type WindowAggregates struct {
	AvgGenerationTime float64
	AvgRealtimeFactor float64
	TotalFileSizeMB   float64
	AvgFileSizeMB     float64
	TotalPlays        int
	TotalDownloads    int
	TotalFavorites    int
}

// DeviceAggregate is the per-device slice of a stats report.
type DeviceAggregate struct {
	Device  string
	Count   int
	AvgTime float64
}

// CleanupCandidate pairs a deletable record with its on-disk artifact, if any.
type CleanupCandidate struct {
	GenerationID string
	FilePath     *string
}

// GenerationRepository is the record store surface.
type GenerationRepository interface {
	Create(ctx context.Context, in GenerationInput, artifactPath string) (*GenerationRecord, error)
	Recent(ctx context.Context, limit int, includeFailed bool) ([]GenerationRecord, error)
	MostPlayed(ctx context.Context, limit int) ([]GenerationRecord, error)
	Search(ctx context.Context, query string, limit int) ([]GenerationRecord, error)
	Favorites(ctx context.Context, limit int) ([]GenerationRecord, error)

	CountsSince(ctx context.Context, since time.Time) (WindowCounts, error)
	AggregatesSince(ctx context.Context, since time.Time) (WindowAggregates, error)
	DeviceBreakdownSince(ctx context.Context, since time.Time) ([]DeviceAggregate, error)
	UniqueUsersSince(ctx context.Context, since time.Time) (int, error)

	CandidatesOlderThan(ctx context.Context, cutoff time.Time, skipFavorites bool) ([]CleanupCandidate, error)
	DeleteByGenerationIDs(ctx context.Context, ids []string) (int64, error)
}

// InteractionRepository mutates per-record engagement counters.
type InteractionRepository interface {
	RecordPlay(ctx context.Context, generationID string, playDuration *float64) (bool, error)
	RecordDownload(ctx context.Context, generationID string) (bool, error)
	ToggleFavorite(ctx context.Context, generationID string) (bool, error)
}

// UsageStatsRepository persists daily usage rollups, one row per day.
type UsageStatsRepository interface {
	UpsertDaily(ctx context.Context, snap UsageSnapshot) error
}

// MetricsRepository persists and reads monitoring samples.
type MetricsRepository interface {
	Insert(ctx context.Context, sample MetricsSample) error
	Latest(ctx context.Context) (*MetricsSample, error)
}
