package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/derekgallardo01/music-genie/internal/db"
	"github.com/derekgallardo01/music-genie/internal/domain"
	"github.com/derekgallardo01/music-genie/internal/sqlinline"
)

// InteractionRepositoryPG implements domain.InteractionRepository. Every
// mutation is a single UPDATE so concurrent calls against the same record
// cannot lose an increment.
type InteractionRepositoryPG struct {
	db  db.DBTX
	log zerolog.Logger
}

// NewInteractionRepository constructs the counter repository.
func NewInteractionRepository(dbtx db.DBTX, log zerolog.Logger) *InteractionRepositoryPG {
	return &InteractionRepositoryPG{db: dbtx, log: log}
}

// RecordPlay increments the play counter and stamps last_played. An unknown
// generation ID returns (false, nil); absence is an expected outcome here.
func (r *InteractionRepositoryPG) RecordPlay(ctx context.Context, generationID string, playDuration *float64) (bool, error) {
	var playCount int
	err := r.db.QueryRow(ctx, sqlinline.QRecordPlay, generationID).Scan(&playCount)
	if errors.Is(err, pgx.ErrNoRows) {
		r.log.Warn().Str("generation_id", generationID).Msg("generation not found for play tracking")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("record play: %w", err)
	}

	evt := r.log.Info().Str("generation_id", generationID).Int("play_count", playCount)
	if playDuration != nil {
		evt = evt.Float64("play_duration", *playDuration)
	}
	evt.Msg("play recorded")
	return true, nil
}

// RecordDownload increments the download counter with the same not-found
// semantics as RecordPlay.
func (r *InteractionRepositoryPG) RecordDownload(ctx context.Context, generationID string) (bool, error) {
	var downloadCount int
	err := r.db.QueryRow(ctx, sqlinline.QRecordDownload, generationID).Scan(&downloadCount)
	if errors.Is(err, pgx.ErrNoRows) {
		r.log.Warn().Str("generation_id", generationID).Msg("generation not found for download tracking")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("record download: %w", err)
	}

	r.log.Info().Str("generation_id", generationID).Int("download_count", downloadCount).Msg("download recorded")
	return true, nil
}

// ToggleFavorite flips the favorited flag and returns the new value. An
// unknown generation ID returns domain.ErrNotFound so callers can tell it
// apart from "currently not favorited".
func (r *InteractionRepositoryPG) ToggleFavorite(ctx context.Context, generationID string) (bool, error) {
	var favorited bool
	err := r.db.QueryRow(ctx, sqlinline.QToggleFavorite, generationID).Scan(&favorited)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, domain.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}

	r.log.Info().Str("generation_id", generationID).Bool("is_favorited", favorited).Msg("favorite toggled")
	return favorited, nil
}
