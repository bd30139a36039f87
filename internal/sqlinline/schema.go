package sqlinline

// SchemaVersion is bumped whenever Schema changes shape.
const SchemaVersion = "2.1.0"

// Schema holds the DDL applied on startup. Statements are idempotent so a
// restart against an existing database is a no-op.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS music_generations (
    id              BIGSERIAL PRIMARY KEY,
    generation_id   VARCHAR(100) NOT NULL UNIQUE,
    prompt          TEXT NOT NULL,
    status          VARCHAR(20) NOT NULL DEFAULT 'processing',
    device          VARCHAR(50) NOT NULL,
    precision       VARCHAR(20) NOT NULL DEFAULT 'float32',
    generation_time DOUBLE PRECISION NOT NULL,
    realtime_factor DOUBLE PRECISION NOT NULL DEFAULT 1.0,
    file_path       VARCHAR(500),
    audio_url       VARCHAR(500),
    file_size_mb    DOUBLE PRECISION NOT NULL,
    duration        DOUBLE PRECISION NOT NULL DEFAULT 30.0,
    sample_rate     INTEGER NOT NULL DEFAULT 32000,
    play_count      INTEGER NOT NULL DEFAULT 0,
    download_count  INTEGER NOT NULL DEFAULT 0,
    is_favorited    BOOLEAN NOT NULL DEFAULT FALSE,
    last_played     TIMESTAMPTZ,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ,
    user_id         BIGINT,
    error_message   TEXT,
    model_version   VARCHAR(50) NOT NULL DEFAULT 'musicgen-small'
);`,
	`CREATE INDEX IF NOT EXISTS idx_generations_status_created
    ON music_generations (status, created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_generations_favorited_created
    ON music_generations (is_favorited, created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_generations_play_count_desc
    ON music_generations (play_count DESC);`,
	`CREATE TABLE IF NOT EXISTS system_metrics (
    id                  UUID PRIMARY KEY,
    timestamp           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    cpu_usage           DOUBLE PRECISION,
    memory_usage        DOUBLE PRECISION,
    gpu_usage           DOUBLE PRECISION,
    gpu_memory_usage    DOUBLE PRECISION,
    disk_usage          DOUBLE PRECISION,
    model_loaded        BOOLEAN NOT NULL DEFAULT FALSE,
    model_load_time     DOUBLE PRECISION,
    active_generations  INTEGER NOT NULL DEFAULT 0,
    response_time_avg   DOUBLE PRECISION,
    error_rate          DOUBLE PRECISION NOT NULL DEFAULT 0.0,
    requests_per_minute INTEGER NOT NULL DEFAULT 0
);`,
	`CREATE INDEX IF NOT EXISTS idx_system_metrics_timestamp
    ON system_metrics (timestamp DESC);`,
	`CREATE TABLE IF NOT EXISTS usage_stats (
    id                      BIGSERIAL PRIMARY KEY,
    date                    DATE NOT NULL UNIQUE DEFAULT CURRENT_DATE,
    total_generations       INTEGER NOT NULL DEFAULT 0,
    successful_generations  INTEGER NOT NULL DEFAULT 0,
    failed_generations      INTEGER NOT NULL DEFAULT 0,
    avg_generation_time     DOUBLE PRECISION NOT NULL DEFAULT 0.0,
    avg_realtime_factor     DOUBLE PRECISION NOT NULL DEFAULT 0.0,
    total_plays             INTEGER NOT NULL DEFAULT 0,
    total_downloads         INTEGER NOT NULL DEFAULT 0,
    total_favorites         INTEGER NOT NULL DEFAULT 0,
    unique_users            INTEGER NOT NULL DEFAULT 0
);`,
	`CREATE TABLE IF NOT EXISTS schema_version (
    id          BIGSERIAL PRIMARY KEY,
    version     VARCHAR(20) NOT NULL,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    description TEXT
);`,
}

const QRecordSchemaVersion = `
INSERT INTO schema_version (version, description)
SELECT $1, $2
WHERE NOT EXISTS (SELECT 1 FROM schema_version WHERE version = $1);
`
