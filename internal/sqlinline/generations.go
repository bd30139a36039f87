package sqlinline

const generationColumns = `id, generation_id, prompt, status, device, precision, generation_time,
realtime_factor, file_path, audio_url, file_size_mb, duration, sample_rate,
play_count, download_count, is_favorited, last_played, created_at, updated_at,
user_id, error_message, model_version`

const QInsertGeneration = `
INSERT INTO music_generations (
    generation_id, prompt, status, device, precision, generation_time,
    realtime_factor, file_path, audio_url, file_size_mb, duration, sample_rate,
    user_id, error_message, model_version
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id, created_at;
`

const QRecentGenerations = `
SELECT ` + generationColumns + `
FROM music_generations
WHERE $2::bool OR status = 'completed'
ORDER BY created_at DESC
LIMIT $1;
`

const QMostPlayed = `
SELECT ` + generationColumns + `
FROM music_generations
WHERE status = 'completed' AND play_count > 0
ORDER BY play_count DESC
LIMIT $1;
`

const QSearchFullText = `
SELECT ` + generationColumns + `
FROM music_generations
WHERE status = 'completed'
  AND to_tsvector('english', prompt) @@ plainto_tsquery('english', $1)
ORDER BY created_at DESC
LIMIT $2;
`

const QSearchSubstring = `
SELECT ` + generationColumns + `
FROM music_generations
WHERE status = 'completed' AND prompt ILIKE '%' || $1 || '%'
ORDER BY created_at DESC
LIMIT $2;
`

const QFavorites = `
SELECT ` + generationColumns + `
FROM music_generations
WHERE status = 'completed' AND is_favorited
ORDER BY created_at DESC
LIMIT $1;
`

const QUpdateFileSize = `
UPDATE music_generations
SET file_size_mb = $2, updated_at = NOW()
WHERE generation_id = $1;
`

const QRecordPlay = `
UPDATE music_generations
SET play_count = play_count + 1, last_played = NOW(), updated_at = NOW()
WHERE generation_id = $1
RETURNING play_count;
`

const QRecordDownload = `
UPDATE music_generations
SET download_count = download_count + 1, updated_at = NOW()
WHERE generation_id = $1
RETURNING download_count;
`

const QToggleFavorite = `
UPDATE music_generations
SET is_favorited = NOT is_favorited, updated_at = NOW()
WHERE generation_id = $1
RETURNING is_favorited;
`

const QCountsSince = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'completed'),
       COUNT(*) FILTER (WHERE status = 'failed')
FROM music_generations
WHERE created_at >= $1;
`

const QAggregatesSince = `
SELECT COALESCE(AVG(generation_time), 0),
       COALESCE(AVG(realtime_factor), 0),
       COALESCE(SUM(file_size_mb), 0),
       COALESCE(AVG(file_size_mb), 0),
       COALESCE(SUM(play_count), 0),
       COALESCE(SUM(download_count), 0),
       COUNT(*) FILTER (WHERE is_favorited)
FROM music_generations
WHERE status = 'completed' AND created_at >= $1;
`

const QDeviceBreakdownSince = `
SELECT device, COUNT(*), AVG(generation_time)
FROM music_generations
WHERE status = 'completed' AND created_at >= $1
GROUP BY device
ORDER BY device;
`

const QUniqueUsersSince = `
SELECT COUNT(DISTINCT user_id)
FROM music_generations
WHERE created_at >= $1 AND user_id IS NOT NULL;
`

const QCleanupCandidates = `
SELECT generation_id, file_path
FROM music_generations
WHERE created_at < $1 AND ($2::bool OR NOT is_favorited)
ORDER BY created_at ASC;
`

const QDeleteGenerations = `
DELETE FROM music_generations
WHERE generation_id = ANY($1);
`
