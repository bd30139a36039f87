package sqlinline

const QInsertMetrics = `
INSERT INTO system_metrics (
    id, cpu_usage, memory_usage, gpu_usage, gpu_memory_usage, disk_usage,
    model_loaded, model_load_time, active_generations, response_time_avg,
    error_rate, requests_per_minute
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

const QLatestMetrics = `
SELECT id, timestamp, cpu_usage, memory_usage, gpu_usage, gpu_memory_usage,
       disk_usage, model_loaded, model_load_time, active_generations,
       response_time_avg, error_rate, requests_per_minute
FROM system_metrics
ORDER BY timestamp DESC
LIMIT 1;
`

const QUpsertUsageStats = `
INSERT INTO usage_stats (
    date, total_generations, successful_generations, failed_generations,
    avg_generation_time, avg_realtime_factor, total_plays, total_downloads,
    total_favorites, unique_users
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (date) DO UPDATE SET
    total_generations      = EXCLUDED.total_generations,
    successful_generations = EXCLUDED.successful_generations,
    failed_generations     = EXCLUDED.failed_generations,
    avg_generation_time    = EXCLUDED.avg_generation_time,
    avg_realtime_factor    = EXCLUDED.avg_realtime_factor,
    total_plays            = EXCLUDED.total_plays,
    total_downloads        = EXCLUDED.total_downloads,
    total_favorites        = EXCLUDED.total_favorites,
    unique_users           = EXCLUDED.unique_users;
`
