package domain

import "time"

// MetricsSample is one monitoring snapshot appended by the metrics collector
// and consumed read-only by the health scorer.
type MetricsSample struct {
	ID                string     `json:"id"`
	Timestamp         time.Time  `json:"timestamp"`
	CPUUsage          *float64   `json:"cpu_usage"`
	MemoryUsage       *float64   `json:"memory_usage"`
	GPUUsage          *float64   `json:"gpu_usage"`
	GPUMemoryUsage    *float64   `json:"gpu_memory_usage"`
	DiskUsage         *float64   `json:"disk_usage"`
	ModelLoaded       bool       `json:"model_loaded"`
	ModelLoadTime     *float64   `json:"model_load_time"`
	ActiveGenerations int        `json:"active_generations"`
	ResponseTimeAvg   *float64   `json:"response_time_avg"`
	ErrorRate         float64    `json:"error_rate"`
	RequestsPerMinute int        `json:"requests_per_minute"`
}

// UsageSnapshot is a per-day rollup of generation activity. The aggregator
// computes it from the record store; the usage stats repository keeps one
// persisted row per date.
type UsageSnapshot struct {
	Date                  time.Time `json:"date"`
	TotalGenerations      int       `json:"total_generations"`
	SuccessfulGenerations int       `json:"successful_generations"`
	FailedGenerations     int       `json:"failed_generations"`
	AvgGenerationTime     float64   `json:"avg_generation_time"`
	AvgRealtimeFactor     float64   `json:"avg_realtime_factor"`
	TotalPlays            int       `json:"total_plays"`
	TotalDownloads        int       `json:"total_downloads"`
	TotalFavorites        int       `json:"total_favorites"`
	UniqueUsers           int       `json:"unique_users"`
}
