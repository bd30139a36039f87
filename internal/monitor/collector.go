package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/derekgallardo01/music-genie/internal/domain"
)

// Gauges are the application-level figures the collector cannot measure
// itself; the owning process supplies them per sample.
type Gauges struct {
	ModelLoaded       bool
	ModelLoadTime     *float64
	ActiveGenerations int
	ResponseTimeAvg   *float64
	ErrorRate         float64
	RequestsPerMinute int
}

// Collector samples host resource usage and appends monitoring snapshots for
// the health scorer to consume. GPU figures are left unset; no NVML binding
// is wired.
type Collector struct {
	metrics  domain.MetricsRepository
	diskPath string
	log      zerolog.Logger
}

// NewCollector constructs a collector measuring disk usage at the root mount.
func NewCollector(metrics domain.MetricsRepository, log zerolog.Logger) *Collector {
	return &Collector{metrics: metrics, diskPath: "/", log: log}
}

// Sample reads host utilization. A probe failure leaves the corresponding
// field unset rather than failing the sample.
func (c *Collector) Sample(ctx context.Context, g Gauges) domain.MetricsSample {
	sample := domain.MetricsSample{
		Timestamp:         time.Now().UTC(),
		ModelLoaded:       g.ModelLoaded,
		ModelLoadTime:     g.ModelLoadTime,
		ActiveGenerations: g.ActiveGenerations,
		ResponseTimeAvg:   g.ResponseTimeAvg,
		ErrorRate:         g.ErrorRate,
		RequestsPerMinute: g.RequestsPerMinute,
	}

	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		sample.CPUUsage = &pcts[0]
	} else if err != nil {
		c.log.Debug().Err(err).Msg("cpu probe failed")
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		sample.MemoryUsage = &vm.UsedPercent
	} else {
		c.log.Debug().Err(err).Msg("memory probe failed")
	}
	if du, err := disk.UsageWithContext(ctx, c.diskPath); err == nil {
		sample.DiskUsage = &du.UsedPercent
	} else {
		c.log.Debug().Err(err).Msg("disk probe failed")
	}

	return sample
}

// Record samples once and persists the snapshot.
func (c *Collector) Record(ctx context.Context, g Gauges) error {
	return c.metrics.Insert(ctx, c.Sample(ctx, g))
}

// Run records on every tick until the context is cancelled. gauges is called
// per tick so the owning process can report live figures.
func (c *Collector) Run(ctx context.Context, interval time.Duration, gauges func() Gauges) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Record(ctx, gauges()); err != nil {
				c.log.Warn().Err(err).Msg("failed to record metrics sample")
			}
		}
	}
}
