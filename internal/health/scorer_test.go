package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/derekgallardo01/music-genie/internal/domain"
)

type fakeMetrics struct {
	sample *domain.MetricsSample
	err    error
}

func (f *fakeMetrics) Latest(context.Context) (*domain.MetricsSample, error) {
	return f.sample, f.err
}

type fakeActivity struct {
	counts domain.WindowCounts
	err    error
}

func (f *fakeActivity) CountsSince(context.Context, time.Time) (domain.WindowCounts, error) {
	return f.counts, f.err
}

func f64(v float64) *float64 { return &v }

func sampleWith(cpu, memory, errorRate float64) *domain.MetricsSample {
	return &domain.MetricsSample{
		Timestamp:   time.Now().UTC(),
		CPUUsage:    f64(cpu),
		MemoryUsage: f64(memory),
		ErrorRate:   errorRate,
	}
}

func TestHighCPUAloneStaysHealthy(t *testing.T) {
	s := NewScorer(
		&fakeMetrics{sample: sampleWith(90, 50, 0)},
		&fakeActivity{counts: domain.WindowCounts{Total: 10, Completed: 10}},
		zerolog.Nop(),
	)

	report := s.Check(context.Background())

	if report.HealthScore != 80 {
		t.Errorf("expected score 80, got %d", report.HealthScore)
	}
	if report.Status != StatusHealthy {
		t.Errorf("expected healthy at the boundary, got %s", report.Status)
	}
	if report.RecentActivity.SuccessRate != 100 {
		t.Errorf("expected 100%% success, got %v", report.RecentActivity.SuccessRate)
	}
}

func TestHighCPUWithRecentFailuresWarns(t *testing.T) {
	s := NewScorer(
		&fakeMetrics{sample: sampleWith(90, 50, 0)},
		&fakeActivity{counts: domain.WindowCounts{Total: 4, Completed: 3, Failed: 1}}, // 25% failed
		zerolog.Nop(),
	)

	report := s.Check(context.Background())

	if report.HealthScore != 50 {
		t.Errorf("expected score 50, got %d", report.HealthScore)
	}
	if report.Status != StatusWarning {
		t.Errorf("expected warning, got %s", report.Status)
	}
}

func TestAllPenaltiesFloorAtZero(t *testing.T) {
	s := NewScorer(
		&fakeMetrics{sample: sampleWith(95, 95, 0.5)},
		&fakeActivity{counts: domain.WindowCounts{Total: 10, Failed: 9, Completed: 1}},
		zerolog.Nop(),
	)

	report := s.Check(context.Background())

	if report.HealthScore != 0 {
		t.Errorf("expected score floored at 0, got %d", report.HealthScore)
	}
	if report.Status != StatusCritical {
		t.Errorf("expected critical, got %s", report.Status)
	}
}

func TestNoMetricsSampleIsNotAFault(t *testing.T) {
	s := NewScorer(
		&fakeMetrics{err: domain.ErrNotFound},
		&fakeActivity{},
		zerolog.Nop(),
	)

	report := s.Check(context.Background())

	if report.HealthScore != 100 || report.Status != StatusHealthy {
		t.Errorf("expected full score without samples, got %d %s", report.HealthScore, report.Status)
	}
	if report.LatestMetrics != nil {
		t.Errorf("expected no sample attached, got %+v", report.LatestMetrics)
	}
}

func TestComputationFailureReturnsUnknown(t *testing.T) {
	s := NewScorer(
		&fakeMetrics{err: errors.New("connection refused")},
		&fakeActivity{},
		zerolog.Nop(),
	)

	report := s.Check(context.Background())

	if report.HealthScore != 0 || report.Status != StatusUnknown {
		t.Errorf("expected unknown/0, got %s/%d", report.Status, report.HealthScore)
	}
	if report.Error == "" {
		t.Error("expected the error to be carried in the report")
	}
}

func TestActivityFailureReturnsUnknown(t *testing.T) {
	s := NewScorer(
		&fakeMetrics{sample: sampleWith(10, 10, 0)},
		&fakeActivity{err: errors.New("timeout")},
		zerolog.Nop(),
	)

	report := s.Check(context.Background())

	if report.Status != StatusUnknown {
		t.Errorf("expected unknown, got %s", report.Status)
	}
}
