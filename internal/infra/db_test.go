package infra

import "testing"

func TestPoolStatusOverflow(t *testing.T) {
	// Within the base pool: no overflow.
	s := NewPoolStatus(3, 2, 5, 15)
	if s.Overflow != 0 {
		t.Errorf("expected no overflow, got %d", s.Overflow)
	}

	// Beyond the base pool: overflow is whatever exceeds base.
	s = NewPoolStatus(1, 8, 5, 15)
	if s.Overflow != 4 {
		t.Errorf("expected overflow 4, got %d", s.Overflow)
	}
	if s.CheckedIn != 1 || s.CheckedOut != 8 || s.MaxConns != 15 {
		t.Errorf("unexpected status: %+v", s)
	}
}

func TestUtilizationPct(t *testing.T) {
	s := NewPoolStatus(0, 12, 5, 15)
	if got := s.UtilizationPct(); got != 80 {
		t.Errorf("expected 80%%, got %v", got)
	}

	// A zero ceiling must not divide by zero.
	if got := (PoolStatus{}).UtilizationPct(); got != 0 {
		t.Errorf("expected 0 for empty status, got %v", got)
	}
}
