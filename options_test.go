package coro

import "testing"

func TestNewConfig_AppliesOptions(t *testing.T) {
	cfg, err := newConfig(WithMaxWorkers(4), WithPanicPolicy(PolicyAbort))
	if err != nil {
		t.Fatalf("newConfig: %v", err)
	}
	if cfg.MaxWorkers != 4 {
		t.Fatalf("MaxWorkers = %d, want 4", cfg.MaxWorkers)
	}
	if cfg.Panic != PolicyAbort {
		t.Fatalf("Panic = %v, want PolicyAbort", cfg.Panic)
	}
}

func TestWithMaxWorkers_PanicsOnZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("WithMaxWorkers(0) did not panic")
		}
	}()
	_, _ = newConfig(WithMaxWorkers(0))
}

func TestWithMetrics_PanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("WithMetrics(nil) did not panic")
		}
	}()
	_, _ = newConfig(WithMetrics(nil))
}
