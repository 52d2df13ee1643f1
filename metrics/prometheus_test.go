package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusProvider_CounterRegistersAndRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider(reg)

	c := p.Counter("coro_tasks_dispatched_total", WithDescription("tasks dispatched"))
	c.Add(1)
	c.Add(2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(mfs) != 1 {
		t.Fatalf("len(mfs) = %d, want 1", len(mfs))
	}
	if name := mfs[0].GetName(); name != "coro_tasks_dispatched_total" {
		t.Fatalf("metric name = %q", name)
	}
	if got := mfs[0].Metric[0].GetCounter().GetValue(); got != 3 {
		t.Fatalf("counter value = %v, want 3", got)
	}
}

func TestPrometheusProvider_SanitizeName(t *testing.T) {
	cases := map[string]string{
		"coro.tasks":   "coro_tasks",
		"coro-tasks":   "coro_tasks",
		"coro tasks 1": "coro_tasks_1",
	}
	for in, want := range cases {
		if got := sanitizeName(in); got != want {
			t.Errorf("sanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrometheusProvider_ReusesInstrumentForRepeatedName(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider(reg)

	_ = p.UpDownCounter("coro_workers")
	_ = p.UpDownCounter("coro_workers")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(mfs) != 1 {
		t.Fatalf("len(mfs) = %d, want 1 (registering twice would have panicked via MustRegister)", len(mfs))
	}
}
