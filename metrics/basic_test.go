package metrics

import "testing"

func TestBasicProvider_CounterAccumulatesAndIsReused(t *testing.T) {
	p := NewBasicProvider()
	c := p.Counter("tasks_total").(*BasicCounter)
	c.Add(3)
	c.Add(4)
	if got := c.Snapshot(); got != 7 {
		t.Fatalf("Snapshot() = %d, want 7", got)
	}

	again := p.Counter("tasks_total").(*BasicCounter)
	if again != c {
		t.Fatalf("Counter(name) returned a distinct instrument for a repeated name")
	}
}

func TestBasicProvider_UpDownCounter(t *testing.T) {
	p := NewBasicProvider()
	u := p.UpDownCounter("ready_depth").(*BasicUpDownCounter)
	u.Add(5)
	u.Add(-2)
	if got := u.Snapshot(); got != 3 {
		t.Fatalf("Snapshot() = %d, want 3", got)
	}
}

func TestBasicHistogram_Snapshot(t *testing.T) {
	p := NewBasicProvider()
	h := p.Histogram("latency").(*BasicHistogram)
	h.Record(1)
	h.Record(3)
	h.Record(2)

	snap := h.Snapshot()
	if snap.Count != 3 {
		t.Fatalf("Count = %d, want 3", snap.Count)
	}
	if snap.Sum != 6 {
		t.Fatalf("Sum = %v, want 6", snap.Sum)
	}
	if snap.Min != 1 || snap.Max != 3 {
		t.Fatalf("Min/Max = %v/%v, want 1/3", snap.Min, snap.Max)
	}
	if snap.Mean != 2 {
		t.Fatalf("Mean = %v, want 2", snap.Mean)
	}
}

func TestBasicProvider_DistinctNamesAreIndependent(t *testing.T) {
	p := NewBasicProvider()
	a := p.Counter("a").(*BasicCounter)
	b := p.Counter("b").(*BasicCounter)
	a.Add(1)
	if got := b.Snapshot(); got != 0 {
		t.Fatalf("b.Snapshot() = %d, want 0 (independent of a)", got)
	}
}
