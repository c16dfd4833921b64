package shieldcore

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricAuthzAllowed)
	m.Observe(MetricLogQueryLatency, 10*time.Millisecond)

	if got := m.Value(MetricAuthzAllowed); got != 0 {
		t.Fatalf("Value = %d, want 0", got)
	}

	s := m.Snapshot()
	if len(s.Counters) != 0 || len(s.Histograms) != 0 {
		t.Fatalf("disabled snapshot = %+v", s)
	}
}

func TestMetricsIncAndValue(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	for i := 0; i < 3; i++ {
		m.Inc(MetricActivityRecorded)
	}
	m.Inc(MetricSecurityRecorded)

	if got := m.Value(MetricActivityRecorded); got != 3 {
		t.Fatalf("activity counter = %d, want 3", got)
	}
	if got := m.Value(MetricSecurityRecorded); got != 1 {
		t.Fatalf("security counter = %d, want 1", got)
	}
	if got := m.Value(MetricUserCreated); got != 0 {
		t.Fatalf("untouched counter = %d, want 0", got)
	}
}

func TestMetricsObserveBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricLogQueryLatency, 2*time.Millisecond)
	m.Observe(MetricLogQueryLatency, 30*time.Millisecond)
	m.Observe(MetricLogQueryLatency, time.Second)

	buckets := m.Snapshot().Histograms[MetricLogQueryLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("bucket count = %d, want %d", len(buckets), histBucketCount)
	}
	if buckets[0] != 1 || buckets[2] != 1 || buckets[7] != 1 {
		t.Fatalf("bucket distribution = %v", buckets)
	}
}

func TestMetricsObserveWithoutLatencyEnabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Observe(MetricLogQueryLatency, 10*time.Millisecond)

	if hist := m.Snapshot().Histograms; len(hist) != 0 {
		t.Fatalf("histograms = %v, want none", hist)
	}
}

func TestMetricsSnapshotIsDeepCopy(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})
	m.Inc(MetricAuthzAllowed)
	m.Observe(MetricLogQueryLatency, time.Millisecond)

	s := m.Snapshot()
	s.Counters[MetricAuthzAllowed] = 999
	s.Histograms[MetricLogQueryLatency][0] = 999

	fresh := m.Snapshot()
	if fresh.Counters[MetricAuthzAllowed] != 1 {
		t.Fatalf("counter after snapshot mutation = %d, want 1", fresh.Counters[MetricAuthzAllowed])
	}
	if fresh.Histograms[MetricLogQueryLatency][0] != 1 {
		t.Fatalf("bucket after snapshot mutation = %d, want 1", fresh.Histograms[MetricLogQueryLatency][0])
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 8
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				m.Inc(MetricAuthzAllowed)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricAuthzAllowed); got != goroutines*perGoroutine {
		t.Fatalf("counter = %d, want %d", got, goroutines*perGoroutine)
	}
}
