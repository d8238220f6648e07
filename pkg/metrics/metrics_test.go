package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	h, ok := o.(prometheus.Histogram)
	if !ok {
		t.Fatalf("observer %T is not a histogram", o)
	}
	var metric dto.Metric
	if err := h.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.BuildsTotal == nil || r.ProjectionDuration == nil || r.TraversalsTotal == nil || r.UptimeSeconds == nil {
		t.Error("metrics not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordBuild(t *testing.T) {
	r := NewRegistry()

	r.RecordBuild("success", 20*time.Millisecond, 33, 39, 5)
	r.RecordBuild("error", time.Millisecond, 0, 0, 0)

	if got := counterValue(t, r.BuildsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("success builds = %v, want 1", got)
	}
	if got := counterValue(t, r.BuildsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("error builds = %v, want 1", got)
	}
	// A failed build must not clobber the last graph size.
	if got := gaugeValue(t, r.GraphPoolsTotal); got != 33 {
		t.Errorf("pools gauge = %v, want 33", got)
	}
	if got := gaugeValue(t, r.GraphRelationsTotal); got != 39 {
		t.Errorf("relations gauge = %v, want 39", got)
	}
}

func TestRecordProjection(t *testing.T) {
	r := NewRegistry()

	r.RecordProjection("CA", time.Millisecond, 11, 10)
	r.RecordProjection("PA", time.Millisecond, 4, 3)

	if got := gaugeValue(t, r.ViewPools.WithLabelValues("CA")); got != 11 {
		t.Errorf("CA view pools = %v, want 11", got)
	}
	if got := gaugeValue(t, r.ViewRelations.WithLabelValues("PA")); got != 3 {
		t.Errorf("PA view relations = %v, want 3", got)
	}
	if got := histogramCount(t, r.ProjectionDuration.WithLabelValues("CA")); got != 1 {
		t.Errorf("CA projection samples = %d, want 1", got)
	}
}

func TestRecordTraversal(t *testing.T) {
	r := NewRegistry()

	r.TraversalStarted()
	r.TraversalStarted()
	if got := gaugeValue(t, r.TraversalsInFlight); got != 2 {
		t.Errorf("in flight = %v, want 2", got)
	}

	r.RecordTraversal("ALL", "success", 100*time.Millisecond, 1000)
	r.RecordTraversal("ALL", "cycle", 2*time.Second, 10)

	if got := gaugeValue(t, r.TraversalsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := counterValue(t, r.TraversalsTotal.WithLabelValues("ALL", "success")); got != 1 {
		t.Errorf("success traversals = %v, want 1", got)
	}
	if got := counterValue(t, r.SlowTraversals.WithLabelValues("ALL")); got != 1 {
		t.Errorf("slow traversals = %v, want 1", got)
	}
	if got := histogramCount(t, r.TraversalVisited.WithLabelValues("ALL")); got != 2 {
		t.Errorf("visited samples = %d, want 2", got)
	}
}

func TestSystemMetrics(t *testing.T) {
	r := NewRegistry()
	r.UpdateSystemMetrics()

	if gaugeValue(t, r.GoRoutines) < 1 {
		t.Error("goroutines gauge should be at least 1")
	}
	if gaugeValue(t, r.HeapObjectBytes) <= 0 {
		t.Error("heap object bytes gauge should be positive")
	}
	if gaugeValue(t, r.UptimeSeconds) <= 0 {
		t.Error("uptime gauge should be positive")
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.TraversalStarted()
				r.RecordTraversal("CA", "success", time.Millisecond, 11)
			}
		}()
	}
	wg.Wait()

	if got := counterValue(t, r.TraversalsTotal.WithLabelValues("CA", "success")); got != 1000 {
		t.Errorf("Counter = %v, want 1000", got)
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()
	r.RecordBuild("success", time.Millisecond, 1, 0, 1)
	r.RecordProjection("CA", time.Millisecond, 1, 0)
	r.TraversalStarted()
	r.RecordTraversal("CA", "success", time.Millisecond, 1)

	metrics, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if len(metrics) == 0 {
		t.Fatal("no metrics gathered")
	}
	for _, m := range metrics {
		if !strings.HasPrefix(m.GetName(), "resgraph_") {
			t.Errorf("Metric %s does not have resgraph_ prefix", m.GetName())
		}
	}
}

func BenchmarkRecordTraversal(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.TraversalStarted()
		r.RecordTraversal("CA", "success", time.Millisecond, 100)
	}
}
