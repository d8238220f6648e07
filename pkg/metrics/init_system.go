package metrics

import (
	rtmetrics "runtime/metrics"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var processStart = time.Now()

// runtime/metrics samples behind the process gauges, in systemSamples order.
var systemSampleNames = []string{
	"/sched/goroutines:goroutines",
	"/memory/classes/heap/objects:bytes",
	"/gc/heap/objects:objects",
	"/gc/cycles/total:gc-cycles",
}

func (r *Registry) initSystemMetrics() {
	gauge := func(name, help string) prometheus.Gauge {
		return promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
			Namespace: "resgraph",
			Subsystem: "process",
			Name:      name,
			Help:      help,
		})
	}

	r.UptimeSeconds = gauge("uptime_seconds", "Time since the process started in seconds")
	r.GoRoutines = gauge("goroutines", "Live goroutines, including traversal workers")
	r.HeapObjectBytes = gauge("heap_object_bytes", "Bytes held by live and unswept heap objects")
	r.HeapObjects = gauge("heap_objects", "Live and unswept heap objects")
	r.GCCycles = gauge("gc_cycles", "Completed GC cycles since the process started")

	r.systemSamples = make([]rtmetrics.Sample, len(systemSampleNames))
	for i, name := range systemSampleNames {
		r.systemSamples[i].Name = name
	}
}

// UpdateSystemMetrics samples the process gauges.
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	rtmetrics.Read(r.systemSamples)
	targets := []prometheus.Gauge{r.GoRoutines, r.HeapObjectBytes, r.HeapObjects, r.GCCycles}
	for i, s := range r.systemSamples {
		if s.Value.Kind() == rtmetrics.KindUint64 {
			targets[i].Set(float64(s.Value.Uint64()))
		}
	}
	r.UptimeSeconds.Set(time.Since(processStart).Seconds())
}
