package worker

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors a worker exposes on its admin
// surface. The periodic "stats" protocol message is the same data this
// worker already computes for the coordinator, so recording it here is
// free - no separate sampling pass.
type Metrics struct {
	ActiveThreads   prometheus.Gauge
	CompletedTiles  prometheus.Counter
	CompletedSample prometheus.Counter
	AvgSampleTime   prometheus.Gauge
}

// NewMetrics registers a worker's collectors against reg. Pass
// prometheus.NewRegistry() per worker instance in tests to avoid
// double-registration panics against the global default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveThreads: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "raytracer_worker_active_threads",
			Help: "Render threads currently active for the in-progress job.",
		}),
		CompletedTiles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raytracer_worker_tiles_completed_total",
			Help: "Tiles submitted back to the coordinator.",
		}),
		CompletedSample: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raytracer_worker_samples_completed_total",
			Help: "Per-pixel samples completed across all render threads.",
		}),
		AvgSampleTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "raytracer_worker_avg_sample_time_seconds",
			Help: "Running average time to render one tile across render threads.",
		}),
	}
	reg.MustRegister(m.ActiveThreads, m.CompletedTiles, m.CompletedSample, m.AvgSampleTime)
	return m
}
