package monitoring

import "github.com/prometheus/client_golang/prometheus"

type collectors struct {
	maintenanceRuns     *prometheus.CounterVec
	maintenanceRemoved  *prometheus.CounterVec
	maintenanceDuration *prometheus.HistogramVec
	maintenanceLastOK   *prometheus.GaugeVec
	probes              *prometheus.CounterVec
	probeDuration       *prometheus.HistogramVec
}

var probeBuckets = []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5}

func newCollectors(namespace string) *collectors {
	return &collectors{
		maintenanceRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "maintenance",
			Name:      "runs_total",
			Help:      "Cleanup job runs by result.",
		}, []string{"job", "result"}),
		maintenanceRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "maintenance",
			Name:      "rows_removed_total",
			Help:      "Rows deleted by cleanup jobs.",
		}, []string{"job"}),
		maintenanceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "maintenance",
			Name:      "duration_seconds",
			Help:      "Cleanup job duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		maintenanceLastOK: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "maintenance",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run per job.",
		}, []string{"job"}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "probes_total",
			Help:      "Health probe outcomes by component.",
		}, []string{"component", "status"}),
		probeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "probe_duration_seconds",
			Help:      "Health probe latency by component.",
			Buckets:   probeBuckets,
		}, []string{"component"}),
	}
}

func (c *collectors) all() []prometheus.Collector {
	return []prometheus.Collector{
		c.maintenanceRuns,
		c.maintenanceRemoved,
		c.maintenanceDuration,
		c.maintenanceLastOK,
		c.probes,
		c.probeDuration,
	}
}
