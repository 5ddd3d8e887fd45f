package monitoring

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configure NewModule.
type Options struct {
	// Namespace prefixes every collector. Defaults to "corpman".
	Namespace string
	// Gatherer is served next to the module registry. Defaults to prometheus.DefaultGatherer,
	// which carries the runtime collectors and the pkg/metrics request counters.
	Gatherer prometheus.Gatherer
	// ProbeTimeout bounds each health probe. Defaults to three seconds.
	ProbeTimeout time.Duration
}

// Module owns the maintenance and probe collectors, the health manager and the operator summary.
type Module struct {
	registry *prometheus.Registry
	gatherer prometheus.Gatherer
	metrics  *collectors
	stats    *statStore
	health   *HealthManager
}

// NewModule builds a Module with its own registry.
func NewModule(opts Options) (*Module, error) {
	namespace := strings.TrimSpace(opts.Namespace)
	if namespace == "" {
		namespace = "corpman"
	}

	metrics := newCollectors(namespace)
	registry := prometheus.NewRegistry()
	for _, c := range metrics.all() {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	m := &Module{
		registry: registry,
		gatherer: gatherer,
		metrics:  metrics,
		stats:    newStatStore(),
		health:   NewHealthManager(),
	}
	if opts.ProbeTimeout > 0 {
		m.health.timeout = opts.ProbeTimeout
	}
	m.health.observe = m.observeProbe
	return m, nil
}

// Registry returns the module's own registry.
func (m *Module) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the module registry merged with the configured gatherer.
func (m *Module) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(prometheus.Gatherers{m.gatherer, m.registry}, promhttp.HandlerOpts{})
}

// Health returns the probe manager.
func (m *Module) Health() *HealthManager {
	if m == nil {
		return nil
	}
	return m.health
}

// Summary returns the operator summary of this module.
func (m *Module) Summary() Summary {
	if m == nil {
		return Summary{GeneratedAt: time.Now()}
	}
	return m.stats.summary()
}

func (m *Module) observeProbe(result ProbeResult) {
	component := normalizeLabel(result.Component)
	m.metrics.probes.WithLabelValues(component, string(result.Status)).Inc()
	m.metrics.probeDuration.WithLabelValues(component).Observe(nonNegative(result.Duration).Seconds())
	m.stats.recordProbe(component, result)
}

var current atomic.Pointer[Module]

// SetModule installs module as the process-wide target of RecordMaintenanceRun and Snapshot.
func SetModule(module *Module) {
	if module != nil {
		current.Store(module)
	}
}

// CurrentModule returns the installed module, or nil.
func CurrentModule() *Module {
	return current.Load()
}
