package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/activeform/form"
)

// Config controls metric naming. Bucket boundaries are in seconds.
type Config struct {
	Enabled        bool      `env:"METRICS_ENABLED" envDefault:"true"`
	Namespace      string    `env:"METRICS_NAMESPACE" envDefault:"activeform"`
	Subsystem      string    `env:"METRICS_SUBSYSTEM"`
	LatencyBuckets []float64 `env:"METRICS_LATENCY_BUCKETS" envSeparator:","`
}

// Collector records form engine events in prometheus metrics. It
// implements form.Observer.
//
// Metrics:
//   - validations_total{result}: attribute passes by valid/invalid
//   - validation_duration_seconds: attribute pass latency
//   - superseded_waiters_total: remote requests cancelled by newer triggers
//   - remote_batches_total{status}: remote validator calls by ok/error
//   - remote_duration_seconds: remote validator latency
//   - submissions_total{status}: submit outcomes by submitted/blocked/failed
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	validations        *prometheus.CounterVec
	validationDuration prometheus.Histogram
	superseded         prometheus.Counter
	batches            *prometheus.CounterVec
	remoteDuration     prometheus.Histogram
	submissions        *prometheus.CounterVec
}

var _ form.Observer = (*Collector)(nil)

// NewCollector creates and registers the metrics. A nil registry gets a
// fresh one.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "activeform"
	}
	if len(cfg.LatencyBuckets) == 0 {
		// Remote validation usually sits between a few ms and a few seconds
		cfg.LatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
	}

	c := &Collector{
		enabled:  cfg.Enabled,
		registry: registry,

		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validations_total",
				Help:      "Total number of attribute validation passes",
			},
			[]string{"result"},
		),

		validationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_duration_seconds",
				Help:      "Attribute validation pass duration in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
		),

		superseded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "superseded_waiters_total",
				Help:      "Total number of remote validation requests superseded by a newer trigger",
			},
		),

		batches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "remote_batches_total",
				Help:      "Total number of remote validation calls",
			},
			[]string{"status"},
		),

		remoteDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "remote_duration_seconds",
				Help:      "Remote validation call duration in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
		),

		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "submissions_total",
				Help:      "Total number of form submissions by outcome",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		c.validations,
		c.validationDuration,
		c.superseded,
		c.batches,
		c.remoteDuration,
		c.submissions,
	)

	return c
}

// Registry returns the registry the metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) ValidationCompleted(_ string, errors int, d time.Duration) {
	if !c.enabled {
		return
	}
	result := "valid"
	if errors > 0 {
		result = "invalid"
	}
	c.validations.WithLabelValues(result).Inc()
	c.validationDuration.Observe(d.Seconds())
}

func (c *Collector) WaitersSuperseded(n int) {
	if !c.enabled || n <= 0 {
		return
	}
	c.superseded.Add(float64(n))
}

func (c *Collector) BatchCompleted(d time.Duration, err error) {
	if !c.enabled {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.batches.WithLabelValues(status).Inc()
	c.remoteDuration.Observe(d.Seconds())
}

func (c *Collector) SubmitCompleted(submitted bool, err error) {
	if !c.enabled {
		return
	}
	status := "submitted"
	switch {
	case err != nil:
		status = "failed"
	case !submitted:
		status = "blocked"
	}
	c.submissions.WithLabelValues(status).Inc()
}

// Handler exposes the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
