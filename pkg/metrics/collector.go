// Package metrics exposes Prometheus counters for row injection and field
// save outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds collector naming.
type Config struct {
	Namespace string `yaml:"namespace" json:"namespace"`
	Subsystem string `yaml:"subsystem" json:"subsystem"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Namespace: "menufields"}
}

// Collector owns a dedicated registry so embedding applications decide where
// the metrics are exposed.
type Collector struct {
	registry *prometheus.Registry

	InjectTotal *prometheus.CounterVec
	SaveTotal   *prometheus.CounterVec
}

// New creates a Collector with the default configuration.
func New() *Collector {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Collector with the given config.
func NewWithConfig(cfg Config) *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		InjectTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "inject_total",
			Help:      "Menu item rows processed by the field injector, by result",
		}, []string{"result"}),
		SaveTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "save_total",
			Help:      "Menu item field saves, by result",
		}, []string{"result"}),
	}
	reg.MustRegister(c.InjectTotal)
	reg.MustRegister(c.SaveTotal)
	return c
}

// RecordInject implements walker.Recorder.
func (c *Collector) RecordInject(result string) {
	c.InjectTotal.WithLabelValues(result).Inc()
}

// RecordSave implements save.Recorder.
func (c *Collector) RecordSave(result string) {
	c.SaveTotal.WithLabelValues(result).Inc()
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
