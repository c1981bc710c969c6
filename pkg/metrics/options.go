package metrics

import "github.com/prometheus/client_golang/prometheus"

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithHistogramBuckets overrides the latency histogram buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry uses an existing registry instead of a fresh one.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}
