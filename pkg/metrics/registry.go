// Package metrics provides optional Prometheus metrics for the indexer.
//
// All metrics are opt-in: if InitRegistry is never called, constructors
// return no-op implementations with zero overhead, so the server runs the
// same with or without metrics collection.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// registry is the global Prometheus registry, write-once via
	// registryOnce.
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global Prometheus registry. Safe to call
// multiple times; calls after the first are ignored. If never called,
// GetRegistry returns nil and all metrics constructors return no-op
// implementations.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// GetRegistry returns the global registry, or nil when metrics are
// disabled. The sync.Once in InitRegistry provides the happens-before
// relationship making the value safe to read concurrently.
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return GetRegistry() != nil
}
