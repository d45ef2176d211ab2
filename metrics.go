package dictcache

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordLookup is called after each lookup (scalar getters delegate to
	// the batch path and record once). n is the number of requested keys,
	// misses the number of positions that required a source fetch.
	RecordLookup(attribute string, n, misses int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLookup(string, int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LookupCount      atomic.Int64
	LookupErrors     atomic.Int64
	KeysRequested    atomic.Int64
	KeysMissed       atomic.Int64
	LookupTotalNanos atomic.Int64
}

// RecordLookup implements MetricsCollector.
func (c *BasicMetricsCollector) RecordLookup(_ string, n, misses int, duration time.Duration, err error) {
	c.LookupCount.Add(1)
	c.KeysRequested.Add(int64(n))
	c.KeysMissed.Add(int64(misses))
	c.LookupTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.LookupErrors.Add(1)
	}
}

// HitRate returns the fraction of requested keys served from the table.
func (c *BasicMetricsCollector) HitRate() float64 {
	requested := c.KeysRequested.Load()
	if requested == 0 {
		return 0
	}
	return 1 - float64(c.KeysMissed.Load())/float64(requested)
}
