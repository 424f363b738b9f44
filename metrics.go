package stringpool

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordAdd is called after each intern operation. deduped is true when
	// an existing string was returned, err is nil if successful.
	RecordAdd(duration time.Duration, deduped bool, err error)

	// RecordFreeze is called after a freeze. bytesReclaimed is the arena
	// capacity released by compaction.
	RecordFreeze(duration time.Duration, bytesReclaimed int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, bool, error) {}
func (NoopMetricsCollector) RecordFreeze(time.Duration, int)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddCount        atomic.Int64
	AddDeduped      atomic.Int64
	AddErrors       atomic.Int64
	AddTotalNanos   atomic.Int64
	FreezeCount     atomic.Int64
	BytesReclaimed  atomic.Int64
	FreezeLastNanos atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(duration time.Duration, deduped bool, err error) {
	b.AddCount.Add(1)
	b.AddTotalNanos.Add(duration.Nanoseconds())
	if deduped {
		b.AddDeduped.Add(1)
	}
	if err != nil {
		b.AddErrors.Add(1)
	}
}

// RecordFreeze implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFreeze(duration time.Duration, bytesReclaimed int) {
	b.FreezeCount.Add(1)
	b.BytesReclaimed.Add(int64(bytesReclaimed))
	b.FreezeLastNanos.Store(duration.Nanoseconds())
}

// DedupRate returns the fraction of adds that hit an existing string.
func (b *BasicMetricsCollector) DedupRate() float64 {
	count := b.AddCount.Load()
	if count == 0 {
		return 0
	}
	return float64(b.AddDeduped.Load()) / float64(count)
}
