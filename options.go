package stringpool

import (
	"github.com/hupe1980/stringpool/internal/arena"
	"github.com/hupe1980/stringpool/internal/hash"
)

type options struct {
	logger   *Logger
	seed     uint32
	acquirer arena.MemoryAcquirer
	metrics  MetricsCollector
}

// Option configures Pool constructor behavior.
type Option func(*options)

// WithLogger sets the logger used for lifecycle events.
// If nil is passed, logging is disabled.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithSeed overrides the digest seed. Pools that exchange snapshots must
// use the same seed.
func WithSeed(seed uint32) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithMemoryAcquirer attaches a memory budget to the pool's arena, for
// example a resource.Controller. Growth beyond the budget surfaces from Add
// as an allocation error instead of aborting the process.
func WithMemoryAcquirer(acquirer arena.MemoryAcquirer) Option {
	return func(o *options) {
		o.acquirer = acquirer
	}
}

// WithMetricsCollector sets the collector notified on pool operations.
// If nil is passed, metrics collection is disabled.
func WithMetricsCollector(collector MetricsCollector) Option {
	return func(o *options) {
		if collector == nil {
			collector = NoopMetricsCollector{}
		}
		o.metrics = collector
	}
}

func defaultOptions() options {
	return options{
		logger:  NoopLogger(),
		seed:    hash.DefaultSeed,
		metrics: NoopMetricsCollector{},
	}
}
