package snapshot

import (
	"github.com/hupe1980/stringpool"
	"github.com/hupe1980/stringpool/resource"
)

type options struct {
	compression CompressionType
	controller  *resource.Controller
	poolOpts    []stringpool.Option
	frozen      bool
}

// Option configures saving and loading of snapshots.
type Option func(*options)

// WithCompression selects the compression algorithm for the data section.
// The default is CompressionNone.
func WithCompression(ctype CompressionType) Option {
	return func(o *options) {
		o.compression = ctype
	}
}

// WithController throttles snapshot IO through a resource controller.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithPoolOptions passes additional options to the pool built during load.
func WithPoolOptions(optFns ...stringpool.Option) Option {
	return func(o *options) {
		o.poolOpts = append(o.poolOpts, optFns...)
	}
}

// WithFrozen loads the pool frozen regardless of the phase it was saved in.
func WithFrozen() Option {
	return func(o *options) {
		o.frozen = true
	}
}
