package dstring

import "github.com/dshills/evstring/internal/logging"

// Default growth ratio applied on reallocation.
const (
	DefaultGrowthNumerator   = 3
	DefaultGrowthDenominator = 2
)

// Option configures a String during creation.
type Option func(*options)

// options is shared by a String and every String derived from it.
type options struct {
	alloc      Allocator
	growNum    int
	growDen    int
	initialCap int
	logger     *logging.Logger
}

func newOptions(opts []Option) *options {
	o := &options{
		alloc:   DefaultAllocator,
		growNum: DefaultGrowthNumerator,
		growDen: DefaultGrowthDenominator,
		logger:  logging.Null,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAllocator sets the allocator backing the string.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.alloc = a
		}
	}
}

// WithGrowthFactor sets the capacity multiplier num/den used by Grow.
// Ratios that would not grow (num <= den) are ignored.
func WithGrowthFactor(num, den int) Option {
	return func(o *options) {
		if den > 0 && num > den {
			o.growNum = num
			o.growDen = den
		}
	}
}

// WithInitialCapacity sets the minimum capacity allocated at construction.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialCap = n
		}
	}
}

// WithLogger sets the logger that receives reallocation diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l.WithComponent("dstring")
		}
	}
}
