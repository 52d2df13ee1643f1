package coro

import (
	"github.com/rs/zerolog"

	"github.com/unnamed2/libcoro/metrics"
)

// Option configures a *Runtime. Use NewRuntime(opts...) to construct one.
type Option func(*config)

// WithMaxWorkers caps the scheduler's worker pool at n (must be > 0). The
// pool still grows lazily; this only sets the ceiling.
func WithMaxWorkers(n uint) Option {
	return func(c *config) {
		if n == 0 {
			panic("coro: WithMaxWorkers requires n > 0")
		}
		c.MaxWorkers = n
	}
}

// WithPanicPolicy sets the policy applied to panics recovered from task
// bodies. Default: PolicyLog.
func WithPanicPolicy(p Policy) Option {
	return func(c *config) { c.Panic = p }
}

// WithMetrics sets the metrics.Provider instruments are recorded against.
// Default: metrics.NewNoopProvider().
func WithMetrics(p metrics.Provider) Option {
	return func(c *config) {
		if p == nil {
			panic("coro: WithMetrics requires a non-nil provider")
		}
		c.Metrics = p
	}
}

// WithLogger sets the logger the runtime records worker and panic events to.
// Default: a disabled zerolog.Logger (zerolog.Nop()).
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.Logger = l }
}

// newConfig builds a config from options, applying defaults first.
func newConfig(opts ...Option) (config, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			panic("coro: nil runtime option")
		}
		opt(&c)
	}
	if err := validateConfig(&c); err != nil {
		return config{}, err
	}
	return c, nil
}
