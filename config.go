package coro

import (
	"runtime"

	"github.com/rs/zerolog"

	"github.com/unnamed2/libcoro/metrics"
)

// config holds Runtime configuration.
type config struct {
	// MaxWorkers caps the scheduler's worker pool, which grows lazily up to
	// it. Default: runtime.NumCPU(). Zero fails validation.
	MaxWorkers uint

	// Panic is the policy applied to panics recovered from task bodies.
	// Default: PolicyLog.
	Panic Policy

	// Metrics receives scheduler instrumentation (ready-queue depth, live
	// workers, dispatch count). Default: a metrics.NoopProvider.
	Metrics metrics.Provider

	// Logger receives structured runtime events (task panics, and tasks a
	// worker drops because resume refused them). Default: a disabled
	// zerolog.Logger.
	Logger zerolog.Logger
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		MaxWorkers: uint(runtime.NumCPU()),
		Panic:      PolicyLog,
		Metrics:    metrics.NewNoopProvider(),
		Logger:     zerolog.Nop(),
	}
}

// validateConfig performs lightweight invariant checks.
func validateConfig(c *config) error {
	if c.MaxWorkers == 0 {
		return ErrInvalidConfig
	}
	return nil
}
