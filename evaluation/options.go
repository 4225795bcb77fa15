package evaluation

import (
	"log/slog"
	"runtime"

	"github.com/nvr-ai/go-detmatch/assignment"
	"github.com/nvr-ai/go-detmatch/matching"
)

// ErrorPolicy decides what a failing image does to the batch.
type ErrorPolicy int

const (
	// AbortOnError stops the batch and returns the first failing image's error.
	AbortOnError ErrorPolicy = iota
	// SkipFailedImages drops failing images and keeps building the table.
	SkipFailedImages
)

func (p ErrorPolicy) String() string {
	switch p {
	case AbortOnError:
		return "abort"
	case SkipFailedImages:
		return "skip"
	default:
		return "unknown"
	}
}

// Option configures a Builder.
type Option func(*config)

type config struct {
	threshold float64
	solver    assignment.Solver
	policy    ErrorPolicy
	workers   int
	logger    *slog.Logger
	metrics   MetricsCollector
}

func defaultConfig() config {
	return config{
		threshold: matching.DefaultIoUThreshold,
		solver:    assignment.Default(),
		policy:    AbortOnError,
		workers:   runtime.NumCPU(),
		logger:    slog.Default(),
		metrics:   NoopMetricsCollector{},
	}
}

// WithIoUThreshold sets the inclusive matching IoU threshold (default: 0.4).
func WithIoUThreshold(t float64) Option {
	return func(c *config) {
		c.threshold = t
	}
}

// WithSolver sets the assignment solver (default: assignment.JonkerVolgenant).
func WithSolver(s assignment.Solver) Option {
	return func(c *config) {
		if s != nil {
			c.solver = s
		}
	}
}

// WithErrorPolicy sets how per-image failures are handled (default: AbortOnError).
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithConcurrency sets how many images are matched in parallel
// (default: runtime.NumCPU()). 1 matches images sequentially.
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetricsCollector sets the metrics collector. Pass nil to disable metrics.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(c *config) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		c.metrics = m
	}
}
