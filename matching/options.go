package matching

import (
	"log/slog"

	"github.com/nvr-ai/go-detmatch/assignment"
)

// DefaultIoUThreshold is the minimum IoU for a pair to count as a match.
const DefaultIoUThreshold = 0.4

// Option configures a Matcher.
type Option func(*config)

type config struct {
	threshold float64
	solver    assignment.Solver
	logger    *slog.Logger
}

func defaultConfig() config {
	return config{
		threshold: DefaultIoUThreshold,
		solver:    assignment.Default(),
		logger:    slog.Default(),
	}
}

// WithIoUThreshold sets the inclusive IoU threshold (default: 0.4). It must lie
// in [0, 1].
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

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
