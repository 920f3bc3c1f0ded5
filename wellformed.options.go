package wellformed

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Checker.
type Option func(*checkerConfig)

// checkerConfig holds the internal configuration for a Checker.
type checkerConfig struct {
	maxInputSize int
	logger       *zap.Logger
}

// defaultCheckerConfig returns the default checker configuration.
func defaultCheckerConfig() *checkerConfig {
	return &checkerConfig{
		maxInputSize: DefaultMaxInputSize,
		logger:       nil,
	}
}

// WithMaxInputSize rejects inputs longer than n bytes with OutcomeTooLarge.
// Use 0 for unlimited.
// Default: 0
func WithMaxInputSize(n int) Option {
	return func(c *checkerConfig) {
		c.maxInputSize = n
	}
}

// WithLogger sets the logger for the checker.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *checkerConfig) {
		c.logger = logger
	}
}
