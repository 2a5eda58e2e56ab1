package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/pkg/leadform"
)

// Theme captures optional prefixes applied to printed lines. Keep minimal to
// avoid coupling the flow to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme marks errors with a cross.
func DefaultTheme() Theme {
	return Theme{ErrorPrefix: "✗ "}
}

// Option configures the terminal Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithMessages selects the locale used for prompts and errors.
func WithMessages(m *leadform.Messages) Option {
	return func(r *Runner) {
		if m != nil {
			r.messages = m
		}
	}
}

// WithDelivery sets the adapter that receives submissions from variants
// without a confirmation step. A terminal has no native form post, so the
// runner delivers those itself.
func WithDelivery(adapter leadform.Adapter) Option {
	return func(r *Runner) {
		r.delivery = adapter
	}
}

// WithTheme overrides line prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithMaxAttempts bounds re-prompts per step. Zero means unlimited.
func WithMaxAttempts(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}
