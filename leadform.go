// Package leadform is the top-level entry point of the module. It re-exports
// the core types and wires the HTTP component with sensible defaults for
// callers that only want to mount the form.
package leadform

import (
	"net/http"

	component "github.com/goliatone/go-leadform/components/leadform"
	core "github.com/goliatone/go-leadform/pkg/leadform"
)

// Config selects the variant the form runs as.
type Config = core.Config

// Controller is one visitor's form state machine.
type Controller = core.Controller

// Estimate is a yearly premium range.
type Estimate = core.Estimate

// Submission is the payload handed to the form-collection transport.
type Submission = core.Submission

// ThreeStep returns the original three-step variant.
func ThreeStep() Config {
	return core.ThreeStep()
}

// TwoStep returns the two-step variant with on-change validation.
func TwoStep() Config {
	return core.TwoStep()
}

// NewController exposes the controller constructor from the top-level module.
func NewController(cfg Config, options ...core.Option) *Controller {
	return core.NewController(cfg, options...)
}

// Calculate returns the yearly estimate for a floor area in m² and a solar
// installation value in EUR.
func Calculate(area, solarValue float64) Estimate {
	return core.Calculate(area, solarValue)
}

// NewHandler builds the HTTP component and returns its handler, mounted at
// the root path.
func NewHandler(options ...component.OptionFn) http.Handler {
	return component.New(options...).Handler()
}
