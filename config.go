package leadform

import (
	core "github.com/goliatone/go-leadform/pkg/leadform"
)

// LoadConfigFile reads a YAML variant file; omitted keys keep the three-step
// defaults.
func LoadConfigFile(path string) (Config, error) {
	return core.LoadConfigFile(path)
}

// Preset returns a named variant ("three-step" or "two-step").
func Preset(name string) (Config, error) {
	return core.Preset(name)
}
