package leadform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ValidationMode selects when field validators run.
type ValidationMode string

const (
	// ValidateOnSubmit validates a step's fields only when the step is
	// submitted.
	ValidateOnSubmit ValidationMode = "submit"
	// ValidateOnChange re-validates the edited field on every change,
	// leaving the other fields' errors untouched.
	ValidateOnChange ValidationMode = "change"
)

const (
	// DefaultFormName is the form identifier sent with every submission.
	DefaultFormName = "solar-insurance-leads"
	// DefaultRevealDelay separates the step change from the estimate reveal.
	DefaultRevealDelay = 100 * time.Millisecond

	PresetThreeStep = "three-step"
	PresetTwoStep   = "two-step"
)

// Config describes one variant of the flow. The variants share a single
// state machine and differ only in these settings.
type Config struct {
	Name         string         `json:"name" yaml:"name"`
	AreaRange    *Range         `json:"areaRange,omitempty" yaml:"areaRange"`
	SolarRange   Range          `json:"solarRange" yaml:"solarRange"`
	Validation   ValidationMode `json:"validation" yaml:"validation"`
	Confirmation bool           `json:"confirmation" yaml:"confirmation"`
	FieldPrefix  string         `json:"fieldPrefix" yaml:"fieldPrefix"`
	FormName     string         `json:"formName" yaml:"formName"`
	RevealDelay  time.Duration  `json:"revealDelay" yaml:"revealDelay"`
}

// ThreeStep is the original variant: validation on submit, positive area
// only, an adapter-backed submission and a confirmation step with restart.
func ThreeStep() Config {
	return Config{
		Name:         PresetThreeStep,
		SolarRange:   SolarValueRange,
		Validation:   ValidateOnSubmit,
		Confirmation: true,
		FieldPrefix:  "solar-",
		FormName:     DefaultFormName,
		RevealDelay:  DefaultRevealDelay,
	}
}

// TwoStep validates on every change, bounds the area to StrictAreaRange and
// hands the final submission to the transport's native form post.
func TwoStep() Config {
	area := StrictAreaRange
	return Config{
		Name:         PresetTwoStep,
		AreaRange:    &area,
		SolarRange:   SolarValueRange,
		Validation:   ValidateOnChange,
		Confirmation: false,
		FormName:     DefaultFormName,
		RevealDelay:  DefaultRevealDelay,
	}
}

// Preset returns the named built-in variant.
func Preset(name string) (Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetThreeStep:
		return ThreeStep(), nil
	case PresetTwoStep:
		return TwoStep(), nil
	default:
		return Config{}, fmt.Errorf("leadform: unknown preset %q", name)
	}
}

// IndicatorSteps is the number of numbered steps: the two input steps. The
// confirmation screen is not numbered.
const IndicatorSteps = 2

// Steps reports how many steps the progress indicator shows.
func (c Config) Steps() int {
	return IndicatorSteps
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	var errs []error
	if c.AreaRange != nil && c.AreaRange.Min > c.AreaRange.Max {
		errs = append(errs, fmt.Errorf("areaRange min %v exceeds max %v", c.AreaRange.Min, c.AreaRange.Max))
	}
	if c.SolarRange.Min > c.SolarRange.Max {
		errs = append(errs, fmt.Errorf("solarRange min %v exceeds max %v", c.SolarRange.Min, c.SolarRange.Max))
	}
	switch c.Validation {
	case ValidateOnSubmit, ValidateOnChange:
	default:
		errs = append(errs, fmt.Errorf("validation mode %q is not supported", c.Validation))
	}
	if strings.TrimSpace(c.FormName) == "" {
		errs = append(errs, errors.New("formName is required"))
	}
	if c.RevealDelay < 0 {
		errs = append(errs, errors.New("revealDelay must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("leadform: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

type variantFile struct {
	Preset string `yaml:"preset"`
}

// LoadConfig decodes a YAML variant. The optional `preset` key selects the
// base configuration the remaining keys are applied on top of.
func LoadConfig(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("leadform: read config: %w", err)
	}

	var head variantFile
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("leadform: parse config: %w", err)
	}
	cfg, err := Preset(head.Preset)
	if err != nil {
		return Config{}, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("leadform: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML variant from path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("leadform: open config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}
