// Package config reads the leadform server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/goliatone/go-leadform/pkg/leadform"
)

// Config holds the runtime settings shared by the leadform commands. CLI
// flags override these values after Load.
type Config struct {
	Addr     string `env:"LEADFORM_ADDR" envDefault:":8080"`
	BasePath string `env:"LEADFORM_BASE_PATH" envDefault:"/"`

	// Variant names a preset (three-step, two-step). VariantFile, when set,
	// takes precedence and is overlaid on the preset it names.
	Variant      string `env:"LEADFORM_VARIANT" envDefault:"three-step"`
	VariantFile  string `env:"LEADFORM_VARIANT_FILE"`
	Locale       string `env:"LEADFORM_LOCALE" envDefault:"hr-HR"`
	Theme        string `env:"LEADFORM_THEME"`
	ThemeVariant string `env:"LEADFORM_THEME_VARIANT"`

	// Endpoint is where submissions are posted. Blank posts to the
	// embedded collector.
	Endpoint      string        `env:"LEADFORM_ENDPOINT"`
	SubmitTimeout time.Duration `env:"LEADFORM_SUBMIT_TIMEOUT" envDefault:"10s"`
	SessionTTL    time.Duration `env:"LEADFORM_SESSION_TTL" envDefault:"30m"`

	CollectorPath string `env:"LEADFORM_COLLECTOR_PATH" envDefault:"/forms"`
	DBPath        string `env:"LEADFORM_DB" envDefault:"leadform.db"`

	LogLevel     string `env:"LEADFORM_LOG_LEVEL"`
	LogFormat    string `env:"LEADFORM_LOG_FORMAT" envDefault:"console"`
	OTelEndpoint string `env:"LEADFORM_OTEL_ENDPOINT"`

	ShutdownTimeout time.Duration `env:"LEADFORM_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("config: addr is required"))
	}
	if c.SubmitTimeout < 0 {
		errs = append(errs, errors.New("config: submit timeout must not be negative"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("config: session ttl must be positive"))
	}
	if c.VariantFile == "" {
		if _, err := leadform.Preset(c.Variant); err != nil {
			errs = append(errs, fmt.Errorf("config: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LeadformConfig resolves the flow variant.
func (c Config) LeadformConfig() (leadform.Config, error) {
	if strings.TrimSpace(c.VariantFile) != "" {
		cfg, err := leadform.LoadConfigFile(c.VariantFile)
		if err != nil {
			return leadform.Config{}, fmt.Errorf("config: variant file: %w", err)
		}
		return cfg, nil
	}
	return leadform.Preset(c.Variant)
}
