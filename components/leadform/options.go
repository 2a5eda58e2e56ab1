package leadform

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/transport"

	pkgleadform "github.com/goliatone/go-leadform/pkg/leadform"
)

const (
	DefaultCookieName = "leadform_session"
	DefaultSessionTTL = 30 * time.Minute
)

type Options struct {
	Config  pkgleadform.Config
	Catalog *pkgleadform.Catalog
	// Locale pins every session to one catalog entry. Empty negotiates
	// from Accept-Language when the session starts.
	Locale string
	// Adapter delivers submissions in variants with a confirmation step.
	Adapter pkgleadform.Adapter
	// Endpoint receives the native form post in variants without a
	// confirmation step.
	Endpoint string

	Renderers    *render.Registry
	Themes       *render.ThemeSet
	ThemeName    string
	ThemeVariant string

	CookieName   string
	SessionTTL   time.Duration
	SecureCookie bool

	Scheduler pkgleadform.Scheduler
	Logger    *zap.Logger
	Now       func() time.Time
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Config:     pkgleadform.ThreeStep(),
		Endpoint:   transport.DefaultEndpoint,
		CookieName: DefaultCookieName,
		SessionTTL: DefaultSessionTTL,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.Config.FormName == "" {
		opts.Config = pkgleadform.ThreeStep()
	}
	if opts.Catalog == nil {
		opts.Catalog = pkgleadform.DefaultCatalog()
	}
	if opts.Endpoint == "" {
		opts.Endpoint = transport.DefaultEndpoint
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

func WithConfig(cfg pkgleadform.Config) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Config = cfg
	}
}

func WithCatalog(catalog *pkgleadform.Catalog) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Catalog = catalog
	}
}

func WithLocale(locale string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Locale = locale
	}
}

func WithAdapter(adapter pkgleadform.Adapter) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Adapter = adapter
	}
}

func WithEndpoint(endpoint string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Endpoint = endpoint
	}
}

func WithRenderers(registry *render.Registry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderers = registry
	}
}

// WithTheme selects a theme and variant from themes for every page.
func WithTheme(themes *render.ThemeSet, name, variant string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Themes = themes
		o.ThemeName = name
		o.ThemeVariant = variant
	}
}

func WithCookieName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieName = name
	}
}

func WithSessionTTL(ttl time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SessionTTL = ttl
	}
}

func WithSecureCookie(secure bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SecureCookie = secure
	}
}

// WithScheduler replaces the timer used for the estimate reveal.
func WithScheduler(s pkgleadform.Scheduler) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Scheduler = s
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithClock(now func() time.Time) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Now = now
	}
}
