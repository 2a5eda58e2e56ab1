package collector

import (
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/internal/storage"
	"github.com/goliatone/go-leadform/pkg/leadform"
)

// Form lists the field prefixes accepted for one form name. The empty
// prefix matches unprefixed submissions.
type Form struct {
	Name     string
	Prefixes []string
}

type Options struct {
	RoutePath    string
	MaxBodyBytes int64
	Forms        map[string]Form
	Store        storage.Store
	Catalog      *leadform.Catalog
	Policy       *bluemonday.Policy
	Logger       *zap.Logger
	Tracer       trace.Tracer
}

type OptionFn func(*Options)

// DefaultOptions accepts the built-in form name with both the prefixed and
// the unprefixed field layout.
func DefaultOptions() Options {
	return Options{
		RoutePath:    "/forms",
		MaxBodyBytes: 64 << 10,
		Forms: map[string]Form{
			leadform.DefaultFormName: {
				Name:     leadform.DefaultFormName,
				Prefixes: []string{leadform.ThreeStep().FieldPrefix, leadform.TwoStep().FieldPrefix},
			},
		},
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
	if opts.RoutePath == "" {
		opts.RoutePath = "/forms"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 64 << 10
	}
	if opts.Catalog == nil {
		opts.Catalog = leadform.DefaultCatalog()
	}
	if opts.Policy == nil {
		opts.Policy = bluemonday.StrictPolicy()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("github.com/goliatone/go-leadform/components/collector")
	}
	forms := make(map[string]Form, len(opts.Forms))
	for name, form := range opts.Forms {
		form.Prefixes = append([]string{}, form.Prefixes...)
		forms[name] = form
	}
	opts.Forms = forms
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithForm registers or replaces an accepted form.
func WithForm(name string, prefixes ...string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if o.Forms == nil {
			o.Forms = map[string]Form{}
		}
		o.Forms[name] = Form{Name: name, Prefixes: append([]string{}, prefixes...)}
	}
}

// WithOnlyForms drops the default form so only WithForm entries are
// accepted.
func WithOnlyForms() OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Forms = map[string]Form{}
	}
}

func WithStore(store storage.Store) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Store = store
	}
}

func WithCatalog(catalog *leadform.Catalog) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Catalog = catalog
	}
}

func WithPolicy(policy *bluemonday.Policy) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Policy = policy
	}
}

func WithMaxBodyBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = limit
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

func WithTracer(tracer trace.Tracer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Tracer = tracer
	}
}
