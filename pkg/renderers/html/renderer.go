package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-leadform/pkg/leadform"
	"github.com/goliatone/go-leadform/pkg/render"
	rendertemplate "github.com/goliatone/go-leadform/pkg/render/template"
	"github.com/goliatone/go-leadform/pkg/render/template/gotemplate"
)

// Option configures the HTML renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	funcs            map[string]any
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide templates/page.tpl and the partials it includes.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTemplateFuncs registers extra template helpers, for example the
// output of render.TemplateI18nFuncs.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.funcs == nil {
			cfg.funcs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.funcs[name] = fn
		}
	}
}

// Renderer renders complete lead form pages.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	policy    *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		funcs := render.TemplateI18nFuncs(leadform.DefaultCatalog(), render.TemplateI18nConfig{})
		for name, fn := range cfg.funcs {
			funcs[name] = fn
		}
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
			gotemplate.WithTemplateFunc(funcs),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		policy:    bluemonday.StrictPolicy(),
	}, nil
}

// Name identifies the renderer inside the registry.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType returns the MIME type for generated documents.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

type progressItem struct {
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Render produces the full page for view.
func (r *Renderer) Render(_ context.Context, view leadform.View, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	page := render.BuildPage(view, opts)
	msgs := opts.ResolveMessages()

	progress := make([]progressItem, 0, page.Steps)
	for i := 1; i <= page.Steps; i++ {
		progress = append(progress, progressItem{
			Label:  render.ProgressLabel(msgs, i, page.Steps),
			Active: i == page.StepNumber,
		})
	}

	result, err := r.templates.RenderTemplate(PageTemplate, map[string]any{
		"page":     page,
		"progress": progress,
		"locale":   page.Locale,
		"email":    r.policy.Sanitize(page.Email),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}
