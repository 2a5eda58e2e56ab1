package leadform

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/html"
	"github.com/goliatone/go-leadform/pkg/renderers/jsonview"
	"github.com/goliatone/go-leadform/pkg/renderers/tui"

	pkgleadform "github.com/goliatone/go-leadform/pkg/leadform"
)

// Component serves the lead form and owns the visitor sessions. Every mount
// of one component shares the same sessions.
type Component struct {
	opts     Options
	sessions *sessionStore

	renderersOnce sync.Once
	renderers     *render.Registry
	renderersErr  error
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	c := &Component{opts: NewOptions(fns...)}
	c.sessions = newSessionStore(c.opts.SessionTTL, c.opts.Now, c.newController)
	return c
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return NewOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler serves the component at the root path.
func (c *Component) Handler() http.Handler {
	return c.handler("")
}

// RegisterRoutes mounts the component under basePath on mux and returns
// the registered pattern.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("leadform: nil component")
	}
	if mux == nil {
		return "", fmt.Errorf("leadform: missing mux")
	}
	base := normalizeBase(basePath)
	pattern := base + "/"
	mux.Handle(pattern, c.handler(base))
	return pattern, nil
}

// Sessions reports the number of live sessions.
func (c *Component) Sessions() int {
	return c.sessions.len()
}

func (c *Component) newController(locale string) *pkgleadform.Controller {
	options := []pkgleadform.Option{
		pkgleadform.WithMessages(c.opts.Catalog.Messages(locale)),
		pkgleadform.WithLogger(c.opts.Logger),
	}
	if c.opts.Adapter != nil {
		options = append(options, pkgleadform.WithAdapter(c.opts.Adapter))
	}
	if c.opts.Scheduler != nil {
		options = append(options, pkgleadform.WithScheduler(c.opts.Scheduler))
	}
	return pkgleadform.NewController(c.opts.Config, options...)
}

// registry returns the configured renderers, or HTML, JSON and text.
func (c *Component) registry() (*render.Registry, error) {
	if c.opts.Renderers != nil {
		return c.opts.Renderers, nil
	}
	c.renderersOnce.Do(func() {
		c.renderers, c.renderersErr = DefaultRenderers()
	})
	return c.renderers, c.renderersErr
}

// DefaultRenderers registers the HTML, JSON and plain-text renderers.
func DefaultRenderers() (*render.Registry, error) {
	htmlRenderer, err := html.New()
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	for _, renderer := range []render.Renderer{htmlRenderer, jsonview.New(), tui.TextRenderer{}} {
		if err := registry.Register(renderer); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
