package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-leadform/pkg/leadform"
	"github.com/goliatone/go-leadform/pkg/render"
)

// TextRenderer renders a snapshot as plain text, the non-interactive
// counterpart of Runner.
type TextRenderer struct{}

var _ render.Renderer = TextRenderer{}

func (TextRenderer) Name() string {
	return "text"
}

func (TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (TextRenderer) Render(_ context.Context, view leadform.View, opts render.RenderOptions) ([]byte, error) {
	page := render.BuildPage(view, opts)
	msgs := opts.ResolveMessages()

	var b strings.Builder
	if page.Progress != "" {
		fmt.Fprintln(&b, page.Progress)
	}
	for _, field := range leadform.Fields() {
		pf := page.Fields[string(field)]
		if pf.Value == "" && pf.Error == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", pf.Label, pf.Value)
		if pf.Error != "" {
			fmt.Fprintf(&b, "  ✗ %s\n", pf.Error)
		}
	}
	if view.Estimate != nil {
		fmt.Fprintln(&b, msgs.Text("ui.estimate_title", nil))
		fmt.Fprintf(&b, "%s %s\n", render.FormatRange(view.Estimate.Monthly(), page.Locale), msgs.Text("ui.per_month", nil))
		fmt.Fprintf(&b, "(%s %s)\n", render.FormatRange(*view.Estimate, page.Locale), msgs.Text("ui.per_year", nil))
	}
	if page.SubmitError != "" {
		fmt.Fprintf(&b, "✗ %s\n", page.SubmitError)
	}
	return []byte(b.String()), nil
}
