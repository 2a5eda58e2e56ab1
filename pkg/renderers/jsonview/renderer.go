// Package jsonview renders controller snapshots as JSON documents for API
// clients and progressive enhancement scripts.
package jsonview

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-leadform/pkg/leadform"
	"github.com/goliatone/go-leadform/pkg/render"
)

// Renderer emits render.Page as JSON.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent pretty-prints the output using indent per level.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// New constructs the JSON renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// document omits the message tree, which clients load separately.
type document struct {
	render.Page
	Text map[string]any `json:"text,omitempty"`
}

func (r *Renderer) Render(_ context.Context, view leadform.View, opts render.RenderOptions) ([]byte, error) {
	doc := document{Page: render.BuildPage(view, opts)}
	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(doc, "", r.indent)
	} else {
		out, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("json renderer: marshal page: %w", err)
	}
	return out, nil
}
