package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/leadform"
	"github.com/goliatone/go-leadform/pkg/render"
)

type namedRenderer struct {
	name        string
	contentType string
}

func (r namedRenderer) Name() string        { return r.name }
func (r namedRenderer) ContentType() string { return r.contentType }
func (r namedRenderer) Render(context.Context, leadform.View, render.RenderOptions) ([]byte, error) {
	return []byte(r.name), nil
}

func TestRegistry_RegisterAndNegotiate(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer{name: "html", contentType: "text/html; charset=utf-8"})
	registry.MustRegister(namedRenderer{name: "json", contentType: "application/json"})

	if err := registry.Register(namedRenderer{name: "json"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if diff := cmp.Diff([]string{"html", "json"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	got, err := registry.Negotiate([]string{"application/json"}, "html")
	if err != nil || got.Name() != "json" {
		t.Fatalf("expected json renderer, got %v, %v", got, err)
	}
	got, err = registry.Negotiate([]string{"text/plain"}, "html")
	if err != nil || got.Name() != "html" {
		t.Fatalf("expected fallback html renderer, got %v, %v", got, err)
	}
	got, err = registry.Negotiate(render.AcceptList("text/html;q=0.9, application/json"), "json")
	if err != nil || got.Name() != "html" {
		t.Fatalf("expected html renderer ignoring parameters, got %v, %v", got, err)
	}
	if _, err := registry.Get("xml"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
}
