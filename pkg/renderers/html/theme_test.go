package html_test

import (
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-leadform/pkg/render"
)

func selectionFor(t *testing.T) *theme.Selection {
	t.Helper()
	set, err := render.NewThemeSet(&theme.Manifest{
		Name:    "solar",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#0f766e"},
	})
	if err != nil {
		t.Fatalf("theme set: %v", err)
	}
	selection, err := set.Select("solar", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	return selection
}
