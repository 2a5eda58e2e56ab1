package html_test

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-leadform/pkg/leadform"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/html"
)

func newRenderer(t *testing.T) *html.Renderer {
	t.Helper()
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func renderView(t *testing.T, view leadform.View, opts render.RenderOptions) string {
	t.Helper()
	out, err := newRenderer(t).Render(context.Background(), view, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, output)
		}
	}
}

func TestRenderer_EntryDetailsStep(t *testing.T) {
	c := leadform.NewController(leadform.ThreeStep())
	if err := c.SubmitDetails(); err == nil {
		t.Fatalf("expected validation failure")
	}

	output := renderView(t, c.View(), render.RenderOptions{BasePath: "/quote"})
	assertContains(t, output,
		`<html lang="hr-HR">`,
		`action="/quote/details"`,
		`name="solar-squareFootage"`,
		`name="solar-solarValue"`,
		"Korak 1 od 2",
		"Obavezno polje",
		"Prikaži procjenu",
		`href="/quote/assets/leadform.css"`,
	)
	if strings.Contains(output, "leadform.js") {
		t.Fatalf("three-step pages do not load the on-change script")
	}
}

func TestRenderer_EstimateStepTwoStepVariant(t *testing.T) {
	c := leadform.NewController(leadform.TwoStep())
	_ = c.SetField(leadform.FieldSquareFootage, "120")
	_ = c.SetField(leadform.FieldSolarValue, "15000")
	if err := c.SubmitDetails(); err != nil {
		t.Fatalf("submit details: %v", err)
	}

	output := renderView(t, c.View(), render.RenderOptions{Locale: "en-US", Action: "/collect"})
	assertContains(t, output,
		"Your insurance estimate",
		"Step 2 of 2",
		`action="/collect"`,
		`<input type="hidden" name="form-name" value="solar-insurance-leads">`,
		`<input type="hidden" name="estimateLow" value="70.5">`,
		`<input type="hidden" name="squareFootage" value="120">`,
		`name="email"`,
		`data-validate="/field"`,
		"leadform.js",
		"per month",
	)
}

func TestRenderer_ConfirmedEscapesEmail(t *testing.T) {
	view := leadform.View{
		Step:         leadform.StepConfirmed,
		Steps:        2,
		Confirmation: true,
		Data:         leadform.FormData{Email: `x<script>alert(1)</script>@b.co`},
	}
	output := renderView(t, view, render.RenderOptions{})
	if strings.Contains(output, "<script>alert(1)</script>") {
		t.Fatalf("email must be sanitised:\n%s", output)
	}
	assertContains(t, output, "Hvala na upitu!", `action="/restart"`)
}

func TestRenderer_ThemeStyle(t *testing.T) {
	view := leadform.View{Step: leadform.StepEntryDetails, Steps: 2}
	output := renderView(t, view, render.RenderOptions{
		Theme: render.ThemeConfig(selectionFor(t), nil),
	})
	assertContains(t, output, "--brand: #0f766e", `data-theme="solar"`)
}

func TestAssetsFS(t *testing.T) {
	for _, name := range []string{html.StylesheetName, html.ScriptName} {
		if _, err := fs.Stat(html.AssetsFS(), name); err != nil {
			t.Fatalf("expected embedded asset %s: %v", name, err)
		}
	}
}

func TestRenderer_ProgressShowsTwoInputSteps(t *testing.T) {
	view := leadform.View{Step: leadform.StepConfirmed, Steps: leadform.ThreeStep().Steps(), Confirmation: true}
	output := renderView(t, view, render.RenderOptions{})
	assertContains(t, output, "Korak 1 od 2", "Korak 2 od 2")
	if strings.Contains(output, "od 3") || strings.Contains(output, "is-active") {
		t.Fatalf("confirmation screen adds no numbered step:\n%s", output)
	}
}
