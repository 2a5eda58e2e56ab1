package jsonview_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/leadform"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/jsonview"
	"github.com/goliatone/go-leadform/pkg/testsupport"
)

func TestRenderer_Render(t *testing.T) {
	c := testsupport.DetailsSubmitted(t, leadform.ThreeStep(), "120", "15000")

	out, err := jsonview.New().Render(context.Background(), c.View(), render.RenderOptions{Locale: "en-US"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got struct {
		Step     string         `json:"step"`
		Revealed bool           `json:"revealed"`
		Estimate map[string]any `json:"estimate"`
		Text     map[string]any `json:"text"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if got.Step != "estimate_and_capture" || !got.Revealed {
		t.Fatalf("unexpected step payload %+v", got)
	}
	if diff := cmp.Diff(70.5, got.Estimate["low"]); diff != "" {
		t.Fatalf("low mismatch (-want +got):\n%s", diff)
	}
	if got.Text != nil {
		t.Fatalf("expected message tree omitted, got %v", got.Text)
	}
}
