// Package testsupport holds fixtures and golden-file helpers shared by the
// package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/leadform"
)

// Immediate returns cfg with the estimate reveal made synchronous.
func Immediate(cfg leadform.Config) leadform.Config {
	cfg.RevealDelay = 0
	return cfg
}

// DetailsSubmitted returns a controller that already accepted area and solar
// and sits on the estimate step with the estimate revealed.
func DetailsSubmitted(t *testing.T, cfg leadform.Config, area, solar string, opts ...leadform.Option) *leadform.Controller {
	t.Helper()

	c := leadform.NewController(Immediate(cfg), opts...)
	if err := c.SetField(leadform.FieldSquareFootage, area); err != nil {
		t.Fatalf("set area: %v", err)
	}
	if err := c.SetField(leadform.FieldSolarValue, solar); err != nil {
		t.Fatalf("set solar: %v", err)
	}
	if err := c.SubmitDetails(); err != nil {
		t.Fatalf("submit details: %v", err)
	}
	return c
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertGolden compares got with the golden file at path, rewriting the file
// instead when UPDATE_GOLDENS is set.
func AssertGolden(t *testing.T, path string, got []byte) {
	t.Helper()
	if WriteMaybeGolden(t, path, got) {
		return
	}
	want := MustReadGoldenString(t, path)
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("golden mismatch %s (-want +got):\n%s", path, diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
