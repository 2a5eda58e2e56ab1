package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/leadform"
)

func sampleSubmission(prefix string) leadform.Submission {
	return leadform.Submission{
		FormName:    leadform.DefaultFormName,
		FieldPrefix: prefix,
		Data: leadform.FormData{
			SquareFootage: "120",
			SolarValue:    "15000",
			Email:         "a@b.co",
		},
		Estimate: leadform.Calculate(120, 15000),
	}
}

func TestHTTPAdapter_PostsURLEncodedForm(t *testing.T) {
	var (
		gotMethod string
		gotType   string
		gotForm   url.Values
		gotHeader string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotHeader = r.Header.Get("X-Source")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = r.PostForm
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	adapter := NewHTTPAdapter(server.URL, WithClient(server.Client()), WithHeader("X-Source", "leadform"))
	if err := adapter.Submit(context.Background(), sampleSubmission("solar-")); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotType != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", gotType)
	}
	if gotHeader != "leadform" {
		t.Fatalf("expected custom header, got %q", gotHeader)
	}
	want := url.Values{
		"form-name":           {"solar-insurance-leads"},
		"solar-squareFootage": {"120"},
		"solar-solarValue":    {"15000"},
		"solar-email":         {"a@b.co"},
		"solar-estimateLow":   {"70.5"},
		"solar-estimateHigh":  {"142.5"},
	}
	if diff := cmp.Diff(want, gotForm); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPAdapter_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "form not found", http.StatusNotFound)
	}))
	defer server.Close()

	err := NewHTTPAdapter(server.URL, WithClient(server.Client())).Submit(context.Background(), sampleSubmission(""))
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode() != http.StatusNotFound || statusErr.Body != "form not found" {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
}

func TestHTTPAdapter_TimeoutIsFailure(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	adapter := NewHTTPAdapter(server.URL, WithClient(server.Client()), WithTimeout(20*time.Millisecond))
	err := adapter.Submit(context.Background(), sampleSubmission(""))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestHTTPAdapter_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	if err := NewHTTPAdapter(endpoint).Submit(context.Background(), sampleSubmission("")); err == nil {
		t.Fatalf("expected transport error for closed server")
	}
}

func TestHTTPAdapter_ControllerRetryAfterFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := leadform.ThreeStep()
	cfg.RevealDelay = 0
	c := leadform.NewController(cfg, leadform.WithAdapter(NewHTTPAdapter(server.URL, WithClient(server.Client()))))
	for field, value := range map[leadform.Field]string{
		leadform.FieldSquareFootage: "120",
		leadform.FieldSolarValue:    "15000",
	} {
		if err := c.SetField(field, value); err != nil {
			t.Fatalf("set %s: %v", field, err)
		}
	}
	if err := c.SubmitDetails(); err != nil {
		t.Fatalf("submit details: %v", err)
	}
	if err := c.SetField(leadform.FieldEmail, "a@b.co"); err != nil {
		t.Fatalf("set email: %v", err)
	}

	if _, err := c.SubmitLead(context.Background()); !errors.Is(err, leadform.ErrSubmissionFailed) {
		t.Fatalf("expected submission failure, got %v", err)
	}
	if c.Step() != leadform.StepEstimateAndCapture || c.View().Submitting {
		t.Fatalf("failure must keep the step and clear submitting: %+v", c.View())
	}
	if _, err := c.SubmitLead(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if c.Step() != leadform.StepConfirmed {
		t.Fatalf("expected confirmed step, got %s", c.Step())
	}
}

func TestNewHTTPAdapter_DefaultEndpoint(t *testing.T) {
	if got := NewHTTPAdapter("  ").Endpoint(); got != DefaultEndpoint {
		t.Fatalf("expected default endpoint, got %q", got)
	}
}
