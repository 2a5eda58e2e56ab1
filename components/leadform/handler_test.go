package leadform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/transport"

	pkgleadform "github.com/goliatone/go-leadform/pkg/leadform"
)

var immediate = pkgleadform.SchedulerFunc(func(_ time.Duration, fn func()) { fn() })

type recordingAdapter struct {
	mu   sync.Mutex
	subs []pkgleadform.Submission
	err  error
}

func (a *recordingAdapter) Submit(_ context.Context, sub pkgleadform.Submission) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subs = append(a.subs, sub)
	return a.err
}

// visitor replays the session cookie across requests like a browser.
type visitor struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newVisitor(t *testing.T, h http.Handler) *visitor {
	return &visitor{t: t, handler: h}
}

func (v *visitor) do(method, target string, form url.Values, accept string) *httptest.ResponseRecorder {
	v.t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	for _, cookie := range v.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	v.handler.ServeHTTP(rec, req)
	if set := rec.Result().Cookies(); len(set) > 0 {
		v.cookies = set
	}
	return rec
}

func (v *visitor) page(target string) render.Page {
	v.t.Helper()
	rec := v.do(http.MethodGet, target, nil, "application/json")
	if rec.Code != http.StatusOK {
		v.t.Fatalf("GET %s: expected 200, got %d", target, rec.Code)
	}
	var page render.Page
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		v.t.Fatalf("decode page: %v", err)
	}
	return page
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, code int, location string) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func TestComponent_ThreeStepFlow(t *testing.T) {
	adapter := &recordingAdapter{}
	c := New(WithAdapter(adapter), WithScheduler(immediate))
	v := newVisitor(t, c.Handler())

	rec := v.do(http.MethodGet, "/", nil, "text/html")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="solar-squareFootage"`) {
		t.Fatalf("expected prefixed area input in page")
	}
	if len(v.cookies) != 1 || v.cookies[0].Name != DefaultCookieName || !v.cookies[0].HttpOnly {
		t.Fatalf("expected http-only session cookie, got %+v", v.cookies)
	}

	rec = v.do(http.MethodPost, "/details", url.Values{
		"solar-squareFootage": {"120"},
		"solar-solarValue":    {"15000"},
	}, "text/html")
	expectRedirect(t, rec, http.StatusSeeOther, "/")

	page := v.page("/")
	if page.Step != "estimate_and_capture" || !page.Revealed {
		t.Fatalf("expected revealed estimate step, got %s revealed=%v", page.Step, page.Revealed)
	}
	if page.Estimate == nil || page.Estimate.Low != 70.5 || page.Estimate.High != 142.5 {
		t.Fatalf("unexpected estimate %+v", page.Estimate)
	}

	rec = v.do(http.MethodPost, "/lead", url.Values{"solar-email": {"a@b.co"}}, "text/html")
	expectRedirect(t, rec, http.StatusSeeOther, "/")
	if len(adapter.subs) != 1 || adapter.subs[0].Data.Email != "a@b.co" {
		t.Fatalf("expected one delivered submission, got %+v", adapter.subs)
	}

	rec = v.do(http.MethodGet, "/", nil, "")
	if !strings.Contains(rec.Body.String(), "Hvala na upitu!") {
		t.Fatalf("expected confirmation page")
	}

	rec = v.do(http.MethodPost, "/restart", url.Values{}, "text/html")
	expectRedirect(t, rec, http.StatusSeeOther, "/")
	page = v.page("/")
	if page.Step != "entry_details" || page.Estimate != nil || page.Fields["email"].Value != "" {
		t.Fatalf("expected reset flow, got %+v", page)
	}
	if c.Sessions() != 1 {
		t.Fatalf("expected one session, got %d", c.Sessions())
	}
}

func TestComponent_InvalidDetailsRerender(t *testing.T) {
	v := newVisitor(t, New(WithScheduler(immediate)).Handler())

	rec := v.do(http.MethodPost, "/details", url.Values{
		"solar-squareFootage": {""},
		"solar-solarValue":    {"2000"},
	}, "text/html")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Obavezno polje") {
		t.Fatalf("expected required message in page")
	}

	page := v.page("/")
	if page.Step != "entry_details" {
		t.Fatalf("step must not change, got %s", page.Step)
	}
	if page.Fields["squareFootage"].Error == "" || page.Fields["solarValue"].Error == "" {
		t.Fatalf("expected both field errors, got %+v", page.Fields)
	}
}

func TestComponent_JSONClientsGetStateInsteadOfRedirect(t *testing.T) {
	v := newVisitor(t, New(WithScheduler(immediate)).Handler())

	rec := v.do(http.MethodPost, "/details", url.Values{
		"squareFootage": {"80"},
		"solarValue":    {"5000"},
	}, "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var page render.Page
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Step != "estimate_and_capture" {
		t.Fatalf("unprefixed inputs should be accepted, got step %s", page.Step)
	}
}

func TestComponent_TwoStepHandsOffToEndpoint(t *testing.T) {
	adapter := &recordingAdapter{}
	c := New(
		WithConfig(pkgleadform.TwoStep()),
		WithAdapter(adapter),
		WithEndpoint("/forms"),
		WithLocale("en-US"),
		WithScheduler(immediate),
	)
	v := newVisitor(t, c.Handler())

	rec := v.do(http.MethodPost, "/field", url.Values{"field": {"squareFootage"}, "value": {"10"}}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp fieldResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(fieldResponse{Field: "squareFootage", Error: "The minimum floor area is 40 m²"}, resp); diff != "" {
		t.Fatalf("field response mismatch (-want +got):\n%s", diff)
	}

	rec = v.do(http.MethodPost, "/lead", url.Values{"email": {"a@b.co"}}, "text/html")
	if rec.Code != http.StatusConflict {
		t.Fatalf("lead before details must conflict, got %d", rec.Code)
	}

	rec = v.do(http.MethodPost, "/details", url.Values{"squareFootage": {"120"}, "solarValue": {"15000"}}, "text/html")
	expectRedirect(t, rec, http.StatusSeeOther, "/")

	html := v.do(http.MethodGet, "/", nil, "text/html").Body.String()
	for _, fragment := range []string{`name="form-name"`, `name="estimateLow" value="70.5"`, `data-validate="/field"`} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in two-step capture page", fragment)
		}
	}

	rec = v.do(http.MethodPost, "/lead", url.Values{"email": {"a@b.co"}}, "text/html")
	expectRedirect(t, rec, http.StatusTemporaryRedirect, "/forms")
	if len(adapter.subs) != 0 {
		t.Fatalf("two-step variant must not call the adapter")
	}
}

func TestComponent_FieldLockedAfterDetails(t *testing.T) {
	v := newVisitor(t, New(WithScheduler(immediate)).Handler())
	v.do(http.MethodPost, "/details", url.Values{"solar-squareFootage": {"120"}, "solar-solarValue": {"15000"}}, "text/html")

	rec := v.do(http.MethodPost, "/field", url.Values{"field": {"solar-squareFootage"}, "value": {"90"}}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for locked field, got %d", rec.Code)
	}
}

func TestComponent_AdapterFailureShowsRetry(t *testing.T) {
	adapter := &recordingAdapter{err: errors.New("collector down")}
	v := newVisitor(t, New(WithAdapter(adapter), WithScheduler(immediate)).Handler())
	v.do(http.MethodPost, "/details", url.Values{"solar-squareFootage": {"120"}, "solar-solarValue": {"15000"}}, "text/html")

	rec := v.do(http.MethodPost, "/lead", url.Values{"solar-email": {"a@b.co"}}, "text/html")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Došlo je do greške. Molimo pokušajte ponovno.") {
		t.Fatalf("expected retry message in page")
	}
	page := v.page("/")
	if page.Step != "estimate_and_capture" || page.Submitting {
		t.Fatalf("expected capture step without submitting flag, got %+v", page)
	}
}

func TestComponent_CollectorStatusIsBadGateway(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"errors":{"solar-email":["rejected"]}}`))
			}))
			defer upstream.Close()

			adapter := transport.NewHTTPAdapter(upstream.URL, transport.WithTimeout(2*time.Second))
			v := newVisitor(t, New(WithAdapter(adapter), WithScheduler(immediate)).Handler())
			v.do(http.MethodPost, "/details", url.Values{"solar-squareFootage": {"120"}, "solar-solarValue": {"15000"}}, "application/json")

			rec := v.do(http.MethodPost, "/lead", url.Values{"solar-email": {"a@b.co"}}, "application/json")
			if rec.Code != http.StatusBadGateway {
				t.Fatalf("collector status %d: expected 502, got %d", status, rec.Code)
			}
			page := v.page("/")
			if page.Step != "estimate_and_capture" || page.Submitting || page.SubmitError == "" {
				t.Fatalf("expected capture step with retry message, got %+v", page)
			}
		})
	}
}

func TestComponent_InvalidEmail(t *testing.T) {
	adapter := &recordingAdapter{}
	v := newVisitor(t, New(WithAdapter(adapter), WithScheduler(immediate)).Handler())
	v.do(http.MethodPost, "/details", url.Values{"solar-squareFootage": {"120"}, "solar-solarValue": {"15000"}}, "text/html")

	rec := v.do(http.MethodPost, "/lead", url.Values{"solar-email": {"not-an-email"}}, "text/html")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if len(adapter.subs) != 0 {
		t.Fatalf("invalid email must not reach the adapter")
	}
}

func TestComponent_RestartRejectedBeforeConfirmation(t *testing.T) {
	v := newVisitor(t, New(WithScheduler(immediate)).Handler())
	if rec := v.do(http.MethodPost, "/restart", url.Values{}, "text/html"); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestComponent_Estimate(t *testing.T) {
	h := New(WithLocale("en-US")).Handler()

	req := httptest.NewRequest(http.MethodGet, "/estimate?area=120&solar=15000", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp EstimateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := EstimateResponse{Low: 70.5, High: 142.5, MonthlyLow: 5.875, MonthlyHigh: 11.875, Display: "€6 - €12"}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Fatalf("estimate mismatch (-want +got):\n%s", diff)
	}

	req = httptest.NewRequest(http.MethodGet, "/estimate?area=-1&solar=abc", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	resp = EstimateResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Errors["squareFootage"] != "Must be a positive number" || resp.Errors["solarValue"] != "Must be a number" {
		t.Fatalf("unexpected errors %v", resp.Errors)
	}
}

func TestComponent_MethodsAndUnknownRoutes(t *testing.T) {
	h := New().Handler()
	cases := []struct {
		method, target string
		want           int
	}{
		{http.MethodGet, "/details", http.StatusMethodNotAllowed},
		{http.MethodPost, "/", http.StatusMethodNotAllowed},
		{http.MethodPost, "/estimate", http.StatusMethodNotAllowed},
		{http.MethodGet, "/missing", http.StatusNotFound},
		{http.MethodGet, "/assets/leadform.css", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.target, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.target, tc.want, rec.Code)
		}
	}
}

func TestComponent_TextRenderer(t *testing.T) {
	v := newVisitor(t, New(WithLocale("en-US")).Handler())
	rec := v.do(http.MethodGet, "/", nil, "text/plain")
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("expected text renderer, got %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "Step 1 of 2") {
		t.Fatalf("unexpected text body %q", rec.Body.String())
	}
}

func TestComponent_RegisterRoutesUnderBasePath(t *testing.T) {
	mux := http.NewServeMux()
	c := New(WithScheduler(immediate))
	pattern, err := c.RegisterRoutes(mux, "quote/")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if pattern != "/quote/" || MountPath("quote/") != pattern {
		t.Fatalf("unexpected pattern %q", pattern)
	}

	v := newVisitor(t, mux)
	rec := v.do(http.MethodGet, "/quote/", nil, "text/html")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/quote/details"`) {
		t.Fatalf("expected actions under base path")
	}
	if v.cookies[0].Path != "/quote" {
		t.Fatalf("expected cookie scoped to base path, got %q", v.cookies[0].Path)
	}

	rec = v.do(http.MethodPost, "/quote/details", url.Values{"solar-squareFootage": {"120"}, "solar-solarValue": {"15000"}}, "text/html")
	expectRedirect(t, rec, http.StatusSeeOther, "/quote/")
}
