package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/pkg/leadform"
)

const (
	// DefaultEndpoint posts back to the hosting page, the way a static-site
	// form backend intercepts submissions.
	DefaultEndpoint = "/"
	// DefaultTimeout bounds a submission so a hung request surfaces as a
	// normal failure instead of leaving the form submitting forever.
	DefaultTimeout = 10 * time.Second

	tracerName = "github.com/goliatone/go-leadform/pkg/transport"
)

// StatusError reports a non-2xx answer from the collection endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("transport: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("transport: unexpected status %d: %s", e.Code, e.Body)
}

// StatusCode returns the HTTP status carried by the error.
func (e *StatusError) StatusCode() int { return e.Code }

// HTTPAdapter implements leadform.Adapter on top of net/http.
type HTTPAdapter struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	headers  http.Header
	logger   *zap.Logger
	tracer   trace.Tracer
}

var _ leadform.Adapter = (*HTTPAdapter)(nil)

// Option configures an HTTPAdapter.
type Option func(*HTTPAdapter)

// WithClient replaces the HTTP client. The adapter timeout still applies.
func WithClient(client *http.Client) Option {
	return func(a *HTTPAdapter) {
		if client != nil {
			a.client = client
		}
	}
}

// WithTimeout overrides DefaultTimeout. Zero or negative disables the
// adapter's own deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(a *HTTPAdapter) {
		a.timeout = timeout
	}
}

// WithHeader adds a header sent with every submission.
func WithHeader(key, value string) Option {
	return func(a *HTTPAdapter) {
		a.headers.Add(key, value)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *HTTPAdapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(a *HTTPAdapter) {
		if tracer != nil {
			a.tracer = tracer
		}
	}
}

// NewHTTPAdapter returns an adapter posting to endpoint, or DefaultEndpoint
// when endpoint is blank. Relative endpoints only work with a client whose
// transport resolves them; servers should pass an absolute URL.
func NewHTTPAdapter(endpoint string, options ...Option) *HTTPAdapter {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	a := &HTTPAdapter{
		endpoint: endpoint,
		client:   http.DefaultClient,
		timeout:  DefaultTimeout,
		headers:  http.Header{},
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Endpoint returns the configured submission URL.
func (a *HTTPAdapter) Endpoint() string {
	return a.endpoint
}

// Submit posts sub to the endpoint. Any 2xx status is success; other
// statuses return *StatusError and transport failures (including the
// timeout) are returned wrapped.
func (a *HTTPAdapter) Submit(ctx context.Context, sub leadform.Submission) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := a.tracer.Start(ctx, "leadform.submit",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("leadform.form_name", sub.FormName),
			attribute.String("http.url", a.endpoint),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, strings.NewReader(sub.Encode()))
	if err != nil {
		return fmt.Errorf("transport: build request: %w", err)
	}
	for key, values := range a.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	started := time.Now()
	res, err := a.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			a.logger.Warn("lead submission timed out",
				zap.String("endpoint", a.endpoint),
				zap.Duration("timeout", a.timeout),
			)
		}
		return fmt.Errorf("transport: post %s: %w", a.endpoint, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))

	a.logger.Debug("lead submitted",
		zap.String("endpoint", a.endpoint),
		zap.Int("status", res.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)
	return nil
}
