package collector

import (
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/internal/storage"
	"github.com/goliatone/go-leadform/pkg/leadform"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// FormErrorKey collects violations that belong to no single field.
const FormErrorKey = "form"

// ErrorResponse is the 422 body. Keys are the submitted field names, prefix
// included, or FormErrorKey.
type ErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

// ReceivedResponse is the JSON success body.
type ReceivedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

var numericFields = []string{
	string(leadform.FieldSquareFootage),
	string(leadform.FieldSolarValue),
	leadform.EstimateLowField,
	leadform.EstimateHighField,
}

// Handler builds the collector handler with default options plus overrides.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds the collector handler from a pre-constructed
// Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		ctx, span := opts.Tracer.Start(r.Context(), "collector.receive")
		defer span.End()

		r.Body = http.MaxBytesReader(w, r.Body, opts.MaxBodyBytes)
		if err := r.ParseForm(); err != nil {
			code := http.StatusBadRequest
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				code = http.StatusRequestEntityTooLarge
			}
			writeError(w, StatusError{Code: code, Err: err})
			return
		}

		values := r.PostForm
		name := strings.TrimSpace(values.Get(leadform.FormNameField))
		span.SetAttributes(attribute.String("leadform.form_name", name))
		form, ok := opts.Forms[name]
		if !ok {
			opts.Logger.Debug("unknown form", zap.String("form", name))
			writeError(w, StatusError{Code: http.StatusNotFound})
			return
		}

		schema, err := LeadSchema()
		if err != nil {
			opts.Logger.Error("lead schema unavailable", zap.Error(err))
			span.SetStatus(codes.Error, err.Error())
			writeError(w, StatusError{Code: http.StatusInternalServerError, Err: err})
			return
		}

		prefix := detectPrefix(values, form.Prefixes)
		record, raw := buildRecord(values, name, prefix, opts.Policy)
		msgs := opts.Catalog.Messages(r.Header.Get("Accept-Language"))

		if violations := schemaViolations(schema, record); len(violations) > 0 {
			span.SetAttributes(attribute.Int("leadform.violations", len(violations)))
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Errors: violationMessages(violations, prefix, raw, msgs),
			})
			return
		}

		if opts.Store == nil {
			writeError(w, StatusError{Code: http.StatusServiceUnavailable, Err: errors.New("collector: no store configured")})
			return
		}
		lead, err := opts.Store.Save(ctx, leadFromRecord(record))
		if err != nil {
			opts.Logger.Error("store lead", zap.String("form", name), zap.Error(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			writeError(w, StatusError{Code: http.StatusInternalServerError})
			return
		}
		opts.Logger.Info("lead received", zap.String("form", name), zap.String("id", lead.ID))

		message := msgs.Text("collector.received", nil)
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, ReceivedResponse{ID: lead.ID, Message: message})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<!doctype html>\n<p>" + html.EscapeString(message) + "</p>\n"))
	})
}

// detectPrefix picks the first prefix whose email field is present.
func detectPrefix(values url.Values, prefixes []string) string {
	for _, prefix := range prefixes {
		if _, ok := values[prefix+string(leadform.FieldEmail)]; ok {
			return prefix
		}
	}
	if len(prefixes) > 0 {
		return prefixes[0]
	}
	return ""
}

// buildRecord returns the JSON-shaped record checked against the schema and
// the sanitised raw strings it was built from. Blank values are omitted so
// the schema reports them as missing; unparsable numbers stay strings so it
// reports a type mismatch.
func buildRecord(values url.Values, formName, prefix string, policy *bluemonday.Policy) (map[string]any, map[string]string) {
	record := map[string]any{"formName": formName}
	raw := make(map[string]string)
	for _, key := range append(append([]string{}, numericFields...), string(leadform.FieldEmail)) {
		value := strings.TrimSpace(policy.Sanitize(values.Get(prefix + key)))
		if value == "" {
			continue
		}
		raw[key] = value
		if key == string(leadform.FieldEmail) {
			record[key] = value
			continue
		}
		if n, ok := leadform.ParseNumber(value); ok {
			record[key] = n
			continue
		}
		record[key] = value
	}
	return record, raw
}

// violationMessages keys schema failures by submitted field name, preferring
// the localized validator message for the three lead fields.
func violationMessages(violations map[string][]string, prefix string, raw map[string]string, msgs *leadform.Messages) map[string][]string {
	solar := leadform.SolarValueRange
	validator := leadform.Validator{SolarRange: &solar, Messages: msgs}

	out := make(map[string][]string, len(violations))
	for key, reasons := range violations {
		if key == "" || key == "formName" {
			out[FormErrorKey] = append(out[FormErrorKey], reasons...)
			continue
		}
		if field, err := leadform.ParseField(key); err == nil {
			if fieldErr := validator.Field(field, raw[key]); fieldErr != nil {
				out[prefix+key] = []string{fieldErr.Message}
				continue
			}
		}
		out[prefix+key] = append(out[prefix+key], reasons...)
	}
	return out
}

func leadFromRecord(record map[string]any) storage.Lead {
	number := func(key string) float64 {
		n, _ := record[key].(float64)
		return n
	}
	text := func(key string) string {
		s, _ := record[key].(string)
		return s
	}
	return storage.Lead{
		FormName:      text("formName"),
		SquareFootage: number(string(leadform.FieldSquareFootage)),
		SolarValue:    number(string(leadform.FieldSolarValue)),
		Email:         text(string(leadform.FieldEmail)),
		EstimateLow:   number(leadform.EstimateLowField),
		EstimateHigh:  number(leadform.EstimateHighField),
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	http.Error(w, http.StatusText(code), code)
}
