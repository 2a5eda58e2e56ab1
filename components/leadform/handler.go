package leadform

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/html"
	"github.com/goliatone/go-leadform/pkg/transport"

	pkgleadform "github.com/goliatone/go-leadform/pkg/leadform"
)

// RouteEstimate serves stateless estimates.
const RouteEstimate = "/estimate"

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

type fieldResponse struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// EstimateResponse is the /estimate body.
type EstimateResponse struct {
	Low         float64           `json:"low"`
	High        float64           `json:"high"`
	MonthlyLow  float64           `json:"monthlyLow"`
	MonthlyHigh float64           `json:"monthlyHigh"`
	Display     string            `json:"display"`
	Errors      map[string]string `json:"errors,omitempty"`
}

func (c *Component) handler(base string) http.Handler {
	assets := http.StripPrefix(base+render.RouteAssets, http.FileServer(http.FS(html.AssetsFS())))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(r.URL.Path, base)
		switch {
		case rel == "" || rel == "/":
			c.allow(w, r, c.page, base, http.MethodGet, http.MethodHead)
		case rel == render.RouteDetails:
			c.allow(w, r, c.details, base, http.MethodPost)
		case rel == render.RouteField:
			c.allow(w, r, c.field, base, http.MethodPost)
		case rel == render.RouteLead:
			c.allow(w, r, c.lead, base, http.MethodPost)
		case rel == render.RouteRestart:
			c.allow(w, r, c.restart, base, http.MethodPost)
		case rel == RouteEstimate:
			c.allow(w, r, c.estimate, base, http.MethodGet)
		case strings.HasPrefix(rel, render.RouteAssets):
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				methodNotAllowed(w, http.MethodGet, http.MethodHead)
				return
			}
			assets.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

type routeFunc func(w http.ResponseWriter, r *http.Request, base string)

func (c *Component) allow(w http.ResponseWriter, r *http.Request, fn routeFunc, base string, methods ...string) {
	for _, method := range methods {
		if r.Method == method {
			fn(w, r, base)
			return
		}
	}
	methodNotAllowed(w, methods...)
}

func (c *Component) page(w http.ResponseWriter, r *http.Request, base string) {
	sess := c.session(w, r, base)
	c.render(w, r, sess, base, http.StatusOK)
}

func (c *Component) details(w http.ResponseWriter, r *http.Request, base string) {
	if err := r.ParseForm(); err != nil {
		writeError(w, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}
	sess := c.session(w, r, base)
	ctrl := sess.controller
	prefix := ctrl.Config().FieldPrefix

	for _, field := range []pkgleadform.Field{pkgleadform.FieldSquareFootage, pkgleadform.FieldSolarValue} {
		if err := ctrl.SetField(field, formValue(r, prefix, field)); err != nil {
			c.fail(w, r, sess, base, err)
			return
		}
	}
	if err := ctrl.SubmitDetails(); err != nil {
		c.fail(w, r, sess, base, err)
		return
	}
	c.done(w, r, sess, base)
}

func (c *Component) field(w http.ResponseWriter, r *http.Request, base string) {
	if err := r.ParseForm(); err != nil {
		writeError(w, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}
	sess := c.session(w, r, base)
	ctrl := sess.controller

	name := strings.TrimPrefix(strings.TrimSpace(r.PostForm.Get("field")), ctrl.Config().FieldPrefix)
	field, err := pkgleadform.ParseField(name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, fieldResponse{Field: name, Error: err.Error()})
		return
	}
	if err := ctrl.SetField(field, r.PostForm.Get("value")); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, pkgleadform.ErrFieldLocked) {
			code = http.StatusConflict
		}
		writeJSON(w, code, fieldResponse{Field: string(field), Error: err.Error()})
		return
	}

	resp := fieldResponse{Field: string(field)}
	if fieldErr := ctrl.View().Errors.Get(field); fieldErr != nil {
		resp.Error = fieldErr.Message
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *Component) lead(w http.ResponseWriter, r *http.Request, base string) {
	if err := r.ParseForm(); err != nil {
		writeError(w, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}
	sess := c.session(w, r, base)
	ctrl := sess.controller
	cfg := ctrl.Config()

	if err := ctrl.SetField(pkgleadform.FieldEmail, formValue(r, cfg.FieldPrefix, pkgleadform.FieldEmail)); err != nil {
		c.fail(w, r, sess, base, err)
		return
	}
	sub, err := ctrl.SubmitLead(r.Context())
	if err != nil {
		c.logCollectorErrors(sub, err)
		c.fail(w, r, sess, base, err)
		return
	}
	if !cfg.Confirmation {
		// 307 keeps the method and body, so the browser replays the same
		// form post against the collection endpoint.
		c.opts.Logger.Debug("handing lead to native form post", zap.String("endpoint", c.opts.Endpoint))
		http.Redirect(w, r, c.opts.Endpoint, http.StatusTemporaryRedirect)
		return
	}
	c.done(w, r, sess, base)
}

func (c *Component) restart(w http.ResponseWriter, r *http.Request, base string) {
	sess := c.session(w, r, base)
	if err := sess.controller.Restart(); err != nil {
		c.fail(w, r, sess, base, err)
		return
	}
	c.done(w, r, sess, base)
}

func (c *Component) estimate(w http.ResponseWriter, r *http.Request, _ string) {
	query := r.URL.Query()
	cfg := c.opts.Config
	solar := cfg.SolarRange
	msgs := c.messages(r)
	validator := pkgleadform.Validator{AreaRange: cfg.AreaRange, SolarRange: &solar, Messages: msgs}

	area, solarValue := query.Get("area"), query.Get("solar")
	errs := map[string]string{}
	if err := validator.Area(area); err != nil {
		errs[string(pkgleadform.FieldSquareFootage)] = err.Message
	}
	if err := validator.Solar(solarValue); err != nil {
		errs[string(pkgleadform.FieldSolarValue)] = err.Message
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, EstimateResponse{Errors: errs})
		return
	}

	a, _ := pkgleadform.ParseNumber(area)
	s, _ := pkgleadform.ParseNumber(solarValue)
	est := pkgleadform.Calculate(a, s)
	monthly := est.Monthly()
	writeJSON(w, http.StatusOK, EstimateResponse{
		Low:         est.Low,
		High:        est.High,
		MonthlyLow:  monthly.Low,
		MonthlyHigh: monthly.High,
		Display:     render.FormatRange(monthly, msgs.Locale()),
	})
}

// session returns the visitor's session, starting one and setting the
// cookie when the request carries none or an expired one.
func (c *Component) session(w http.ResponseWriter, r *http.Request, base string) *session {
	if cookie, err := r.Cookie(c.opts.CookieName); err == nil {
		if sess, ok := c.sessions.get(cookie.Value); ok {
			return sess
		}
	}
	sess := c.sessions.create(c.locale(r))
	path := base
	if path == "" {
		path = "/"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.opts.CookieName,
		Value:    sess.id,
		Path:     path,
		MaxAge:   int(c.opts.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	c.opts.Logger.Debug("session started", zap.String("session", sess.id))
	return sess
}

func (c *Component) locale(r *http.Request) string {
	if c.opts.Locale != "" {
		return c.opts.Locale
	}
	return r.Header.Get("Accept-Language")
}

func (c *Component) messages(r *http.Request) *pkgleadform.Messages {
	return c.opts.Catalog.Messages(c.locale(r))
}

func (c *Component) render(w http.ResponseWriter, r *http.Request, sess *session, base string, status int) {
	registry, err := c.registry()
	if err != nil {
		c.opts.Logger.Error("renderers unavailable", zap.Error(err))
		writeError(w, StatusError{Code: http.StatusInternalServerError, Err: err})
		return
	}
	renderer, err := registry.Negotiate(render.AcceptList(r.Header.Get("Accept")), "html")
	if err != nil {
		writeError(w, StatusError{Code: http.StatusNotAcceptable, Err: err})
		return
	}

	msgs := sess.controller.Messages()
	body, err := renderer.Render(r.Context(), sess.controller.View(), render.RenderOptions{
		Locale:   msgs.Locale(),
		Messages: msgs,
		BasePath: base,
		Theme:    c.themeConfig(),
	})
	if err != nil {
		c.opts.Logger.Error("render page", zap.String("renderer", renderer.Name()), zap.Error(err))
		writeError(w, StatusError{Code: http.StatusInternalServerError, Err: err})
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

// done answers a successful state change: browsers are redirected back to
// the page, other clients receive the new state directly.
func (c *Component) done(w http.ResponseWriter, r *http.Request, sess *session, base string) {
	if wantsDocument(r) {
		target := base
		if target == "" {
			target = "/"
		} else {
			target += "/"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	c.render(w, r, sess, base, http.StatusOK)
}

// fail re-renders the current step with the status matching err.
func (c *Component) fail(w http.ResponseWriter, r *http.Request, sess *session, base string, err error) {
	c.render(w, r, sess, base, statusFor(err))
}

// statusFor maps controller errors to the status of the re-rendered page.
// A collector's own status never leaks through: every failed submission is
// a bad gateway from the visitor's point of view.
func statusFor(err error) int {
	var statusErr StatusError
	switch {
	case errors.Is(err, pkgleadform.ErrSubmissionFailed):
		return http.StatusBadGateway
	case errors.Is(err, pkgleadform.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pkgleadform.ErrInvalidTransition),
		errors.Is(err, pkgleadform.ErrFieldLocked),
		errors.Is(err, pkgleadform.ErrSubmitting):
		return http.StatusConflict
	case errors.As(err, &statusErr):
		return statusErr.StatusCode()
	default:
		return http.StatusInternalServerError
	}
}

// logCollectorErrors records field errors carried by a collector 422 so the
// operator can tell a rejected lead from an unreachable collector.
func (c *Component) logCollectorErrors(sub pkgleadform.Submission, err error) {
	var statusErr *transport.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusUnprocessableEntity {
		return
	}
	var payload struct {
		Errors map[string][]string `json:"errors"`
	}
	if json.Unmarshal([]byte(statusErr.Body), &payload) != nil {
		return
	}
	mapping := render.MapErrorPayload(sub.FieldPrefix, payload.Errors)
	c.opts.Logger.Warn("collector rejected lead",
		zap.String("form", sub.FormName),
		zap.Any("fields", mapping.Fields),
		zap.Strings("form_errors", mapping.Form),
	)
}

func (c *Component) themeConfig() *theme.RendererConfig {
	if c.opts.Themes == nil {
		return nil
	}
	selection, err := c.opts.Themes.Select(c.opts.ThemeName, c.opts.ThemeVariant)
	if err != nil {
		c.opts.Logger.Warn("theme selection failed", zap.String("theme", c.opts.ThemeName), zap.Error(err))
		return nil
	}
	return render.ThemeConfig(selection, nil)
}

func formValue(r *http.Request, prefix string, field pkgleadform.Field) string {
	if values, ok := r.PostForm[render.FieldName(prefix, field)]; ok && len(values) > 0 {
		return values[0]
	}
	return r.PostForm.Get(string(field))
}

// wantsDocument reports whether the client prefers HTML, which is the case
// for plain browser form posts.
func wantsDocument(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	for _, item := range render.AcceptList(accept) {
		switch strings.TrimSpace(strings.SplitN(item, ";", 2)[0]) {
		case "text/html", "*/*":
			return true
		case "application/json", "text/plain":
			return false
		}
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter, methods ...string) {
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	http.Error(w, http.StatusText(code), code)
}
