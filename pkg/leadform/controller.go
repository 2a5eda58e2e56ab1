package leadform

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs fn once after d. The reveal callback never needs
// cancelling, so no handle is returned.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, fn func())

// AfterFunc calls f.
func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) {
	f(d, fn)
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Option configures a Controller.
type Option func(*Controller)

// WithAdapter sets the submission adapter used by variants with a
// confirmation step.
func WithAdapter(adapter Adapter) Option {
	return func(c *Controller) {
		c.adapter = adapter
	}
}

// WithScheduler overrides the timer used for the deferred estimate reveal.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithMessages selects the message set used for field and submission
// errors.
func WithMessages(m *Messages) Option {
	return func(c *Controller) {
		if m != nil {
			c.messages = m
		}
	}
}

// WithLogger attaches a logger for step transitions.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRevealHook registers a callback invoked after the estimate reveal flag
// is set.
func WithRevealHook(fn func()) Option {
	return func(c *Controller) {
		c.onReveal = fn
	}
}

// View is an immutable snapshot of the controller state for renderers.
type View struct {
	Variant      string           `json:"variant"`
	Step         Step             `json:"step"`
	Steps        int              `json:"steps"`
	Confirmation bool             `json:"confirmation"`
	Validation   ValidationMode   `json:"validation"`
	Data         FormData         `json:"data"`
	Errors       ValidationErrors `json:"errors"`
	Estimate     *Estimate        `json:"estimate,omitempty"`
	Revealed     bool             `json:"revealed"`
	Submitting   bool             `json:"submitting"`
	SubmitError  string           `json:"submitError,omitempty"`
	FormName     string           `json:"formName"`
	FieldPrefix  string           `json:"fieldPrefix,omitempty"`
}

// Controller is the step state machine for one visitor. It is safe for
// concurrent use; the adapter is always called without holding the lock.
type Controller struct {
	mu sync.Mutex

	cfg       Config
	validator Validator
	messages  *Messages
	adapter   Adapter
	scheduler Scheduler
	logger    *zap.Logger
	onReveal  func()

	step       Step
	data       FormData
	errs       ValidationErrors
	estimate   *Estimate
	revealed   bool
	submitting bool
	submitErr  string
	generation uint64
}

// NewController builds a controller at StepEntryDetails.
func NewController(cfg Config, options ...Option) *Controller {
	c := &Controller{
		cfg:       cfg,
		messages:  DefaultMessages(),
		scheduler: timerScheduler{},
		logger:    zap.NewNop(),
		step:      StepEntryDetails,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	solar := cfg.SolarRange
	c.validator = Validator{
		AreaRange:  cfg.AreaRange,
		SolarRange: &solar,
		Messages:   c.messages,
	}
	return c
}

// Config returns the variant configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Messages returns the message set used by the controller.
func (c *Controller) Messages() *Messages {
	return c.messages
}

// Step returns the active step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := View{
		Variant:      c.cfg.Name,
		Step:         c.step,
		Steps:        c.cfg.Steps(),
		Confirmation: c.cfg.Confirmation,
		Validation:   c.cfg.Validation,
		Data:         c.data,
		Errors:       c.errs,
		Revealed:     c.revealed,
		Submitting:   c.submitting,
		SubmitError:  c.submitErr,
		FormName:     c.cfg.FormName,
		FieldPrefix:  c.cfg.FieldPrefix,
	}
	if c.estimate != nil {
		est := *c.estimate
		view.Estimate = &est
	}
	return view
}

// SetField stores a value with surrounding whitespace removed, so the value
// validated is the value submitted. Step-1 fields are editable only in
// StepEntryDetails and the email only in StepEstimateAndCapture. In
// ValidateOnChange mode the edited field is re-validated immediately.
func (c *Controller) SetField(field Field, value string) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.editableLocked(field) {
		return fmt.Errorf("%w: %s in %s", ErrFieldLocked, field, c.step)
	}
	value = strings.TrimSpace(value)
	c.data.Set(field, value)
	if c.cfg.Validation == ValidateOnChange {
		c.errs.Set(field, c.validator.Field(field, value))
	}
	return nil
}

func (c *Controller) editableLocked(field Field) bool {
	switch field {
	case FieldSquareFootage, FieldSolarValue:
		return c.step == StepEntryDetails
	case FieldEmail:
		return c.step == StepEstimateAndCapture
	default:
		return false
	}
}

// SubmitDetails validates area and solar value together. Both must pass:
// on failure both fields' errors are written, the step stays put and
// ErrInvalidInput is returned. On success the estimate is (re)computed, the
// flow moves to StepEstimateAndCapture and the reveal flag is scheduled.
func (c *Controller) SubmitDetails() error {
	c.mu.Lock()
	if c.step != StepEntryDetails {
		step := c.step
		c.mu.Unlock()
		return fmt.Errorf("%w: submit details from %s", ErrInvalidTransition, step)
	}

	areaErr := c.validator.Area(c.data.SquareFootage)
	solarErr := c.validator.Solar(c.data.SolarValue)
	c.errs.Set(FieldSquareFootage, areaErr)
	c.errs.Set(FieldSolarValue, solarErr)
	if areaErr != nil || solarErr != nil {
		c.mu.Unlock()
		c.logger.Debug("details rejected",
			zap.Bool("area_valid", areaErr == nil),
			zap.Bool("solar_valid", solarErr == nil),
		)
		return ErrInvalidInput
	}

	area, _ := ParseNumber(c.data.SquareFootage)
	solar, _ := ParseNumber(c.data.SolarValue)
	estimate := Calculate(area, solar)
	c.estimate = &estimate
	c.step = StepEstimateAndCapture
	c.revealed = false
	generation := c.generation
	delay := c.cfg.RevealDelay
	c.mu.Unlock()

	c.logger.Debug("estimate computed",
		zap.Float64("low", estimate.Low),
		zap.Float64("high", estimate.High),
		zap.Duration("reveal_delay", delay),
	)

	if delay <= 0 {
		c.reveal(generation)
		return nil
	}
	c.scheduler.AfterFunc(delay, func() {
		c.reveal(generation)
	})
	return nil
}

// reveal sets the reveal flag unless the controller restarted since the
// callback was scheduled.
func (c *Controller) reveal(generation uint64) {
	c.mu.Lock()
	if c.generation != generation || c.step != StepEstimateAndCapture {
		c.mu.Unlock()
		return
	}
	c.revealed = true
	hook := c.onReveal
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// SubmitLead validates the email and completes the flow.
//
// With a confirmation step the adapter is invoked; success moves to
// StepConfirmed, failure records the generic retry message and returns an
// error wrapping ErrSubmissionFailed with the step unchanged. Without a
// confirmation step the adapter is never called: the validated Submission
// is returned for the caller to hand to the native transport.
func (c *Controller) SubmitLead(ctx context.Context) (Submission, error) {
	c.mu.Lock()
	if c.step != StepEstimateAndCapture {
		step := c.step
		c.mu.Unlock()
		return Submission{}, fmt.Errorf("%w: submit lead from %s", ErrInvalidTransition, step)
	}
	if c.submitting {
		c.mu.Unlock()
		return Submission{}, ErrSubmitting
	}

	emailErr := c.validator.Email(c.data.Email)
	c.errs.Set(FieldEmail, emailErr)
	if emailErr != nil {
		c.mu.Unlock()
		return Submission{}, ErrInvalidInput
	}

	sub := c.submissionLocked()
	if !c.cfg.Confirmation {
		c.mu.Unlock()
		return sub, nil
	}
	if c.adapter == nil {
		c.mu.Unlock()
		return sub, ErrNoAdapter
	}
	c.submitting = true
	c.submitErr = ""
	adapter := c.adapter
	c.mu.Unlock()

	err := adapter.Submit(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.submitErr = c.messages.Text("errors.submit_failed", nil)
		c.logger.Warn("lead submission failed", zap.String("form", sub.FormName), zap.Error(err))
		return sub, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	c.step = StepConfirmed
	c.logger.Info("lead submitted", zap.String("form", sub.FormName))
	return sub, nil
}

func (c *Controller) submissionLocked() Submission {
	sub := Submission{
		FormName:    c.cfg.FormName,
		FieldPrefix: c.cfg.FieldPrefix,
		Data:        c.data,
	}
	if c.estimate != nil {
		sub.Estimate = *c.estimate
	}
	return sub
}

// Restart returns a confirmed flow to StepEntryDetails, clearing data,
// errors, estimate and flags together.
func (c *Controller) Restart() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepConfirmed {
		return fmt.Errorf("%w: restart from %s", ErrInvalidTransition, c.step)
	}
	c.step = StepEntryDetails
	c.data = FormData{}
	c.errs = ValidationErrors{}
	c.estimate = nil
	c.revealed = false
	c.submitting = false
	c.submitErr = ""
	c.generation++
	c.logger.Debug("flow restarted")
	return nil
}
