package tui

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/pkg/leadform"
	"github.com/goliatone/go-leadform/pkg/render"
)

// Runner drives a leadform.Controller through terminal prompts.
type Runner struct {
	driver      PromptDriver
	messages    *leadform.Messages
	delivery    leadform.Adapter
	theme       Theme
	maxAttempts int
	logger      *zap.Logger
}

// New constructs a Runner backed by survey prompts unless a driver is
// supplied.
func New(options ...Option) *Runner {
	r := &Runner{
		theme:       DefaultTheme(),
		maxAttempts: 5,
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r
}

// Run walks the visitor through every step of c and returns the submissions
// that completed. With a confirmation step the visitor may restart and
// estimate another property; each completed round adds one submission.
func (r *Runner) Run(ctx context.Context, c *leadform.Controller) ([]leadform.Submission, error) {
	if c == nil {
		return nil, errors.New("tui: controller is required")
	}
	msgs := r.messages
	if msgs == nil {
		msgs = c.Messages()
	}

	var submissions []leadform.Submission
	for {
		if err := r.details(ctx, c, msgs); err != nil {
			return submissions, err
		}
		if err := r.printEstimate(ctx, c.View(), msgs); err != nil {
			return submissions, err
		}
		sub, err := r.lead(ctx, c, msgs)
		if err != nil {
			return submissions, err
		}
		submissions = append(submissions, sub)
		if err := r.printConfirmation(ctx, sub, msgs); err != nil {
			return submissions, err
		}

		if !c.Config().Confirmation {
			return submissions, nil
		}
		again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: msgs.Text("ui.restart", nil)})
		if err != nil {
			return submissions, err
		}
		if !again {
			return submissions, nil
		}
		if err := c.Restart(); err != nil {
			return submissions, err
		}
	}
}

func (r *Runner) details(ctx context.Context, c *leadform.Controller, msgs *leadform.Messages) error {
	if err := r.info(ctx, msgs.Text("ui.title", nil)); err != nil {
		return err
	}
	for attempt := 1; ; attempt++ {
		view := c.View()
		if err := r.info(ctx, r.progress(view, msgs)); err != nil {
			return err
		}
		for _, item := range []struct {
			field       leadform.Field
			label, help string
		}{
			{leadform.FieldSquareFootage, "ui.label_area", "ui.placeholder_area"},
			{leadform.FieldSolarValue, "ui.label_solar", "ui.placeholder_solar"},
		} {
			value, err := r.driver.Input(ctx, InputConfig{
				Message:   msgs.Text(item.label, nil),
				Help:      msgs.Text(item.help, nil),
				Default:   view.Data.Get(item.field),
				Validator: r.liveValidator(c, msgs, item.field),
			})
			if err != nil {
				return err
			}
			if err := c.SetField(item.field, value); err != nil {
				return err
			}
		}

		err := c.SubmitDetails()
		if err == nil {
			return nil
		}
		if !errors.Is(err, leadform.ErrInvalidInput) {
			return err
		}
		if err := r.printErrors(ctx, c.View().Errors); err != nil {
			return err
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return ErrTooManyAttempts
		}
	}
}

func (r *Runner) lead(ctx context.Context, c *leadform.Controller, msgs *leadform.Messages) (leadform.Submission, error) {
	for attempt := 1; ; attempt++ {
		view := c.View()
		email, err := r.driver.Input(ctx, InputConfig{
			Message:   msgs.Text("ui.label_email", nil),
			Help:      msgs.Text("ui.data_safe", nil),
			Default:   view.Data.Email,
			Validator: r.liveValidator(c, msgs, leadform.FieldEmail),
		})
		if err != nil {
			return leadform.Submission{}, err
		}
		if err := c.SetField(leadform.FieldEmail, email); err != nil {
			return leadform.Submission{}, err
		}

		sub, err := c.SubmitLead(ctx)
		switch {
		case err == nil && !c.Config().Confirmation:
			err = r.deliver(ctx, sub)
			if err == nil {
				return sub, nil
			}
			r.logger.Warn("terminal delivery failed", zap.Error(err))
			if err := r.fail(ctx, msgs.Text("errors.submit_failed", nil)); err != nil {
				return leadform.Submission{}, err
			}
		case err == nil:
			return sub, nil
		case errors.Is(err, leadform.ErrInvalidInput):
			if err := r.printErrors(ctx, c.View().Errors); err != nil {
				return leadform.Submission{}, err
			}
		case errors.Is(err, leadform.ErrSubmissionFailed):
			if err := r.fail(ctx, c.View().SubmitError); err != nil {
				return leadform.Submission{}, err
			}
		default:
			return leadform.Submission{}, err
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return leadform.Submission{}, ErrTooManyAttempts
		}
	}
}

func (r *Runner) deliver(ctx context.Context, sub leadform.Submission) error {
	if r.delivery == nil {
		return nil
	}
	return r.delivery.Submit(ctx, sub)
}

// liveValidator returns a prompt validator in on-change mode so the prompt
// itself rejects bad input; in on-submit mode errors surface after the step
// is submitted.
func (r *Runner) liveValidator(c *leadform.Controller, msgs *leadform.Messages, field leadform.Field) func(string) error {
	cfg := c.Config()
	if cfg.Validation != leadform.ValidateOnChange {
		return nil
	}
	solar := cfg.SolarRange
	validator := leadform.Validator{AreaRange: cfg.AreaRange, SolarRange: &solar, Messages: msgs}
	return func(value string) error {
		if err := validator.Field(field, value); err != nil {
			return errors.New(err.Message)
		}
		return nil
	}
}

func (r *Runner) printEstimate(ctx context.Context, view leadform.View, msgs *leadform.Messages) error {
	if view.Estimate == nil {
		return nil
	}
	locale := msgs.Locale()
	monthly := view.Estimate.Monthly()
	lines := []string{
		r.progress(view, msgs),
		msgs.Text("ui.estimate_title", nil),
		fmt.Sprintf("%s %s", render.FormatRange(monthly, locale), msgs.Text("ui.per_month", nil)),
		fmt.Sprintf("(%s %s)", render.FormatRange(*view.Estimate, locale), msgs.Text("ui.per_year", nil)),
		"",
		msgs.Text("ui.capture_title", nil),
		"  ✓ " + msgs.Text("ui.benefit_coverage", nil),
		"  ✓ " + msgs.Text("ui.benefit_discounts", nil),
		"  ✓ " + msgs.Text("ui.benefit_consultation", nil),
	}
	for _, line := range lines {
		if err := r.info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) printConfirmation(ctx context.Context, sub leadform.Submission, msgs *leadform.Messages) error {
	for _, line := range []string{
		msgs.Text("ui.thanks_title", nil),
		msgs.Text("ui.thanks_body", nil),
		sub.Data.Email,
		msgs.Text("ui.thanks_followup", nil),
	} {
		if err := r.info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) printErrors(ctx context.Context, errs leadform.ValidationErrors) error {
	for _, field := range leadform.Fields() {
		if fieldErr := errs.Get(field); fieldErr != nil {
			if err := r.fail(ctx, fieldErr.Message); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) progress(view leadform.View, msgs *leadform.Messages) string {
	return render.ProgressLabel(msgs, view.Step.Number(), view.Steps)
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Runner) fail(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}
