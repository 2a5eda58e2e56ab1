package leadform

import "errors"

var (
	// ErrInvalidInput signals that one or more fields failed validation.
	// The field errors are available on the controller's view.
	ErrInvalidInput = errors.New("leadform: invalid input")
	// ErrInvalidTransition is returned when an action is not allowed from
	// the current step.
	ErrInvalidTransition = errors.New("leadform: invalid step transition")
	// ErrSubmitting is returned while a submission is already in flight.
	ErrSubmitting = errors.New("leadform: submission in progress")
	// ErrFieldLocked is returned when editing a field that belongs to an
	// earlier step.
	ErrFieldLocked = errors.New("leadform: field is not editable in this step")
	// ErrUnknownField is returned for field names outside the known set.
	ErrUnknownField = errors.New("leadform: unknown field")
	// ErrSubmissionFailed wraps adapter failures. The user sees the generic
	// retry message and may submit again.
	ErrSubmissionFailed = errors.New("leadform: submission failed")
	// ErrNoAdapter is returned when a variant requires an adapter and none
	// was configured.
	ErrNoAdapter = errors.New("leadform: submission adapter is not configured")
)
