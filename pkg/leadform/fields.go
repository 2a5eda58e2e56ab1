package leadform

import "fmt"

// Field identifies one of the three inputs collected by the form.
type Field string

const (
	FieldSquareFootage Field = "squareFootage"
	FieldSolarValue    Field = "solarValue"
	FieldEmail         Field = "email"
)

// Fields lists the known fields in display order.
func Fields() []Field {
	return []Field{FieldSquareFootage, FieldSolarValue, FieldEmail}
}

// Valid reports whether f names a known field.
func (f Field) Valid() bool {
	switch f {
	case FieldSquareFootage, FieldSolarValue, FieldEmail:
		return true
	default:
		return false
	}
}

// ParseField resolves a raw field name, returning ErrUnknownField for names
// outside the known set.
func ParseField(raw string) (Field, error) {
	f := Field(raw)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, raw)
	}
	return f, nil
}

// FormData holds the raw, unparsed user input.
type FormData struct {
	SquareFootage string `json:"squareFootage" yaml:"squareFootage"`
	SolarValue    string `json:"solarValue" yaml:"solarValue"`
	Email         string `json:"email" yaml:"email"`
}

// Get returns the raw value of field.
func (d FormData) Get(field Field) string {
	switch field {
	case FieldSquareFootage:
		return d.SquareFootage
	case FieldSolarValue:
		return d.SolarValue
	case FieldEmail:
		return d.Email
	default:
		return ""
	}
}

// Set stores value under field. Unknown fields are ignored.
func (d *FormData) Set(field Field, value string) {
	switch field {
	case FieldSquareFootage:
		d.SquareFootage = value
	case FieldSolarValue:
		d.SolarValue = value
	case FieldEmail:
		d.Email = value
	}
}

// ErrorCode classifies a field validation failure.
type ErrorCode string

const (
	CodeRequired     ErrorCode = "required"
	CodeNotPositive  ErrorCode = "not_positive"
	CodeNotNumber    ErrorCode = "not_number"
	CodeBelowMin     ErrorCode = "below_min"
	CodeAboveMax     ErrorCode = "above_max"
	CodeInvalidEmail ErrorCode = "invalid_email"
)

// FieldError is a recoverable, user-facing validation failure for a single
// field. Message is already localized.
type FieldError struct {
	Field   Field          `json:"field"`
	Code    ErrorCode      `json:"code"`
	Params  map[string]any `json:"params,omitempty"`
	Message string         `json:"message"`
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors keeps at most one error per known field.
type ValidationErrors struct {
	SquareFootage *FieldError `json:"squareFootage,omitempty"`
	SolarValue    *FieldError `json:"solarValue,omitempty"`
	Email         *FieldError `json:"email,omitempty"`
}

// Get returns the error recorded for field, if any.
func (v ValidationErrors) Get(field Field) *FieldError {
	switch field {
	case FieldSquareFootage:
		return v.SquareFootage
	case FieldSolarValue:
		return v.SolarValue
	case FieldEmail:
		return v.Email
	default:
		return nil
	}
}

// Set overwrites the error for field; a nil err clears it.
func (v *ValidationErrors) Set(field Field, err *FieldError) {
	switch field {
	case FieldSquareFootage:
		v.SquareFootage = err
	case FieldSolarValue:
		v.SolarValue = err
	case FieldEmail:
		v.Email = err
	}
}

// Empty reports whether no field carries an error.
func (v ValidationErrors) Empty() bool {
	return v.SquareFootage == nil && v.SolarValue == nil && v.Email == nil
}

// Messages flattens the errors into a field-name keyed map, the shape used by
// renderers and JSON responses. Fields without errors are omitted.
func (v ValidationErrors) Messages() map[string]string {
	out := make(map[string]string, 3)
	for _, field := range Fields() {
		if err := v.Get(field); err != nil {
			out[string(field)] = err.Message
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
