package leadform

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Range is an inclusive numeric bound.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var (
	// SolarValueRange bounds the solar installation value in EUR.
	SolarValueRange = Range{Min: 3000, Max: 100000}
	// StrictAreaRange bounds the floor area, in m², for the stricter variant.
	StrictAreaRange = Range{Min: 40, Max: 500}
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// decimalPattern is plain decimal notation with an optional exponent. Go
// literal forms such as hex floats and digit separators are not numbers here.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Validator maps raw field values to localized field errors. The zero value
// validates with no area bounds, the default solar bounds and hr-HR messages.
type Validator struct {
	AreaRange  *Range
	SolarRange *Range
	Messages   *Messages
}

// ValidateArea checks a floor area value. A nil bounds only requires a
// positive number.
func ValidateArea(value string, bounds *Range) *FieldError {
	return Validator{AreaRange: bounds}.Area(value)
}

// ValidateSolarValue checks a solar installation value against
// SolarValueRange.
func ValidateSolarValue(value string) *FieldError {
	return Validator{}.Solar(value)
}

// ValidateEmail checks an email address shape (local@domain.tld).
func ValidateEmail(value string) *FieldError {
	return Validator{}.Email(value)
}

// Field dispatches to the validator for field.
func (v Validator) Field(field Field, value string) *FieldError {
	switch field {
	case FieldSquareFootage:
		return v.Area(value)
	case FieldSolarValue:
		return v.Solar(value)
	case FieldEmail:
		return v.Email(value)
	default:
		return nil
	}
}

// Area validates the floor area.
func (v Validator) Area(value string) *FieldError {
	if isBlank(value) {
		return v.fail(FieldSquareFootage, CodeRequired, "errors.required", nil)
	}
	num, ok := ParseNumber(value)
	if !ok || num <= 0 {
		return v.fail(FieldSquareFootage, CodeNotPositive, "errors.not_positive", nil)
	}
	if v.AreaRange != nil {
		if num < v.AreaRange.Min {
			return v.fail(FieldSquareFootage, CodeBelowMin, "errors.area_below_min", map[string]any{"min": v.AreaRange.Min})
		}
		if num > v.AreaRange.Max {
			return v.fail(FieldSquareFootage, CodeAboveMax, "errors.area_above_max", map[string]any{"max": v.AreaRange.Max})
		}
	}
	return nil
}

// Solar validates the solar installation value.
func (v Validator) Solar(value string) *FieldError {
	if isBlank(value) {
		return v.fail(FieldSolarValue, CodeRequired, "errors.required", nil)
	}
	num, ok := ParseNumber(value)
	if !ok {
		return v.fail(FieldSolarValue, CodeNotNumber, "errors.not_number", nil)
	}
	bounds := SolarValueRange
	if v.SolarRange != nil {
		bounds = *v.SolarRange
	}
	if num < bounds.Min {
		return v.fail(FieldSolarValue, CodeBelowMin, "errors.solar_below_min", map[string]any{"min": bounds.Min})
	}
	if num > bounds.Max {
		return v.fail(FieldSolarValue, CodeAboveMax, "errors.solar_above_max", map[string]any{"max": bounds.Max})
	}
	return nil
}

// Email validates the email address.
func (v Validator) Email(value string) *FieldError {
	if isBlank(value) {
		return v.fail(FieldEmail, CodeRequired, "errors.required", nil)
	}
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return v.fail(FieldEmail, CodeInvalidEmail, "errors.invalid_email", nil)
	}
	return nil
}

func (v Validator) fail(field Field, code ErrorCode, key string, params map[string]any) *FieldError {
	msgs := v.Messages
	if msgs == nil {
		msgs = DefaultMessages()
	}
	return &FieldError{
		Field:   field,
		Code:    code,
		Params:  params,
		Message: msgs.Text(key, params),
	}
}

// ParseNumber parses a user-entered decimal. Surrounding whitespace is
// ignored and a single decimal comma is accepted. Anything outside plain
// decimal notation is rejected, including NaN, infinities, hex floats and
// underscore separators.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	num, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, false
	}
	return num, true
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
