package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-leadform/pkg/leadform"
)

// HiddenField represents a hidden form input emitted alongside the visible
// controls. The two-step variant posts natively, so the form identifier and
// the computed estimate travel as hidden inputs.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// SubmissionFields returns the hidden inputs needed for a native post of sub:
// the form name, the step-one values and both estimate bounds, prefixed. The
// email travels in the visible input.
func SubmissionFields(sub leadform.Submission) []HiddenField {
	return []HiddenField{
		Hidden(leadform.FormNameField, sub.FormName),
		Hidden(FieldName(sub.FieldPrefix, leadform.FieldSquareFootage), sub.Data.SquareFootage),
		Hidden(FieldName(sub.FieldPrefix, leadform.FieldSolarValue), sub.Data.SolarValue),
		Hidden(sub.FieldPrefix+leadform.EstimateLowField, leadform.FormatNumber(sub.Estimate.Low)),
		Hidden(sub.FieldPrefix+leadform.EstimateHighField, leadform.FormatNumber(sub.Estimate.High)),
	}
}

// FieldName returns the wire name of field for the variant prefix.
func FieldName(prefix string, field leadform.Field) string {
	return prefix + string(field)
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		clean[key] = value
	}
	if len(clean) == 0 {
		return nil
	}

	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{
			Name:  name,
			Value: clean[name],
		})
	}
	return result
}
