package render

import (
	"strings"

	"github.com/goliatone/go-leadform/pkg/leadform"
)

// ErrorMapping splits a collector error payload into field-level and
// form-level messages. Field keys are the unprefixed lead field names.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapErrorPayload maps a collector error payload, keyed by submitted input
// names, back onto lead fields. prefix is the variant field prefix. Keys that
// name no lead field, such as the estimate bounds or the collector's "form"
// key, become form-level messages.
func MapErrorPayload(prefix string, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	for key, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		key = strings.TrimSpace(key)
		field, err := leadform.ParseField(strings.TrimPrefix(key, prefix))
		if err != nil || !strings.HasPrefix(key, prefix) {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[string(field)] = normalizeMessages(append(mapping.Fields[string(field)], messages...))
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// normalizeMessages trims messages and drops blanks and duplicates, keeping
// the first occurrence.
func normalizeMessages(messages []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
