package render

import (
	"errors"
	"fmt"
	"strings"
)

// Translator resolves message keys for a locale. *leadform.Catalog satisfies
// it.
type Translator interface {
	Translate(locale, key string, params ...any) (string, error)
}

// MissingTranslationHandler produces the text used when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, params []any, err error) string

// ErrMissingTranslator is reported to MissingTranslationHandler when no
// translator was configured.
var ErrMissingTranslator = errors.New("render: translator is not configured")

func missingTranslationDefault(_ string, key string, params []any, _ error) string {
	if len(params) > 0 {
		if values, ok := params[0].(map[string]any); ok {
			if fallback := strings.TrimSpace(fmt.Sprint(values["default"])); fallback != "" && values["default"] != nil {
				return fallback
			}
		}
	}
	return key
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if t == nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
}

// Label translates key for locale, returning fallback (or the key) when the
// translator has no entry.
func Label(t Translator, locale, key, fallback string) string {
	return translate(locale, key, fallback, t, nil)
}
