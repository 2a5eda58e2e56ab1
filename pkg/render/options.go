package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-leadform/pkg/leadform"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating controller state.
type RenderOptions struct {
	// Locale selects the catalog used for labels and currency formatting.
	// Accept-Language style values are accepted.
	Locale string
	// Messages overrides the message set resolved from Locale.
	Messages *leadform.Messages
	// Translator backs the template `translate` helper. Defaults to the
	// embedded catalog.
	Translator Translator
	// OnMissing controls the string returned when a translation is missing.
	OnMissing MissingTranslationHandler
	// BasePath prefixes every form action and asset URL (for example
	// "/quote"). Empty means the site root.
	BasePath string
	// Action overrides the final form post target. The two-step variant posts
	// natively to the collection endpoint.
	Action string
	// Hidden carries extra hidden inputs emitted with the lead form.
	Hidden []HiddenField
	// Theme carries resolved tokens and asset URLs for the page chrome.
	Theme *theme.RendererConfig
}

// ResolveMessages returns the message set for the options: the explicit
// Messages when set, otherwise the embedded catalog entry for Locale.
func (o RenderOptions) ResolveMessages() *leadform.Messages {
	if o.Messages != nil {
		return o.Messages
	}
	return leadform.DefaultCatalog().Messages(o.Locale)
}
