package leadform

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is the locale used when a request matches no catalog.
const DefaultLocale = "hr-HR"

// ErrMissingMessage is returned by Catalog.Translate for unknown keys.
var ErrMissingMessage = errors.New("leadform: missing message")

//go:embed catalog/*.yaml
var embeddedCatalogs embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog stores the user-facing strings for every bundled locale.
type Catalog struct {
	locales  map[string]*Messages
	tags     []language.Tag
	matcher  language.Matcher
	fallback string
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the embedded catalog. It panics if the embedded
// files are malformed, which is a build defect.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		catalog, err := LoadCatalog(embeddedCatalogs)
		if err != nil {
			panic(err)
		}
		defaultCatalog = catalog
	})
	return defaultCatalog
}

// DefaultMessages returns the hr-HR messages from the embedded catalog.
func DefaultMessages() *Messages {
	return DefaultCatalog().Messages(DefaultLocale)
}

// LoadCatalog reads every catalog/*.yaml file in fsys. The default locale
// must be present.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "catalog/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("leadform: glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("leadform: no catalog files found")
	}
	sort.Strings(paths)

	catalog := &Catalog{
		locales:  make(map[string]*Messages, len(paths)),
		fallback: DefaultLocale,
	}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("leadform: read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("leadform: parse catalog %s: %w", path, err)
		}
		locale := strings.TrimSpace(file.Locale)
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("leadform: catalog %s: locale %q: %w", path, locale, err)
		}
		if _, exists := catalog.locales[locale]; exists {
			return nil, fmt.Errorf("leadform: catalog %s: locale %q already defined", path, locale)
		}
		catalog.locales[locale] = newMessages(locale, tag, file.Messages)
		catalog.tags = append(catalog.tags, tag)
	}

	if _, ok := catalog.locales[DefaultLocale]; !ok {
		return nil, fmt.Errorf("leadform: default locale %s is not defined in catalogs", DefaultLocale)
	}

	// The matcher prefers its first tag when nothing matches.
	sort.SliceStable(catalog.tags, func(i, j int) bool {
		return catalog.tags[i].String() == DefaultLocale && catalog.tags[j].String() != DefaultLocale
	})
	catalog.matcher = language.NewMatcher(catalog.tags)
	return catalog, nil
}

// Locales lists the catalog locales, sorted.
func (c *Catalog) Locales() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.locales))
	for locale := range c.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Messages returns the best matching messages for locale. Accept-Language
// style lists ("en-GB,en;q=0.8") are accepted.
func (c *Catalog) Messages(locale string) *Messages {
	if c == nil {
		return nil
	}
	if m, ok := c.locales[strings.TrimSpace(locale)]; ok {
		return m
	}
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return c.locales[c.fallback]
	}
	_, index, confidence := c.matcher.Match(tags...)
	if confidence == language.No || index < 0 || index >= len(c.tags) {
		return c.locales[c.fallback]
	}
	if m, ok := c.locales[c.tags[index].String()]; ok {
		return m
	}
	return c.locales[c.fallback]
}

// Translate resolves key for locale. The first param, when it is a
// map[string]any, supplies placeholder values.
func (c *Catalog) Translate(locale, key string, params ...any) (string, error) {
	m := c.Messages(locale)
	if m == nil || !m.Has(key) {
		return "", fmt.Errorf("%w: %s", ErrMissingMessage, key)
	}
	var values map[string]any
	if len(params) > 0 {
		values, _ = params[0].(map[string]any)
	}
	return m.Text(key, values), nil
}

// Messages is one locale's message set.
type Messages struct {
	locale  string
	tag     language.Tag
	entries map[string]string
	printer *message.Printer
}

func newMessages(locale string, tag language.Tag, entries map[string]string) *Messages {
	clean := make(map[string]string, len(entries))
	for key, value := range entries {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			clean[trimmed] = value
		}
	}
	return &Messages{
		locale:  locale,
		tag:     tag,
		entries: clean,
		printer: message.NewPrinter(tag),
	}
}

// Locale returns the catalog locale, e.g. "hr-HR".
func (m *Messages) Locale() string {
	if m == nil {
		return DefaultLocale
	}
	return m.locale
}

// Tag returns the parsed language tag.
func (m *Messages) Tag() language.Tag {
	if m == nil {
		return language.MustParse(DefaultLocale)
	}
	return m.tag
}

// Has reports whether key is defined.
func (m *Messages) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.entries[key]
	return ok
}

// Text returns the message for key with {name} placeholders substituted.
// Numbers are printed with the locale's grouping. Unknown keys return the
// key itself.
func (m *Messages) Text(key string, params map[string]any) string {
	if m == nil {
		return key
	}
	text, ok := m.entries[key]
	if !ok {
		return key
	}
	for name, value := range params {
		text = strings.ReplaceAll(text, "{"+name+"}", m.printer.Sprint(value))
	}
	return text
}

// Tree returns the messages as nested maps split on ".", so templates can
// address "ui.title" as t.ui.title.
func (m *Messages) Tree() map[string]any {
	out := make(map[string]any)
	if m == nil {
		return out
	}
	for key, value := range m.entries {
		segments := strings.Split(key, ".")
		node := out
		for _, segment := range segments[:len(segments)-1] {
			child, ok := node[segment].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[segment] = child
			}
			node = child
		}
		node[segments[len(segments)-1]] = value
	}
	return out
}
