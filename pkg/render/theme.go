package render

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// ErrThemeNotFound is returned by ThemeSet when a theme name is unknown.
var ErrThemeNotFound = errors.New("render: theme not found")

// ThemeSet is an in-memory theme.ThemeSelector over registered manifests.
type ThemeSet struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ThemeSet)(nil)

// NewThemeSet registers manifests and uses the first one as the default.
func NewThemeSet(manifests ...*theme.Manifest) (*ThemeSet, error) {
	set := &ThemeSet{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if err := set.Register(manifest); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Register adds a manifest. The first registered manifest becomes the default.
func (s *ThemeSet) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("render: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[manifest.Name]; exists {
		return fmt.Errorf("render: theme %q already registered", manifest.Name)
	}
	s.manifests[manifest.Name] = manifest
	if s.defaultTheme == "" {
		s.defaultTheme = manifest.Name
	}
	return nil
}

// SetDefault selects the theme and variant used when Select receives empty
// names.
func (s *ThemeSet) SetDefault(name, variant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultTheme = strings.TrimSpace(name)
	s.defaultVariant = strings.TrimSpace(variant)
}

// Select resolves a theme and variant. Unknown variants fall back to the base
// manifest.
func (s *ThemeSet) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
		if strings.TrimSpace(variant) == "" {
			variant = s.defaultVariant
		}
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	variant = strings.TrimSpace(variant)
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Names lists the registered theme names, sorted.
func (s *ThemeSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeConfig flattens a selection into renderer configuration: variant
// tokens, templates and asset files override the base manifest, every token
// becomes a `--token` CSS custom property, and AssetURL joins the asset prefix
// with the resolved file name.
func ThemeConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := copyStrings(manifest.Tokens)
	partials := copyStrings(fallbacks)
	mergeStrings(partials, manifest.Templates)
	files := copyStrings(manifest.Assets.Files)
	prefix := manifest.Assets.Prefix

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		mergeStrings(tokens, variant.Tokens)
		mergeStrings(partials, variant.Templates)
		mergeStrings(files, variant.Assets.Files)
		if strings.TrimSpace(variant.Assets.Prefix) != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join("/", prefix, file)
		},
	}
}

// CSSVarsStyle renders CSS custom properties as a sorted inline declaration
// list ("--brand: #123; --radius: 4px").
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		value := strings.TrimSpace(vars[name])
		if value == "" || strings.ContainsAny(value, ";{}<>") {
			continue
		}
		parts = append(parts, name+": "+value)
	}
	return strings.Join(parts, "; ")
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func mergeStrings(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}
