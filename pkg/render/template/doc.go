// Package template defines the engine contract used by template-backed
// renderers. The gotemplate subpackage provides the pongo2 implementation.
package template
