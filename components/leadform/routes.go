package leadform

import (
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the page URL for a component mounted at basePath.
func MountPath(basePath string) string {
	return normalizeBase(basePath) + "/"
}

// normalizeBase returns basePath with a leading slash and no trailing one;
// the site root becomes "".
func normalizeBase(basePath string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" || basePath == "/" {
		return ""
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/")
}
