// Package module provides prefix-scoped HTTP modules with isolated
// middleware stacks, dispatched by a shared Router.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/albmartin/po-intake/pkg/middleware"
)

// Module is an HTTP handler that strips its prefix and delegates to an
// inner router through its own middleware stack.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module with the given single-level prefix (e.g. "/api").
// Panics if the prefix is empty, missing a leading slash, or multi-level.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Handler returns the inner router wrapped with the module's middleware.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the module prefix from the request path before
// dispatching to the inner router.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	path := stripPrefix(req.URL.Path, m.prefix)
	m.Handler().ServeHTTP(w, cloneRequest(req, path))
}

// Use adds middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

func cloneRequest(req *http.Request, path string) *http.Request {
	clone := new(http.Request)
	*clone = *req
	clone.URL = new(url.URL)
	*clone.URL = *req.URL
	clone.URL.Path = path
	clone.URL.RawPath = ""
	return clone
}

func stripPrefix(fullPath, prefix string) string {
	path := fullPath[len(prefix):]
	if path == "" {
		return "/"
	}
	return path
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be a single-level sub-path: %s", prefix)
	}
	return nil
}
