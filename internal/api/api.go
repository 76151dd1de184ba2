// Package api assembles the API module: domain systems, route
// registration, and module middleware.
package api

import (
	"net/http"

	"github.com/albmartin/po-intake/internal/config"
	"github.com/albmartin/po-intake/internal/infrastructure"
	"github.com/albmartin/po-intake/pkg/middleware"
	"github.com/albmartin/po-intake/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The returned Domain exposes the webhook module so the server can drain
// in-flight runs during shutdown.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(cfg, runtime)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, domain, nil
}
