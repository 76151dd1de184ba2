package api

import (
	"net/http"

	"github.com/albmartin/po-intake/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Runs.Handler().Routes(),
		domain.Webhook.Routes(),
	)
}
