// Package router aggregates the HTTP routes of the service.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	healthctrl "github.com/dropDatabas3/clerksync/internal/http/controllers/health"
	whctrl "github.com/dropDatabas3/clerksync/internal/http/controllers/webhook"
	mw "github.com/dropDatabas3/clerksync/internal/http/middlewares"
)

// Deps contains all dependencies for the router.
type Deps struct {
	Clerk  *whctrl.ClerkController
	Health *healthctrl.Controller
}

// New arma el router con los middlewares base y todas las rutas.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRecover())
	r.Use(mw.WithRequestContext())
	r.Use(mw.WithLogging())

	r.Post("/api/webhooks/clerk", deps.Clerk.Handle)
	r.Get("/healthz", deps.Health.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
