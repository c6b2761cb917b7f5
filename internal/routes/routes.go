// Package routes holds the route table of the Bookmarks API.
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/forgo/bookmarks/api/internal/handler"
)

// Deps holds the handlers the route table mounts
type Deps struct {
	Health *handler.HealthHandler
}

// Register returns the registrar for the application's routes
func Register(deps Deps) func(router *mux.Router, errs *handler.Errors) {
	return func(router *mux.Router, errs *handler.Errors) {
		router.Handle("/health", errs.Wrap(deps.Health.Health)).Methods(http.MethodGet, http.MethodHead)
		router.Handle("/health/ready", errs.Wrap(deps.Health.Ready)).Methods(http.MethodGet, http.MethodHead)
	}
}
