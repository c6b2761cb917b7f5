package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/forgo/bookmarks/api/internal/config"
	"github.com/forgo/bookmarks/api/internal/handler"
	"github.com/forgo/bookmarks/api/internal/middleware"
)

// Registrar attaches routes to the router. Handlers wrapped with errs.Wrap
// report failures to the terminal error handler.
type Registrar func(router *mux.Router, errs *handler.Errors)

// Stage is one named step of the pipeline
type Stage struct {
	Name       string
	Middleware middleware.Middleware
}

// Pipeline is the fully assembled request handler. Its stage order is fixed
// at construction: request ID, CORS, body limit, body parsing, logging,
// panic recovery,
// routes, not-found, terminal error handler.
type Pipeline struct {
	stages  []Stage
	router  *mux.Router
	errors  *handler.Errors
	handler http.Handler
}

// NewPipeline assembles the pipeline for cfg. Registrars run in order, after
// which no further routes can be added.
func NewPipeline(cfg *config.Config, logger *slog.Logger, registrars ...Registrar) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	errs := handler.NewErrors(handler.ErrorsConfig{
		ExposeStack: !cfg.IsProduction(),
		Logger:      logger,
	})

	// Unclean paths reach the not-found handler instead of a redirect
	router := mux.NewRouter().SkipClean(true)
	for _, register := range registrars {
		register(router, errs)
	}
	router.NotFoundHandler = errs.NotFound()
	router.MethodNotAllowedHandler = errs.NotFound()

	stages := []Stage{
		{Name: "request-id", Middleware: middleware.RequestID},
		{Name: "cors", Middleware: middleware.CORS(corsConfig(cfg))},
		{Name: "body-limit", Middleware: middleware.BodyLimit(cfg.Server.BodyLimit)},
		{Name: "body-parser", Middleware: middleware.BodyParser(errs.ServeError)},
		{Name: "logger", Middleware: middleware.Logger(logger)},
		{Name: "recovery", Middleware: middleware.Recovery(errs.ServeError)},
	}

	mws := make([]middleware.Middleware, len(stages))
	for i, s := range stages {
		mws[i] = s.Middleware
	}

	return &Pipeline{
		stages:  stages,
		router:  router,
		errors:  errs,
		handler: middleware.Chain(router, mws...),
	}
}

// ServeHTTP implements http.Handler
func (p *Pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.handler.ServeHTTP(w, r)
}

// StageNames lists the middleware stages in the order requests pass them
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Errors returns the terminal error handler
func (p *Pipeline) Errors() *handler.Errors {
	return p.errors
}

// corsConfig accepts any origin outside production. In production it accepts
// CORS_ORIGIN, or any origin when that is unset.
func corsConfig(cfg *config.Config) middleware.CORSConfig {
	origin := "*"
	if cfg.IsProduction() && cfg.Server.CORSOrigin != "" {
		origin = cfg.Server.CORSOrigin
	}
	return middleware.CORSConfig{
		AllowedOrigin: origin,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
}
