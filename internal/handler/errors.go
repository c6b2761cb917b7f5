package handler

import (
	"log/slog"
	"net/http"

	"github.com/forgo/bookmarks/api/internal/middleware"
	"github.com/forgo/bookmarks/api/internal/model"
)

// Func is an HTTP handler that reports failure by returning an error.
// It must not write to w before returning a non-nil error.
type Func func(w http.ResponseWriter, r *http.Request) error

// ErrorResponse is the JSON envelope for every error response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failure. Stack is only set outside production.
type ErrorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Stack      string `json:"stack,omitempty"`
}

// ErrorsConfig holds dependencies for Errors
type ErrorsConfig struct {
	// ExposeStack includes stack traces in logs and responses
	ExposeStack bool
	Logger      *slog.Logger
}

// Errors is the terminal stage of the pipeline: the single place where a
// failure is turned into a response.
type Errors struct {
	exposeStack bool
	logger      *slog.Logger
}

// NewErrors creates the terminal error handler
func NewErrors(cfg ErrorsConfig) *Errors {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Errors{
		exposeStack: cfg.ExposeStack,
		logger:      logger,
	}
}

// ServeError logs err and writes its envelope
func (e *Errors) ServeError(w http.ResponseWriter, r *http.Request, err error) {
	status := model.StatusCode(err)
	body := ErrorBody{
		Message:    model.Message(err),
		StatusCode: status,
	}

	attrs := []any{
		slog.Int("status", status),
		slog.String("message", body.Message),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	}
	if e.exposeStack {
		body.Stack = model.Stack(err)
		attrs = append(attrs, slog.String("stack", body.Stack))
	}

	if status >= http.StatusInternalServerError {
		e.logger.ErrorContext(r.Context(), "request failed", attrs...)
	} else {
		e.logger.WarnContext(r.Context(), "request failed", attrs...)
	}

	WriteJSON(w, status, ErrorResponse{Error: body})
}

// Wrap adapts fn to http.Handler, forwarding any returned error to ServeError
func (e *Errors) Wrap(fn Func) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			e.ServeError(w, r, model.WithStack(err))
		}
	})
}

// NotFound reports a request no route matched
func (e *Errors) NotFound() http.Handler {
	return e.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return model.NewNotFoundError(r.Method, r.URL.Path)
	})
}
