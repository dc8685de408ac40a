// Package server binds resource endpoints to pipeline runs over HTTP. It is
// deliberately thin glue: routing, payload reading, and error-to-status
// mapping live here, everything else is the pipeline's business.
package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/restflow/internal/config"
	"github.com/vk/restflow/internal/ctxlog"
	"github.com/vk/restflow/internal/pipeline"
	"github.com/vk/restflow/internal/registry"
	"github.com/vk/restflow/internal/representation"
	"github.com/vk/restflow/internal/scheduler"
	"github.com/vk/restflow/internal/state"
)

// Server serves the loaded resources' endpoints.
type Server struct {
	registry  *registry.Registry
	builder   state.Builder
	generator pipeline.Generator
	logger    *slog.Logger
}

// New creates a Server for the given registry.
func New(reg *registry.Registry, logger *slog.Logger) *Server {
	return &Server{
		registry:  reg,
		builder:   state.NewJSONBuilder(),
		generator: representation.NewJSONGenerator(),
		logger:    logger,
	}
}

// Handler builds the route table for every loaded resource.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("POST /{resource}", s.resourceHandler(config.OperationCreate))
	mux.HandleFunc("GET /{resource}/{id}", s.resourceHandler(config.OperationFetch))
	mux.HandleFunc("PATCH /{resource}/{id}", s.resourceHandler(config.OperationUpdate))
	mux.HandleFunc("DELETE /{resource}/{id}", s.resourceHandler(config.OperationDelete))
	return mux
}

// ListenAndServe runs the server on the given address until it fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("🚀 Resource server starting", "address", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.Handler())
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// resourceHandler runs one pipeline per request for the given operation.
func (s *Server) resourceHandler(operation string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlog.WithLogger(r.Context(), s.logger)
		logger := s.logger.With("operation", operation, "path", r.URL.Path)

		res, ok := s.registry.Resource(r.PathValue("resource"))
		if !ok {
			http.Error(w, "unknown resource type", http.StatusNotFound)
			return
		}

		var payload []byte
		if r.Body != nil {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "failed to read request body", http.StatusBadRequest)
				return
			}
			payload = body
		}

		p := &pipeline.Pipeline{
			Resource:  res,
			Operation: operation,
			Registry:  s.registry,
			Builder:   s.builder,
			Generator: s.generator,
		}
		if operation == config.OperationDelete {
			// Deletes respond with no representation.
			p.Generator = nil
		}

		result, err := p.Run(ctx, &state.Request{
			ResourceID: r.PathValue("id"),
			Payload:    payload,
		})
		if err != nil {
			logger.Error("Pipeline run failed.", "error", err)
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		if len(result.Representation) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if operation == config.OperationCreate {
			w.WriteHeader(http.StatusCreated)
		}
		if _, err := w.Write(result.Representation); err != nil {
			logger.Error("Failed to write response.", "error", err)
		}
	}
}

// statusFor maps pipeline failure kinds onto HTTP status codes.
func statusFor(err error) int {
	var cbErr *pipeline.CallbackError
	switch {
	case errors.As(err, &cbErr):
		return http.StatusInternalServerError
	case errors.Is(err, state.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, scheduler.ErrConstraintConflict), errors.Is(err, scheduler.ErrCyclicDependency):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
