// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/epochline/internal/adapters/export"
	"github.com/okian/epochline/internal/adapters/repository"
	service "github.com/okian/epochline/internal/app"
	"github.com/okian/epochline/internal/domain/era"
	"github.com/okian/epochline/internal/domain/model"
	"github.com/okian/epochline/internal/domain/timeline"
	"github.com/okian/epochline/internal/domain/zoom"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	StatsProvider

	// Data
	Events(ctx context.Context, filter model.Filter) []model.Event
	Event(ctx context.Context, id string) (repository.Record, error)
	Catalog() era.Catalog

	// Interactive sessions
	Open(ctx context.Context, req service.OpenRequest) (service.SessionState, error)
	Gesture(ctx context.Context, id string, g zoom.Gesture) (service.SessionState, error)
	Pointer(ctx context.Context, id string, req service.PointerRequest) (service.SessionState, error)
	SVG(ctx context.Context, id string) ([]byte, error)
	Reload(ctx context.Context, id string) (service.SessionState, error)
	Close(ctx context.Context, id string) error

	// Stateless renders
	Snapshot(ctx context.Context, req service.SnapshotRequest) ([]byte, timeline.State, error)
	Raster(ctx context.Context, req service.SnapshotRequest, format export.Format) ([]byte, error)
}

// Server wires HTTP routes for the timeline API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	eventsHandler  *EventsHandler
	renderHandler  *RenderHandler
	sessionHandler *SessionHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		eventsHandler:  NewEventsHandler(deps),
		renderHandler:  NewRenderHandler(deps),
		sessionHandler: NewSessionHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /events", MetricsMiddleware(s.eventsHandler.HandleList, "events"))
	mux.HandleFunc("GET /events/{id}", MetricsMiddleware(s.eventsHandler.HandleGet, "event"))
	mux.HandleFunc("GET /eras", MetricsMiddleware(s.eventsHandler.HandleEras, "eras"))

	mux.HandleFunc("GET /timeline.svg", MetricsMiddleware(s.renderHandler.HandleSVG, "timeline_svg"))
	mux.HandleFunc("GET /timeline.png", MetricsMiddleware(s.renderHandler.HandleRaster(export.PNG), "timeline_png"))
	mux.HandleFunc("GET /timeline.jpg", MetricsMiddleware(s.renderHandler.HandleRaster(export.JPEG), "timeline_jpg"))

	mux.HandleFunc("POST /sessions", MetricsMiddleware(s.sessionHandler.HandleOpen, "sessions"))
	mux.HandleFunc("GET /sessions/{id}/svg", MetricsMiddleware(s.sessionHandler.HandleSVG, "session_svg"))
	mux.HandleFunc("POST /sessions/{id}/zoom", MetricsMiddleware(s.sessionHandler.HandleZoom, "session_zoom"))
	mux.HandleFunc("POST /sessions/{id}/pointer", MetricsMiddleware(s.sessionHandler.HandlePointer, "session_pointer"))
	mux.HandleFunc("POST /sessions/{id}/reload", MetricsMiddleware(s.sessionHandler.HandleReload, "session_reload"))
	mux.HandleFunc("DELETE /sessions/{id}", MetricsMiddleware(s.sessionHandler.HandleClose, "session_close"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps upstream errors onto status codes.
func writeFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrBadRequest), errors.Is(err, export.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, repository.ErrNotFound), errors.Is(err, timeline.ErrNotMounted):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	case errors.Is(err, export.ErrRasterizer):
		writeError(w, http.StatusBadGateway, "rasterizer", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

const maxBodyBytes = 1 << 16
