package api

import (
	"context"
	"net/http"

	service "github.com/okian/epochline/internal/app"
	"github.com/okian/epochline/internal/domain/zoom"
)

// SessionDependencies defines the interactive session dependencies.
type SessionDependencies interface {
	Open(ctx context.Context, req service.OpenRequest) (service.SessionState, error)
	Gesture(ctx context.Context, id string, g zoom.Gesture) (service.SessionState, error)
	Pointer(ctx context.Context, id string, req service.PointerRequest) (service.SessionState, error)
	SVG(ctx context.Context, id string) ([]byte, error)
	Reload(ctx context.Context, id string) (service.SessionState, error)
	Close(ctx context.Context, id string) error
}

// SessionHandler serves /sessions.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandleOpen handles POST /sessions.
func (h *SessionHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	const op = "api.open_session"
	var req service.OpenRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	st, err := h.deps.Open(r.Context(), req)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+st.ID+"/svg")
	writeJSON(w, http.StatusCreated, st)
}

// HandleZoom handles POST /sessions/{id}/zoom.
func (h *SessionHandler) HandleZoom(w http.ResponseWriter, r *http.Request) {
	const op = "api.zoom_session"
	var g zoom.Gesture
	if err := decode(w, r, &g); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if g.Kind == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	st, err := h.deps.Gesture(r.Context(), r.PathValue("id"), g)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandlePointer handles POST /sessions/{id}/pointer.
func (h *SessionHandler) HandlePointer(w http.ResponseWriter, r *http.Request) {
	const op = "api.pointer_session"
	var req service.PointerRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	st, err := h.deps.Pointer(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleSVG handles GET /sessions/{id}/svg.
func (h *SessionHandler) HandleSVG(w http.ResponseWriter, r *http.Request) {
	svg, err := h.deps.SVG(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, "api.session_svg", err)
		return
	}
	writeSVG(w, svg)
}

// HandleReload handles POST /sessions/{id}/reload.
func (h *SessionHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.Reload(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, "api.reload_session", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleClose handles DELETE /sessions/{id}.
func (h *SessionHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Close(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, "api.close_session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
