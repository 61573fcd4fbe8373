package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/epochline/internal/adapters/export"
	service "github.com/okian/epochline/internal/app"
	"github.com/okian/epochline/internal/domain/timeline"
)

// RenderDependencies defines the stateless rendering dependencies.
type RenderDependencies interface {
	Snapshot(ctx context.Context, req service.SnapshotRequest) ([]byte, timeline.State, error)
	Raster(ctx context.Context, req service.SnapshotRequest, format export.Format) ([]byte, error)
}

// RenderHandler serves stateless snapshots.
type RenderHandler struct {
	deps RenderDependencies
}

// NewRenderHandler creates a new render handler.
func NewRenderHandler(deps RenderDependencies) *RenderHandler {
	return &RenderHandler{deps: deps}
}

// HandleSVG handles GET /timeline.svg.
func (h *RenderHandler) HandleSVG(w http.ResponseWriter, r *http.Request) {
	const op = "api.timeline_svg"
	req, err := snapshotParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	svg, st, err := h.deps.Snapshot(r.Context(), req)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	w.Header().Set("X-Timeline-Zoom", strconv.FormatFloat(st.Transform.K, 'g', -1, 64))
	writeSVG(w, svg)
}

// HandleRaster returns a handler for GET /timeline.{png,jpg}.
func (h *RenderHandler) HandleRaster(format export.Format) http.HandlerFunc {
	op := "api.timeline_" + string(format)
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := snapshotParams(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		img, err := h.deps.Raster(r.Context(), req, format)
		if err != nil {
			writeFailure(w, op, err)
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(img)
	}
}

func writeSVG(w http.ResponseWriter, svg []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}
