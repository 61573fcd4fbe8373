// Package site serves the embedded timeline viewer.
package site

import (
	"context"
	"errors"
	"net/http"
)

// ErrServe is returned when the embedded viewer cannot be served.
var ErrServe = errors.New("viewer serve failed")

// Register attaches the viewer at / to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /", NewRootHandler())
}

// RootHandler serves the viewer page and its assets.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS())}
}

// ServeHTTP serves GET / and the static assets next to it.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}
