package api

import (
	"net/http"
)

// StatsProvider reports service counters: sessions, stored events, eras.
type StatsProvider interface {
	GetStats() map[string]any
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	stats StatsProvider
}

// NewStatsHandler creates a stats handler over p.
func NewStatsHandler(p StatsProvider) *StatsHandler {
	return &StatsHandler{stats: p}
}

// HandleStats writes the current counters, uncached.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.stats.GetStats())
}
