package api

import (
	"context"
	"net/http"

	"github.com/okian/epochline/internal/adapters/repository"
	"github.com/okian/epochline/internal/domain/era"
	"github.com/okian/epochline/internal/domain/model"
)

// EventDependencies defines the data dependencies of the events handler.
type EventDependencies interface {
	Events(ctx context.Context, filter model.Filter) []model.Event
	Event(ctx context.Context, id string) (repository.Record, error)
	Catalog() era.Catalog
}

// EventsHandler serves events and eras.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

type eventsResponse struct {
	Count  int           `json:"count"`
	Events []model.Event `json:"events"`
}

// HandleList handles GET /events.
func (h *EventsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_events"
	filter, err := filterParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	events := h.deps.Events(r.Context(), filter)
	writeJSON(w, http.StatusOK, eventsResponse{Count: len(events), Events: events})
}

// HandleGet handles GET /events/{id}.
func (h *EventsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_event"
	rec, err := h.deps.Event(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type erasResponse struct {
	Tiers   int            `json:"tiers"`
	Periods []model.Period `json:"periods"`
}

// HandleEras handles GET /eras.
func (h *EventsHandler) HandleEras(w http.ResponseWriter, _ *http.Request) {
	c := h.deps.Catalog()
	writeJSON(w, http.StatusOK, erasResponse{Tiers: c.Tiers(), Periods: c.Periods})
}
