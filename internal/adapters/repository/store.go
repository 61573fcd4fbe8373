// Package repository stores timeline events and hands the approved ones to
// the engine in display order.
package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/okian/epochline/internal/domain/model"
)

// Event statuses. Only approved events are ever drawn.
const (
	StatusDraft    = "draft"
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Event scopes.
const (
	ScopeGlobal   = "global"
	ScopeRegional = "regional"
	ScopeLocal    = "local"
)

// Date precisions.
const (
	PrecisionDay     = "day"
	PrecisionMonth   = "month"
	PrecisionYear    = "year"
	PrecisionDecade  = "decade"
	PrecisionCentury = "century"
)

var (
	statuses   = []string{StatusDraft, StatusPending, StatusApproved, StatusRejected}
	scopes     = []string{ScopeGlobal, ScopeRegional, ScopeLocal}
	precisions = []string{PrecisionDay, PrecisionMonth, PrecisionYear, PrecisionDecade, PrecisionCentury}
)

// Record is a stored event row.
type Record struct {
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	Summary       *string   `json:"summary" yaml:"summary"`
	StartYear     int       `json:"start_year" yaml:"start_year"`
	StartMonth    *int      `json:"start_month" yaml:"start_month"`
	StartDay      *int      `json:"start_day" yaml:"start_day"`
	EndYear       *int      `json:"end_year" yaml:"end_year"`
	EndMonth      *int      `json:"end_month" yaml:"end_month"`
	EndDay        *int      `json:"end_day" yaml:"end_day"`
	DatePrecision string    `json:"date_precision" yaml:"date_precision"`
	Scope         string    `json:"scope" yaml:"scope"`
	Importance    int       `json:"importance" yaml:"importance"`
	Status        string    `json:"status" yaml:"status"`
	CreatedAt     time.Time `json:"created_at" yaml:"-"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"-"`
}

// ToEvent maps a row to the shape the engine draws.
func (r Record) ToEvent() model.Event {
	return model.Event{
		ID:         r.ID,
		Title:      r.Title,
		Summary:    r.Summary,
		Year:       r.StartYear,
		EndYear:    r.EndYear,
		Importance: r.Importance,
		Scope:      r.Scope,
	}
}

// withDefaults fills empty enum fields.
func (r Record) withDefaults() Record {
	if r.DatePrecision == "" {
		r.DatePrecision = PrecisionYear
	}
	if r.Scope == "" {
		r.Scope = ScopeGlobal
	}
	if r.Status == "" {
		r.Status = StatusDraft
	}
	return r
}

// Validate checks required fields and enum values. An end year before the
// start year is accepted; the engine draws such ranges with zero width.
func (r Record) Validate() error {
	switch {
	case strings.TrimSpace(r.Title) == "":
		return fmt.Errorf("%w: empty title", ErrInvalidRecord)
	case !slices.Contains(statuses, r.Status):
		return fmt.Errorf("%w: status %q", ErrInvalidRecord, r.Status)
	case !slices.Contains(scopes, r.Scope):
		return fmt.Errorf("%w: scope %q", ErrInvalidRecord, r.Scope)
	case !slices.Contains(precisions, r.DatePrecision):
		return fmt.Errorf("%w: date precision %q", ErrInvalidRecord, r.DatePrecision)
	}
	return nil
}

// Store provides read/write access to events.
type Store interface {
	// Insert stores rec, assigning an id when empty, and returns the stored row.
	Insert(ctx context.Context, rec Record) (Record, error)
	// Get returns one row. Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (Record, error)
	// ListApproved returns approved events ordered by start year ascending.
	ListApproved(ctx context.Context) ([]model.Event, error)
	// Count returns the number of stored rows of any status.
	Count(ctx context.Context) (int, error)
	// Close releases the store.
	Close() error
}

// toEvents maps rows in order.
func toEvents(rows []Record) []model.Event {
	out := make([]model.Event, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToEvent())
	}
	return out
}
