// Package model contains domain models passed between layers.
package model

import (
	"slices"
	"strconv"
)

// Event represents one historical occurrence or span.
// Fields mirror the record shape produced by the data adapter.
type Event struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Summary    *string `json:"summary"`
	Year       int     `json:"year"`    // start year, negative is BCE
	EndYear    *int    `json:"endYear"` // nil or equal to Year for point events
	Importance int     `json:"importance"`
	Scope      string  `json:"scope"`
}

// IsRange reports whether the event spans a distinct end year.
func (e Event) IsRange() bool {
	return e.EndYear != nil && *e.EndYear != e.Year
}

// End returns the end year, which is the start year for point events.
func (e Event) End() int {
	if e.EndYear == nil {
		return e.Year
	}
	return *e.EndYear
}

// Key returns a stable identity for drawing. Events without an id fall back
// to their position in the input sequence.
func (e Event) Key(index int) string {
	if e.ID != "" {
		return "event:" + e.ID
	}
	return "event:#" + strconv.Itoa(index)
}

// Filter restricts the rendered event set. The zero value matches everything.
type Filter struct {
	Scopes        []string `json:"scopes,omitempty"`
	MinImportance int      `json:"minImportance,omitempty"`
}

// Match reports whether e passes the filter.
func (f Filter) Match(e Event) bool {
	if e.Importance < f.MinImportance {
		return false
	}
	if len(f.Scopes) > 0 && !slices.Contains(f.Scopes, e.Scope) {
		return false
	}
	return true
}

// Apply returns the events that pass the filter, preserving order.
func (f Filter) Apply(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
