package timeline

import (
	"github.com/okian/epochline/internal/domain/era"
	"github.com/okian/epochline/internal/domain/lifespan"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/zoom"
)

// Range is the year interval shown at identity zoom.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// DefaultRange is the initial view.
var DefaultRange = Range{Start: -3000, End: 2025}

// DefaultBottomMargin is the distance from the axis to the bottom edge.
const DefaultBottomMargin = 100

type settings struct {
	theme        render.Theme
	bounds       zoom.Bounds
	initial      Range
	extent       zoom.Extent
	bottomMargin float64
	anchorRatio  float64
	tickCount    int
	catalog      era.Catalog
	observers    []zoom.Observer
}

func defaults() settings {
	return settings{
		theme:        render.DefaultTheme(),
		bounds:       zoom.DefaultBounds,
		initial:      DefaultRange,
		extent:       zoom.DefaultExtent,
		bottomMargin: DefaultBottomMargin,
		anchorRatio:  lifespan.DefaultAnchorRatio,
		tickCount:    10,
		catalog:      era.Default(),
	}
}

// Option configures a Timeline.
type Option func(*settings)

// WithTheme sets the colours.
func WithTheme(t render.Theme) Option {
	return func(s *settings) { s.theme = t }
}

// WithBounds sets the pan bounds.
func WithBounds(b zoom.Bounds) Option {
	return func(s *settings) { s.bounds = b }
}

// WithInitialRange sets the years visible at identity zoom.
func WithInitialRange(r Range) Option {
	return func(s *settings) {
		if r.Start != r.End {
			s.initial = r
		}
	}
}

// WithExtent sets the zoom factor bounds.
func WithExtent(e zoom.Extent) Option {
	return func(s *settings) { s.extent = e }
}

// WithBottomMargin sets the axis offset from the bottom edge.
func WithBottomMargin(m float64) Option {
	return func(s *settings) { s.bottomMargin = m }
}

// WithAnchorRatio places the lifespan centre at ratio of the width.
func WithAnchorRatio(ratio float64) Option {
	return func(s *settings) { s.anchorRatio = ratio }
}

// WithTickCount sets the approximate number of axis ticks.
func WithTickCount(n int) Option {
	return func(s *settings) { s.tickCount = n }
}

// WithCatalog replaces the era catalog.
func WithCatalog(c era.Catalog) Option {
	return func(s *settings) {
		if len(c.Periods) > 0 {
			s.catalog = c
		}
	}
}

// WithObserver is told about every handled zoom interaction.
func WithObserver(fn zoom.Observer) Option {
	return func(s *settings) {
		if fn != nil {
			s.observers = append(s.observers, fn)
		}
	}
}
