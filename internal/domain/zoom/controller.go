// Package zoom owns the view transform. Every proposed transform is clamped
// so the view stays inside the configured year bounds, then the rescaled
// scale is pushed to every layer in one pass.
package zoom

import (
	"math"

	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scale"
)

// Extent bounds the zoom factor.
type Extent struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultExtent is [0.5, 100].
var DefaultExtent = Extent{Min: 0.5, Max: 100}

// Clamp returns k limited to the extent.
func (e Extent) Clamp(k float64) float64 {
	return math.Max(e.Min, math.Min(e.Max, k))
}

// Bounds are the years the view may not pan past.
type Bounds struct {
	MinYear float64 `json:"minYear"`
	MaxYear float64 `json:"maxYear"`
}

// DefaultBounds spans deep prehistory to the near future.
var DefaultBounds = Bounds{MinYear: -300000, MaxYear: 2500}

// Result describes one handled interaction.
type Result struct {
	Transform scale.Transform `json:"transform"`
	// Corrected is set when the proposed translation was clamped and the
	// corrected transform was re-issued.
	Corrected bool `json:"corrected"`
}

// Observer is told about every handled interaction.
type Observer func(Result)

// Controller applies transforms to a render context.
type Controller struct {
	ctx        *render.Context
	base       scale.Scale
	layers     []render.Layer
	extent     Extent
	bounds     Bounds
	current    scale.Transform
	correcting bool
	observers  []Observer
}

// Option configures a Controller.
type Option func(*Controller)

// WithExtent sets the zoom factor bounds.
func WithExtent(e Extent) Option {
	return func(c *Controller) { c.extent = e }
}

// WithBounds sets the pan bounds.
func WithBounds(b Bounds) Option {
	return func(c *Controller) { c.bounds = b }
}

// WithObserver registers fn to run after each handled interaction.
func WithObserver(fn Observer) Option {
	return func(c *Controller) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// New creates a controller driving layers from base. The context's scale
// is left untouched until the first transform is handled.
func New(ctx *render.Context, base scale.Scale, layers []render.Layer, opts ...Option) *Controller {
	c := &Controller{
		ctx:     ctx,
		base:    base,
		layers:  layers,
		extent:  DefaultExtent,
		bounds:  DefaultBounds,
		current: scale.Identity,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transform returns the applied transform.
func (c *Controller) Transform() scale.Transform { return c.current }

// Extent returns the zoom factor bounds.
func (c *Controller) Extent() Extent { return c.extent }

// Bounds returns the allowed translation interval at zoom k. When the
// domain bounds are narrower than the viewport minX exceeds maxX and
// clamping settles on minX.
func (c *Controller) Bounds(k float64) (minX, maxX float64) {
	minX = c.ctx.Viewport.Width - c.base.Map(c.bounds.MaxYear)*k
	maxX = -c.base.Map(c.bounds.MinYear) * k
	return minX, maxX
}

// Handle applies a proposed transform. A translation outside Bounds is
// clamped and the corrected transform is handled in its place, once.
func (c *Controller) Handle(t scale.Transform) Result {
	r := c.handle(t)
	for _, fn := range c.observers {
		fn(r)
	}
	return r
}

func (c *Controller) handle(t scale.Transform) Result {
	if math.IsNaN(t.K) || t.K <= 0 {
		t.K = c.current.K
	}
	t.K = c.extent.Clamp(t.K)
	if math.IsNaN(t.X) {
		t.X = c.current.X
	}

	minX, maxX := c.Bounds(t.K)
	x := math.Max(minX, math.Min(maxX, t.X))
	if x != t.X {
		if c.correcting {
			t.X = x
		} else {
			c.correcting = true
			r := c.handle(t.WithX(x))
			c.correcting = false
			r.Corrected = true
			return r
		}
	}

	c.apply(t)
	return Result{Transform: t}
}

// apply rescales once and hands the same scale to every layer.
func (c *Controller) apply(t scale.Transform) {
	c.current = t
	c.ctx.Scale = c.base.Rescale(t)
	for _, l := range c.layers {
		l.Update(c.ctx)
	}
}
