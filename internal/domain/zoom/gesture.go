package zoom

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/epochline/internal/domain/scale"
)

// ErrUnknownGesture is returned by Apply for an unrecognized gesture kind.
var ErrUnknownGesture = errors.New("unknown gesture")

// Gesture kinds.
const (
	KindWheel = "wheel"
	KindDrag  = "drag"
	KindPinch = "pinch"
	KindZoom  = "zoom"
	KindSet   = "set"
	KindReset = "reset"
)

// Wheel delta modes, as reported by browsers.
const (
	DeltaPixel = 0
	DeltaLine  = 1
	DeltaPage  = 2
)

// Gesture is one raw interaction event.
type Gesture struct {
	Kind      string  `json:"kind"`
	DeltaY    float64 `json:"deltaY,omitempty"`
	DeltaMode int     `json:"deltaMode,omitempty"`
	DX        float64 `json:"dx,omitempty"`
	DY        float64 `json:"dy,omitempty"`
	X         float64 `json:"x,omitempty"`
	Factor    float64 `json:"factor,omitempty"`
	K         float64 `json:"k,omitempty"`
	TX        float64 `json:"tx,omitempty"`
}

// Apply dispatches g to its binding.
func (c *Controller) Apply(g Gesture) (Result, error) {
	switch g.Kind {
	case KindWheel:
		return c.Wheel(g.DeltaY, g.DeltaMode, g.X), nil
	case KindDrag:
		return c.Drag(g.DX, g.DY), nil
	case KindPinch:
		return c.Pinch(g.Factor, g.X), nil
	case KindZoom:
		return c.ZoomAbout(g.K, g.X), nil
	case KindSet:
		return c.Set(scale.Transform{K: g.K, X: g.TX}), nil
	case KindReset:
		return c.Reset(), nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownGesture, g.Kind)
	}
}

// WheelFactor converts a wheel delta to a zoom multiplier.
func WheelFactor(deltaY float64, mode int) float64 {
	unit := 0.002
	switch mode {
	case DeltaLine:
		unit = 0.05
	case DeltaPage:
		unit = 1
	}
	return math.Pow(2, -deltaY*unit)
}

// Wheel zooms about pointer x. Negative deltas zoom in.
func (c *Controller) Wheel(deltaY float64, mode int, x float64) Result {
	return c.ZoomAbout(c.current.K*WheelFactor(deltaY, mode), x)
}

// Drag pans by the pointer delta. The vertical component is kept on the
// transform but never moves the timeline.
func (c *Controller) Drag(dx, dy float64) Result {
	t := c.current
	t.X += dx
	t.Y += dy
	return c.Handle(t)
}

// Pinch multiplies the zoom by factor about x.
func (c *Controller) Pinch(factor, x float64) Result {
	if factor <= 0 || math.IsNaN(factor) {
		factor = 1
	}
	return c.ZoomAbout(c.current.K*factor, x)
}

// ZoomAbout sets the zoom to k while keeping the year under pixel x fixed.
func (c *Controller) ZoomAbout(k, x float64) Result {
	cur := c.current
	k = c.extent.Clamp(k)
	t := cur
	t.K = k
	t.X = x - (x-cur.X)*k/cur.K
	return c.Handle(t)
}

// Set proposes t directly.
func (c *Controller) Set(t scale.Transform) Result { return c.Handle(t) }

// Reset returns to the identity transform.
func (c *Controller) Reset() Result { return c.Handle(scale.Identity) }
