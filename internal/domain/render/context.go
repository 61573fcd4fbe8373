// Package render holds the state shared by every timeline layer during a
// draw or an update.
package render

import (
	"github.com/okian/epochline/internal/domain/scale"
	"github.com/okian/epochline/internal/domain/scene"
)

// FontFamily is used for all text on the surface.
const FontFamily = "system-ui, sans-serif"

// Theme holds the configurable colours.
type Theme struct {
	Background string `json:"background" koanf:"background"`
	Axis       string `json:"axis" koanf:"axis"`
	TickText   string `json:"tickText" koanf:"tick_text"`
	EventDot   string `json:"eventDot" koanf:"event_dot"`
	LabelText  string `json:"labelText" koanf:"label_text"`
}

// DefaultTheme returns the stock light palette.
func DefaultTheme() Theme {
	return Theme{
		Background: "#fafafa",
		Axis:       "#e5e5e5",
		TickText:   "#888",
		EventDot:   "#6366f1",
		LabelText:  "#374151",
	}
}

// Viewport is the size of the drawing surface in pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MaxDimension bounds either side of a viewport, in pixels.
const MaxDimension = 16384

// Valid reports whether both dimensions are finite, positive and at most
// MaxDimension.
func (v Viewport) Valid() bool { return validSide(v.Width) && validSide(v.Height) }

// NaN and +Inf fail one of the comparisons.
func validSide(px float64) bool { return px > 0 && px <= MaxDimension }

// Context is owned by the timeline and passed by reference to each layer.
// Scale is replaced on every zoom tick; all layers read the same value
// within one tick.
type Context struct {
	Surface      *scene.Surface
	Scale        scale.Scale
	Viewport     Viewport
	Theme        Theme
	BottomMargin float64
}

// AxisY is the vertical position of the axis rule.
func (c *Context) AxisY() float64 { return c.Viewport.Height - c.BottomMargin }

// CenterY is the vertical centre of the viewport, where events sit.
func (c *Context) CenterY() float64 { return c.Viewport.Height / 2 }

// Layer is one visual layer of the timeline. Draw builds the layer's
// elements; Update repositions them for the current scale.
type Layer interface {
	Draw(c *Context)
	Update(c *Context)
}
