// Package axis draws the horizontal year axis with BCE/CE tick labels.
package axis

import (
	"strconv"

	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scale"
	"github.com/okian/epochline/internal/domain/scene"
	"github.com/okian/epochline/internal/domain/yearfmt"
)

// Group is the surface layer holding the axis.
const Group = "axis"

const (
	tickPadding  = 12
	tickFontSize = 13
	defaultCount = 10
)

// Tick is one labelled position on the axis.
type Tick struct {
	Value float64 `json:"value"`
	X     float64 `json:"x"`
	Label string  `json:"label"`
}

// Ticks returns about n ticks for the current domain of s.
func Ticks(s scale.Scale, n int) []Tick {
	values := s.Ticks(n)
	out := make([]Tick, 0, len(values))
	for _, v := range values {
		out = append(out, Tick{Value: v, X: s.Map(v), Label: yearfmt.Label(v)})
	}
	return out
}

// Renderer is the axis layer.
type Renderer struct {
	count int
}

// New returns an axis requesting about count ticks. Non-positive counts use
// the default of ten.
func New(count int) *Renderer {
	if count <= 0 {
		count = defaultCount
	}
	return &Renderer{count: count}
}

// Draw builds the axis for the current scale.
func (r *Renderer) Draw(c *render.Context) { r.Update(c) }

// Update regenerates every tick from the current scale. Nothing is reused
// between calls.
func (r *Renderer) Update(c *render.Context) {
	g := c.Surface.Layer(Group)
	g.Clear()
	g.X, g.Y = 0, c.AxisY()

	r0, r1 := c.Scale.Range()
	g.Set("domain", &scene.Line{
		Class:       "domain",
		X1:          r0,
		X2:          r1,
		Stroke:      c.Theme.Axis,
		StrokeWidth: 1,
	})
	for i, t := range Ticks(c.Scale, r.count) {
		g.Set("tick:"+strconv.Itoa(i), &scene.Text{
			Class:      "tick",
			X:          t.X,
			Y:          tickPadding,
			Anchor:     "middle",
			Fill:       c.Theme.TickText,
			FontSize:   tickFontSize,
			FontFamily: render.FontFamily,
			Content:    t.Label,
		})
	}
}
