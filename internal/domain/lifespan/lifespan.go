// Package lifespan draws the human-lifespan reference span, a fixed number
// of years whose pixel width follows the zoom while its centre stays put.
package lifespan

import (
	"math"

	"github.com/okian/epochline/internal/domain/era"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scale"
	"github.com/okian/epochline/internal/domain/scene"
)

// Group is the surface layer holding the indicator.
const Group = "lifespan"

const (
	// Years is the represented duration.
	Years = 80
	// AnchorYear is the start year used to measure the width.
	AnchorYear = 2000
	// DefaultAnchorRatio places the centre at 90% of the viewport width.
	DefaultAnchorRatio = 0.9

	// Text is the label shown beside the line.
	Text = "Human lifespan (80 yrs)"

	color       = "#ef4444"
	strokeWidth = 3
	capRadius   = 4
	labelGap    = 10
	belowStack  = 8
	fontSize    = 11
)

// Width is the pixel width of Years at scale s.
func Width(s scale.Scale) float64 {
	return math.Abs(s.Map(AnchorYear+Years) - s.Map(AnchorYear))
}

// Indicator is the lifespan layer.
type Indicator struct {
	anchor float64
	tiers  int
}

// New returns an indicator centred at anchorRatio of the viewport width,
// drawn below a stack of tiers era tiers.
func New(anchorRatio float64, tiers int) *Indicator {
	return &Indicator{anchor: anchorRatio, tiers: tiers}
}

// CenterX is the fixed horizontal centre.
func (i *Indicator) CenterX(c *render.Context) float64 {
	return c.Viewport.Width * i.anchor
}

// Y is the vertical position of the line.
func (i *Indicator) Y(c *render.Context) float64 {
	return era.StackBottom(i.tiers, era.BaseY(c)) + belowStack
}

// Draw builds the line, its caps and its label.
func (i *Indicator) Draw(c *render.Context) {
	g := c.Surface.Layer(Group)
	g.Clear()
	g.Class = "lifespan-indicator"
	y := i.Y(c)

	g.Set("line", &scene.Line{Class: "lifespan-line", Y1: y, Y2: y, Stroke: color, StrokeWidth: strokeWidth, Linecap: "round"})
	g.Set("start", &scene.Circle{Class: "lifespan-start", CY: y, R: capRadius, Fill: color})
	g.Set("end", &scene.Circle{Class: "lifespan-end", CY: y, R: capRadius, Fill: color})
	g.Set("label", &scene.Text{
		Class:      "lifespan-label",
		Y:          y + 4,
		Anchor:     "end",
		Fill:       color,
		FontSize:   fontSize,
		FontFamily: render.FontFamily,
		Content:    Text,
	})
	i.Update(c)
}

// Update recomputes the width for the current scale around the fixed
// centre.
func (i *Indicator) Update(c *render.Context) {
	g := c.Surface.Layer(Group)
	half := Width(c.Scale) / 2
	cx := i.CenterX(c)
	x1, x2 := cx-half, cx+half

	if l := g.Line("line"); l != nil {
		l.X1, l.X2 = x1, x2
	}
	if s := g.Circle("start"); s != nil {
		s.CX = x1
	}
	if e := g.Circle("end"); e != nil {
		e.CX = x2
	}
	if t := g.Text("label"); t != nil {
		t.X = x1 - labelGap
	}
}
