package era

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/epochline/internal/domain/model"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scene"
	"github.com/okian/epochline/internal/domain/tooltip"
	"github.com/okian/epochline/internal/domain/yearfmt"
)

// Group is the surface layer holding the bands.
const Group = "eras"

// Band geometry.
const (
	BarHeight  = 14.0
	TierGap    = 4.0
	BaseOffset = 30.0
	Opacity    = 0.85

	ShortLabelWidth = 40.0
	FullLabelWidth  = 80.0
)

const (
	labelFontSize = 9.0
	labelColor    = "#fff"
	cornerRadius  = 2
)

// Label picks the text for a band of the given pixel width: nothing below
// ShortLabelWidth, the short name below FullLabelWidth, else the full name.
func Label(p model.Period, width float64) string {
	switch {
	case width < ShortLabelWidth:
		return ""
	case width < FullLabelWidth:
		return p.ShortName
	default:
		return p.Name
	}
}

// BaseY is the top of tier 0, a fixed offset below the axis.
func BaseY(c *render.Context) float64 { return c.AxisY() + BaseOffset }

// TierY is the top of a tier's bands.
func TierY(tier int, baseY float64) float64 {
	return baseY + float64(tier)*(BarHeight+TierGap)
}

// StackBottom is the y just below n stacked tiers.
func StackBottom(n int, baseY float64) float64 { return TierY(n, baseY) }

// Content returns the tooltip text for p.
func Content(p model.Period) tooltip.Content {
	end := p.EndYear
	return tooltip.Content{Lines: []tooltip.Line{
		{Text: p.Name, FontSize: 13, Bold: true},
		{Text: yearfmt.Span(p.StartYear, &end), FontSize: 12},
	}}
}

// Layer draws one band per period.
type Layer struct {
	periods []model.Period
	hovered string
	overlay *tooltip.Overlay
}

// NewLayer creates the band layer for a catalog.
func NewLayer(c Catalog) *Layer {
	return &Layer{periods: c.Periods, overlay: tooltip.NewOverlay(tooltip.EraGroup)}
}

// Key returns the element key of the i-th period.
func Key(i int) string { return "era:" + strconv.Itoa(i) }

// Hovered returns the key of the hovered band, or "".
func (l *Layer) Hovered() string { return l.hovered }

// Draw rebuilds every band.
func (l *Layer) Draw(c *render.Context) {
	g := c.Surface.Layer(Group)
	g.Clear()
	g.Class = "time-periods"
	l.overlay.Init(c.Surface)
	l.hovered = ""

	baseY := BaseY(c)
	for i, p := range l.periods {
		band := scene.NewGroup("", "period")
		y := TierY(p.Tier, baseY)
		band.Set("bar", &scene.Rect{
			Y:       y,
			Height:  BarHeight,
			RX:      cornerRadius,
			Fill:    p.Color,
			Opacity: Opacity,
		})
		band.Set("label", &scene.Text{
			Class:      "period-label",
			Y:          y + BarHeight/2 + 4,
			Anchor:     "middle",
			Fill:       labelColor,
			FontSize:   labelFontSize,
			FontWeight: "500",
			FontFamily: render.FontFamily,
			Inert:      true,
		})
		g.Set(Key(i), band)
	}
	l.Update(c)
}

// Update repositions every band and re-evaluates its label for the new
// pixel width.
func (l *Layer) Update(c *render.Context) {
	g := c.Surface.Layer(Group)
	for i, p := range l.periods {
		band := g.Child(Key(i))
		if band == nil {
			continue
		}
		x0, x1 := c.Scale.Map(float64(p.StartYear)), c.Scale.Map(float64(p.EndYear))
		w := math.Max(0, x1-x0)
		bar := band.Rect("bar")
		bar.X, bar.Width = x0, w
		text := band.Text("label")
		text.X = (x0 + x1) / 2
		text.Content = Label(p, w)
	}
}

// HitTest returns the topmost band under pt.
func (l *Layer) HitTest(c *render.Context, pt tooltip.Point) (string, bool) {
	baseY := BaseY(c)
	for i := len(l.periods) - 1; i >= 0; i-- {
		p := l.periods[i]
		y := TierY(p.Tier, baseY)
		if pt.Y < y || pt.Y > y+BarHeight {
			continue
		}
		x0, x1 := c.Scale.Map(float64(p.StartYear)), c.Scale.Map(float64(p.EndYear))
		if pt.X >= x0 && pt.X <= x1 {
			return Key(i), true
		}
	}
	return "", false
}

// Resolve returns the tooltip content of the band under key.
func (l *Layer) Resolve(key string) (tooltip.Content, bool) {
	i, ok := l.index(key)
	if !ok {
		return tooltip.Content{}, false
	}
	return Content(l.periods[i]), true
}

// Enter raises the band to full opacity and shows its tooltip above pt.
func (l *Layer) Enter(c *render.Context, key string, pt tooltip.Point) (tooltip.Panel, bool) {
	content, ok := l.Resolve(key)
	if !ok {
		return tooltip.Panel{}, false
	}
	if l.hovered != "" && l.hovered != key {
		l.Leave(c)
	}
	l.setOpacity(c, key, scene.Opaque)
	l.hovered = key
	p := tooltip.Layout(content, pt)
	l.overlay.Show(c.Surface, p)
	return p, true
}

// Move keeps the tooltip with the pointer.
func (l *Layer) Move(c *render.Context, pt tooltip.Point) (tooltip.Panel, bool) {
	if l.hovered == "" {
		return tooltip.Panel{}, false
	}
	return l.overlay.Move(c.Surface, pt)
}

// Leave restores base opacity and hides the tooltip.
func (l *Layer) Leave(c *render.Context) {
	if l.hovered == "" {
		return
	}
	l.setOpacity(c, l.hovered, Opacity)
	l.hovered = ""
	l.overlay.Hide(c.Surface)
}

func (l *Layer) setOpacity(c *render.Context, key string, o float64) {
	g := c.Surface.Layer(Group)
	if band := g.Child(key); band != nil {
		band.Rect("bar").Opacity = o
	}
}

func (l *Layer) index(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "era:")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 || i >= len(l.periods) {
		return 0, false
	}
	return i, true
}
