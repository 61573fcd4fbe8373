package tooltip

import (
	"strconv"

	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scene"
)

// Ids of the two overlay layers.
const (
	EventGroup = "event-tooltip"
	EraGroup   = "era-tooltip"
)

const (
	panelFill   = "#ffffff"
	panelStroke = "#e5e5e5"
	panelRadius = 4
	textColor   = "#374151"
)

// Overlay draws a panel into its own hidden-by-default layer. Panel
// contents are relative to the layer, so moving it only translates.
type Overlay struct {
	id    string
	panel Panel
	shown bool
}

// NewOverlay returns an overlay drawing into layer id.
func NewOverlay(id string) *Overlay { return &Overlay{id: id} }

// ID returns the layer id.
func (o *Overlay) ID() string { return o.id }

// Init creates the layer hidden.
func (o *Overlay) Init(s *scene.Surface) {
	g := s.Layer(o.id)
	g.Clear()
	g.Hidden = true
	o.shown = false
	o.panel = Panel{}
}

// Show lays out panel in the layer and makes it visible.
func (o *Overlay) Show(s *scene.Surface, p Panel) {
	g := s.Layer(o.id)
	g.Clear()
	g.Set("panel", &scene.Rect{
		Width:       p.Width,
		Height:      p.Height,
		RX:          panelRadius,
		Fill:        panelFill,
		Stroke:      panelStroke,
		StrokeWidth: 1,
	})
	for i, y := range p.Baselines() {
		l := p.Lines[i]
		t := &scene.Text{
			X:          Padding,
			Y:          y,
			Fill:       textColor,
			FontSize:   l.FontSize,
			FontFamily: render.FontFamily,
			Content:    l.Text,
			Inert:      true,
		}
		if l.Color != "" {
			t.Fill = l.Color
		}
		if l.Bold {
			t.FontWeight = "600"
		}
		g.Set("line:"+strconv.Itoa(i), t)
	}
	g.X, g.Y = p.X, p.Y
	g.Hidden = false
	o.panel = p
	o.shown = true
}

// Move follows the pointer without resizing. It reports the moved panel.
func (o *Overlay) Move(s *scene.Surface, pt Point) (Panel, bool) {
	if !o.shown {
		return Panel{}, false
	}
	o.panel = o.panel.MoveTo(pt)
	g := s.Layer(o.id)
	g.X, g.Y = o.panel.X, o.panel.Y
	return o.panel, true
}

// Hide empties the layer. Nothing carries over to the next Show.
func (o *Overlay) Hide(s *scene.Surface) {
	g := s.Layer(o.id)
	g.Clear()
	g.Hidden = true
	g.X, g.Y = 0, 0
	o.panel = Panel{}
	o.shown = false
}

// Visible reports whether a panel is shown.
func (o *Overlay) Visible() bool { return o.shown }

// Panel returns the shown panel.
func (o *Overlay) Panel() (Panel, bool) { return o.panel, o.shown }
