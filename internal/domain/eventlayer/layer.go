// Package eventlayer draws point events as markers and range events as
// capsules with end caps, each with a centred label and a hover tooltip.
package eventlayer

import (
	"math"
	"strconv"

	"github.com/okian/epochline/internal/domain/model"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scene"
	"github.com/okian/epochline/internal/domain/tooltip"
	"github.com/okian/epochline/internal/domain/yearfmt"
)

// Surface layers owned by the event layer.
const (
	Group      = "events"
	LabelGroup = "event-labels"
)

// Geometry.
const (
	MarkerRadius = 8.0
	HoverRadius  = 12.0
	BarHeight    = 6.0
	CapRadius    = 5.0
	LabelOffset  = 16.0
	HoverOpacity = 0.7
)

const (
	labelFontSize   = 13.0
	titleFontSize   = 14.0
	detailFontSize  = 12.0
	summaryColor    = "#6b7280"
	pointerCursor   = "pointer"
	barKey          = "bar"
	capA            = "start"
	capB            = "end"
	barClass        = "event-bar"
	markerClass     = "event-dot"
	labelClass      = "label"
	capClass        = "event-cap"
	rangeGroupClass = "event-range"
)

// Partition splits events into point events and range events, keeping the
// input order within each.
func Partition(events []model.Event) (points, ranges []model.Event) {
	for _, e := range events {
		if e.IsRange() {
			ranges = append(ranges, e)
		} else {
			points = append(points, e)
		}
	}
	return points, ranges
}

// BarWidth is the pixel width of a range bar. It is never negative, so a
// range ending before it starts draws with zero width.
func BarWidth(x0, x1 float64) float64 {
	return math.Max(0, x1-x0)
}

// DateLabel formats the date of e: a single label for points, "start — end"
// for ranges.
func DateLabel(e model.Event) string {
	return yearfmt.Span(e.Year, e.EndYear)
}

// Content returns the tooltip text for e: title, date and, when present, the
// summary cut to yearfmt.SummaryLimit characters.
func Content(e model.Event) tooltip.Content {
	lines := []tooltip.Line{
		{Text: e.Title, FontSize: titleFontSize, Bold: true},
		{Text: DateLabel(e), FontSize: detailFontSize},
	}
	if e.Summary != nil && *e.Summary != "" {
		lines = append(lines, tooltip.Line{
			Text:     yearfmt.Truncate(*e.Summary, yearfmt.SummaryLimit),
			FontSize: detailFontSize,
			Color:    summaryColor,
		})
	}
	return tooltip.Content{Lines: lines}
}

// Layer is the event layer. The event set is fixed for its lifetime; a new
// set means a new Layer.
type Layer struct {
	events  []model.Event
	keys    []string
	index   map[string]int
	hovered string
	overlay *tooltip.Overlay
}

// New creates a layer for events. A key already taken by an earlier event
// gets a numbered "~n" suffix so each event keeps its own elements.
func New(events []model.Event) *Layer {
	l := &Layer{
		events:  events,
		keys:    make([]string, len(events)),
		index:   make(map[string]int, len(events)),
		overlay: tooltip.NewOverlay(tooltip.EventGroup),
	}
	for i, e := range events {
		base := e.Key(i)
		k := base
		for n := 1; l.taken(k); n++ {
			k = base + "~" + strconv.Itoa(n)
		}
		l.keys[i] = k
		l.index[k] = i
	}
	return l
}

func (l *Layer) taken(key string) bool {
	_, ok := l.index[key]
	return ok
}

// Events returns the drawn events.
func (l *Layer) Events() []model.Event { return l.events }

// Keys returns the element key of every event in input order.
func (l *Layer) Keys() []string { return l.keys }

// Hovered returns the key of the hovered event, or "".
func (l *Layer) Hovered() string { return l.hovered }

// Draw rebuilds every marker, bar and label.
func (l *Layer) Draw(c *render.Context) {
	marks := c.Surface.Layer(Group)
	labels := c.Surface.Layer(LabelGroup)
	marks.Clear()
	labels.Clear()
	l.overlay.Init(c.Surface)
	l.hovered = ""

	for i, e := range l.events {
		k := l.keys[i]
		if e.IsRange() {
			g := scene.NewGroup("", rangeGroupClass)
			g.Set(barKey, &scene.Rect{Class: barClass, Height: BarHeight, RX: BarHeight / 2, Fill: c.Theme.EventDot, Cursor: pointerCursor})
			g.Set(capA, &scene.Circle{Class: capClass, R: CapRadius, Fill: c.Theme.EventDot, Cursor: pointerCursor})
			g.Set(capB, &scene.Circle{Class: capClass, R: CapRadius, Fill: c.Theme.EventDot, Cursor: pointerCursor})
			marks.Set(k, g)
		} else {
			marks.Set(k, &scene.Circle{Class: markerClass, R: MarkerRadius, Fill: c.Theme.EventDot, Cursor: pointerCursor})
		}
		labels.Set(k, &scene.Text{
			Class:      labelClass,
			Anchor:     "middle",
			Fill:       c.Theme.LabelText,
			FontSize:   labelFontSize,
			FontFamily: render.FontFamily,
			Content:    e.Title,
		})
	}
	l.Update(c)
}

// Update moves existing elements to the current scale. Sizes and hover
// styling are left alone.
func (l *Layer) Update(c *render.Context) {
	marks := c.Surface.Layer(Group)
	labels := c.Surface.Layer(LabelGroup)
	cy := c.CenterY()

	for i, e := range l.events {
		k := l.keys[i]
		x0 := c.Scale.Map(float64(e.Year))
		labelX := x0
		if e.IsRange() {
			x1 := c.Scale.Map(float64(*e.EndYear))
			labelX = (x0 + x1) / 2
			if g := marks.Child(k); g != nil {
				bar := g.Rect(barKey)
				bar.X, bar.Y = x0, cy-BarHeight/2
				bar.Width = BarWidth(x0, x1)
				a, b := g.Circle(capA), g.Circle(capB)
				a.CX, a.CY = x0, cy
				b.CX, b.CY = x1, cy
			}
		} else if m := marks.Circle(k); m != nil {
			m.CX, m.CY = x0, cy
		}
		if t := labels.Text(k); t != nil {
			t.X, t.Y = labelX, cy-LabelOffset
		}
	}
}

// HitTest returns the topmost event under pt.
func (l *Layer) HitTest(c *render.Context, pt tooltip.Point) (string, bool) {
	cy := c.CenterY()
	for i := len(l.events) - 1; i >= 0; i-- {
		e, k := l.events[i], l.keys[i]
		x0 := c.Scale.Map(float64(e.Year))
		if e.IsRange() {
			x1 := x0 + BarWidth(x0, c.Scale.Map(float64(*e.EndYear)))
			if pt.X >= x0-CapRadius && pt.X <= x1+CapRadius && math.Abs(pt.Y-cy) <= CapRadius {
				return k, true
			}
			continue
		}
		r := MarkerRadius
		if k == l.hovered {
			r = HoverRadius
		}
		if math.Hypot(pt.X-x0, pt.Y-cy) <= r {
			return k, true
		}
	}
	return "", false
}

// Resolve returns the tooltip content of the event drawn under key.
func (l *Layer) Resolve(key string) (tooltip.Content, bool) {
	i, ok := l.index[key]
	if !ok {
		return tooltip.Content{}, false
	}
	return Content(l.events[i]), true
}

// Enter starts hovering key: point markers grow, range elements fade, and
// the tooltip appears above pt. Entering a second event leaves the first.
func (l *Layer) Enter(c *render.Context, key string, pt tooltip.Point) (tooltip.Panel, bool) {
	content, ok := l.Resolve(key)
	if !ok {
		return tooltip.Panel{}, false
	}
	if l.hovered != "" && l.hovered != key {
		l.Leave(c)
	}
	l.style(c, key, true)
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

// Leave restores the hovered element and hides the tooltip.
func (l *Layer) Leave(c *render.Context) {
	if l.hovered == "" {
		return
	}
	l.style(c, l.hovered, false)
	l.hovered = ""
	l.overlay.Hide(c.Surface)
}

func (l *Layer) style(c *render.Context, key string, hover bool) {
	marks := c.Surface.Layer(Group)
	if m := marks.Circle(key); m != nil {
		m.R = MarkerRadius
		if hover {
			m.R = HoverRadius
		}
		return
	}
	g := marks.Child(key)
	if g == nil {
		return
	}
	o := scene.Opaque
	if hover {
		o = HoverOpacity
	}
	g.Rect(barKey).Opacity = o
	g.Circle(capA).Opacity = o
	g.Circle(capB).Opacity = o
}
