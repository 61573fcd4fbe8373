// Package tooltip models hover state and lays out tooltip panels.
//
// Hover is a pure state value, Idle or Hovering(target, point). View turns a
// state into an optional panel; the Overlay draws that panel on the surface.
package tooltip

import (
	"github.com/mattn/go-runewidth"
)

const (
	// Padding is the space between the panel edge and its text.
	Padding = 8.0
	// LineSpacing is the gap between consecutive lines.
	LineSpacing = 4.0
	// Offset is the distance between the pointer and the panel's bottom edge.
	Offset = 12.0

	glyphRatio = 0.6
)

// Point is a pointer position in surface coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// State is the hover state of one layer.
type State struct {
	Target string `json:"target,omitempty"`
	Point  Point  `json:"point"`
}

// Idle is the state with nothing hovered.
func Idle() State { return State{} }

// Hovering is the state of target hovered at p.
func Hovering(target string, p Point) State { return State{Target: target, Point: p} }

// Active reports whether something is hovered.
func (s State) Active() bool { return s.Target != "" }

// Line is one line of tooltip text.
type Line struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize"`
	Bold     bool    `json:"bold,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// Content is the text shown for a hovered element.
type Content struct {
	Lines []Line `json:"lines"`
}

// Measure estimates the rendered width of text at fontSize. Wide runes
// count double.
func Measure(text string, fontSize float64) float64 {
	return float64(runewidth.StringWidth(text)) * fontSize * glyphRatio
}

// Panel is a positioned tooltip background with its text.
type Panel struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Lines  []Line  `json:"lines"`
}

// Layout sizes a panel to fit content and anchors it above p.
func Layout(c Content, p Point) Panel {
	var w, h float64
	for i, l := range c.Lines {
		w = max(w, Measure(l.Text, l.FontSize))
		h += l.FontSize
		if i > 0 {
			h += LineSpacing
		}
	}
	panel := Panel{
		Width:  w + 2*Padding,
		Height: h + 2*Padding,
		Lines:  c.Lines,
	}
	return panel.MoveTo(p)
}

// MoveTo repositions the panel so its horizontal centre is at p.X and its
// bottom edge sits Offset above p.Y. The size is kept.
func (p Panel) MoveTo(pt Point) Panel {
	p.X = pt.X - p.Width/2
	p.Y = pt.Y - Offset - p.Height
	return p
}

// Baselines returns the y offset of each line inside the panel.
func (p Panel) Baselines() []float64 {
	out := make([]float64, len(p.Lines))
	y := Padding
	for i, l := range p.Lines {
		y += l.FontSize
		out[i] = y
		y += LineSpacing
	}
	return out
}

// View returns the panel for s, if any. resolve supplies the content of the
// hovered target.
func View(s State, resolve func(target string) (Content, bool)) (Panel, bool) {
	if !s.Active() || resolve == nil {
		return Panel{}, false
	}
	c, ok := resolve(s.Target)
	if !ok || len(c.Lines) == 0 {
		return Panel{}, false
	}
	return Layout(c, s.Point), true
}
