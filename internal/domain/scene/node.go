// Package scene is the drawing surface: z-ordered groups of keyed shapes that
// serialize to SVG.
package scene

import "bytes"

// Node is a drawable element.
type Node interface {
	writeSVG(b *bytes.Buffer)
}

// Opaque is full opacity. An unset (zero) Opacity also draws opaque.
const Opaque = 1.0

// Rect is an axis-aligned rectangle.
type Rect struct {
	Class       string
	X, Y        float64
	Width       float64
	Height      float64
	RX          float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
	Cursor      string
}

// Circle is a filled circle.
type Circle struct {
	Class   string
	CX, CY  float64
	R       float64
	Fill    string
	Opacity float64
	Cursor  string
}

// Line is a straight stroke.
type Line struct {
	Class       string
	X1, Y1      float64
	X2, Y2      float64
	Stroke      string
	StrokeWidth float64
	Linecap     string
	Opacity     float64
}

// Text is a single line of text.
type Text struct {
	Class      string
	X, Y       float64
	Anchor     string
	Fill       string
	FontSize   float64
	FontWeight string
	FontFamily string
	Content    string
	// Inert text does not receive pointer events.
	Inert bool
}

func (r *Rect) writeSVG(b *bytes.Buffer) {
	b.WriteString("<rect")
	attrStr(b, "class", r.Class)
	attrNum(b, "x", r.X)
	attrNum(b, "y", r.Y)
	attrNum(b, "width", r.Width)
	attrNum(b, "height", r.Height)
	if r.RX > 0 {
		attrNum(b, "rx", r.RX)
	}
	attrStr(b, "fill", r.Fill)
	attrStr(b, "stroke", r.Stroke)
	if r.StrokeWidth > 0 {
		attrNum(b, "stroke-width", r.StrokeWidth)
	}
	attrOpacity(b, r.Opacity)
	attrStr(b, "cursor", r.Cursor)
	b.WriteString("/>")
}

func (c *Circle) writeSVG(b *bytes.Buffer) {
	b.WriteString("<circle")
	attrStr(b, "class", c.Class)
	attrNum(b, "cx", c.CX)
	attrNum(b, "cy", c.CY)
	attrNum(b, "r", c.R)
	attrStr(b, "fill", c.Fill)
	attrOpacity(b, c.Opacity)
	attrStr(b, "cursor", c.Cursor)
	b.WriteString("/>")
}

func (l *Line) writeSVG(b *bytes.Buffer) {
	b.WriteString("<line")
	attrStr(b, "class", l.Class)
	attrNum(b, "x1", l.X1)
	attrNum(b, "y1", l.Y1)
	attrNum(b, "x2", l.X2)
	attrNum(b, "y2", l.Y2)
	attrStr(b, "stroke", l.Stroke)
	if l.StrokeWidth > 0 {
		attrNum(b, "stroke-width", l.StrokeWidth)
	}
	attrStr(b, "stroke-linecap", l.Linecap)
	attrOpacity(b, l.Opacity)
	b.WriteString("/>")
}

func (t *Text) writeSVG(b *bytes.Buffer) {
	b.WriteString("<text")
	attrStr(b, "class", t.Class)
	attrNum(b, "x", t.X)
	attrNum(b, "y", t.Y)
	attrStr(b, "text-anchor", t.Anchor)
	attrStr(b, "fill", t.Fill)
	if t.FontSize > 0 {
		attrStr(b, "font-size", formatNum(t.FontSize)+"px")
	}
	attrStr(b, "font-weight", t.FontWeight)
	attrStr(b, "font-family", t.FontFamily)
	if t.Inert {
		attrStr(b, "pointer-events", "none")
	}
	b.WriteString(">")
	b.WriteString(escapeXML(t.Content))
	b.WriteString("</text>")
}
