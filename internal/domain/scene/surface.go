package scene

import (
	"bytes"
	"io"
	"slices"
)

// Surface is the root drawing area. Layers are drawn in creation order, so
// later layers sit above earlier ones.
type Surface struct {
	Width  float64
	Height float64

	layers []*Group
	index  map[string]*Group
}

// NewSurface creates an empty surface of the given size.
func NewSurface(width, height float64) *Surface {
	return &Surface{Width: width, Height: height, index: make(map[string]*Group)}
}

// Resize changes the surface dimensions. Layers are left as they are.
func (s *Surface) Resize(width, height float64) {
	s.Width, s.Height = width, height
}

// Layer returns the top-level group with the given id, appending it above
// the existing layers if it does not exist yet.
func (s *Surface) Layer(id string) *Group {
	if s.index == nil {
		s.index = make(map[string]*Group)
	}
	if g, ok := s.index[id]; ok {
		return g
	}
	g := NewGroup(id, "")
	s.layers = append(s.layers, g)
	s.index[id] = g
	return g
}

// Lookup returns an existing layer.
func (s *Surface) Lookup(id string) (*Group, bool) {
	g, ok := s.index[id]
	return g, ok
}

// Layers returns layer ids from bottom to top.
func (s *Surface) Layers() []string {
	ids := make([]string, 0, len(s.layers))
	for _, g := range s.layers {
		ids = append(ids, g.ID)
	}
	return ids
}

// Remove drops a layer and everything in it.
func (s *Surface) Remove(id string) {
	if _, ok := s.index[id]; !ok {
		return
	}
	delete(s.index, id)
	s.layers = slices.DeleteFunc(s.layers, func(g *Group) bool { return g.ID == id })
}

// Clear removes every layer.
func (s *Surface) Clear() {
	s.layers = nil
	s.index = make(map[string]*Group)
}

// Count returns the number of nodes on the surface, layers included.
func (s *Surface) Count() int {
	n := 0
	for _, g := range s.layers {
		n += 1 + g.count()
	}
	return n
}

// WriteSVG serializes the surface as a standalone SVG document.
func (s *Surface) WriteSVG(w io.Writer) error {
	_, err := w.Write(s.SVG())
	return err
}

// SVG returns the surface as a standalone SVG document.
func (s *Surface) SVG() []byte {
	var b bytes.Buffer
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg"`)
	attrNum(&b, "width", s.Width)
	attrNum(&b, "height", s.Height)
	attrStr(&b, "viewBox", "0 0 "+formatNum(s.Width)+" "+formatNum(s.Height))
	b.WriteString(">")
	for _, g := range s.layers {
		g.writeSVG(&b)
	}
	b.WriteString("</svg>")
	return b.Bytes()
}
