package scene

import (
	"bytes"
	"slices"
)

// Group is an ordered set of nodes addressed by key. Setting an existing key
// replaces the node in place, so a group never holds two nodes for one key.
type Group struct {
	ID     string
	Class  string
	X, Y   float64 // translation
	Hidden bool

	keys  []string
	nodes map[string]Node
}

// NewGroup creates an empty group.
func NewGroup(id, class string) *Group {
	return &Group{ID: id, Class: class, nodes: make(map[string]Node)}
}

// Set stores n under key, keeping the original position of an existing key.
func (g *Group) Set(key string, n Node) {
	if g.nodes == nil {
		g.nodes = make(map[string]Node)
	}
	if _, ok := g.nodes[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.nodes[key] = n
}

// Get returns the node stored under key.
func (g *Group) Get(key string) (Node, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// Rect returns the rectangle stored under key, or nil.
func (g *Group) Rect(key string) *Rect {
	r, _ := g.nodes[key].(*Rect)
	return r
}

// Circle returns the circle stored under key, or nil.
func (g *Group) Circle(key string) *Circle {
	c, _ := g.nodes[key].(*Circle)
	return c
}

// Line returns the line stored under key, or nil.
func (g *Group) Line(key string) *Line {
	l, _ := g.nodes[key].(*Line)
	return l
}

// Text returns the text stored under key, or nil.
func (g *Group) Text(key string) *Text {
	t, _ := g.nodes[key].(*Text)
	return t
}

// Child returns the nested group stored under key, or nil.
func (g *Group) Child(key string) *Group {
	c, _ := g.nodes[key].(*Group)
	return c
}

// Delete removes key from the group.
func (g *Group) Delete(key string) {
	if _, ok := g.nodes[key]; !ok {
		return
	}
	delete(g.nodes, key)
	g.keys = slices.DeleteFunc(g.keys, func(k string) bool { return k == key })
}

// Clear removes every node.
func (g *Group) Clear() {
	g.keys = nil
	g.nodes = make(map[string]Node)
}

// Len returns the number of direct children.
func (g *Group) Len() int { return len(g.keys) }

// Keys returns the child keys in drawing order.
func (g *Group) Keys() []string { return slices.Clone(g.keys) }

// count returns the number of nodes below g, nested groups included.
func (g *Group) count() int {
	n := 0
	for _, k := range g.keys {
		n++
		if c, ok := g.nodes[k].(*Group); ok {
			n += c.count()
		}
	}
	return n
}

func (g *Group) writeSVG(b *bytes.Buffer) {
	b.WriteString("<g")
	attrStr(b, "id", g.ID)
	attrStr(b, "class", g.Class)
	if g.X != 0 || g.Y != 0 {
		attrStr(b, "transform", "translate("+formatNum(g.X)+","+formatNum(g.Y)+")")
	}
	if g.Hidden {
		attrStr(b, "visibility", "hidden")
	}
	b.WriteString(">")
	for _, k := range g.keys {
		g.nodes[k].writeSVG(b)
	}
	b.WriteString("</g>")
}
