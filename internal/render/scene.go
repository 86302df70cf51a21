// Package render turns an instrument, a view state and its annotations into
// a scene of SVG primitives.
package render

import (
	"maps"
	"slices"
	"strconv"
)

// Node is one SVG element.
type Node struct {
	Tag   string
	ID    string
	Class string
	Attrs []Attr
	Style Style
	// ExportStyle replaces Style in exported images when set.
	ExportStyle Style
	Text        string
	Children    []*Node
}

// Attr is a presentation attribute. Order is preserved on output.
type Attr struct {
	Name  string
	Value string
}

// Style is an inline CSS declaration block.
type Style map[string]string

// String renders the declarations sorted by property.
func (s Style) String() string {
	var out []byte
	for i, k := range slices.Sorted(maps.Keys(s)) {
		if i > 0 {
			out = append(out, ';')
		}
		out = append(out, k...)
		out = append(out, ':')
		out = append(out, s[k]...)
	}
	return string(out)
}

// Attr returns the value of a named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Hidden reports whether the node is fully transparent.
func (n *Node) Hidden() bool {
	return n.Style["opacity"] == "0"
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Scene is a rendered diagram.
type Scene struct {
	Width  float64
	Height float64
	// Background is the app-background color the scene is shown on.
	Background string
	Nodes      []*Node
	// Err is set when the scene only shows an error message.
	Err string
}

// Find returns the first node with the given id.
func (s *Scene) Find(id string) *Node {
	var found *Node
	for _, n := range s.Nodes {
		n.Walk(func(c *Node) bool {
			if found == nil && c.ID == id {
				found = c
			}
			return found == nil
		})
	}
	return found
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func attrs(kv ...string) []Attr {
	out := make([]Attr, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, Attr{Name: kv[i], Value: kv[i+1]})
	}
	return out
}
