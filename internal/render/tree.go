package render

import (
	"slices"
	"strings"

	"emoji-inventory/internal/inventory"
)

// Rect is a screen rectangle in terminal cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Node is one element of a grid's visual tree. Class holds space-separated
// style hooks that themes and tests select on.
type Node struct {
	Class    string
	Text     string
	Item     *inventory.Item
	Bar      *Bar
	Children []*Node
}

// HasClass reports whether c is one of n's hooks.
func (n *Node) HasClass(c string) bool {
	return slices.Contains(strings.Fields(n.Class), c)
}

// Walk visits n and its descendants depth-first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns every node under n (including n) carrying class c.
func (n *Node) Find(c string) []*Node {
	var out []*Node
	n.Walk(func(m *Node) {
		if m.HasClass(c) {
			out = append(out, m)
		}
	})
	return out
}

func (n *Node) add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}
