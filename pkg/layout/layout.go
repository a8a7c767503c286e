package layout

import (
	"math"

	"github.com/matzehuels/familytree/pkg/tree"
)

// Default box geometry, in SVG user units.
const (
	DefaultNodeWidth  = 150
	DefaultNodeHeight = 80
	DefaultSpacing    = 20
)

// Options describe the size of a person box and the gap between boxes.
// The zero value means the defaults. Otherwise a non-positive width or
// height and a negative spacing fall back to the defaults; zero spacing
// lets boxes touch.
type Options struct {
	NodeWidth  float64
	NodeHeight float64
	Spacing    float64
}

// DefaultOptions returns a 150x80 box with 20 units between boxes.
func DefaultOptions() Options {
	return Options{
		NodeWidth:  DefaultNodeWidth,
		NodeHeight: DefaultNodeHeight,
		Spacing:    DefaultSpacing,
	}
}

// Normalized resolves unset fields to the defaults, so that equal geometry
// always compares equal.
func (o Options) Normalized() Options {
	if o == (Options{}) {
		return DefaultOptions()
	}
	if o.NodeWidth <= 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	if o.Spacing < 0 {
		o.Spacing = DefaultSpacing
	}
	return o
}

// SiblingPitch is the horizontal distance between adjacent leaf centers.
func (o Options) SiblingPitch() float64 {
	o = o.Normalized()
	return o.NodeWidth + o.Spacing
}

// LevelPitch is the vertical distance between consecutive generations.
func (o Options) LevelPitch() float64 {
	o = o.Normalized()
	return o.NodeHeight + o.Spacing
}

// Bounds is the bounding box of node centers.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width returns the horizontal extent of the centers.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the centers.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Tidy sets X and Y on every node of root and returns the bounds of the
// person nodes. The synthetic root is positioned like any other node but
// excluded from the bounds. A nil root yields zero bounds.
func Tidy(root *tree.Node, opts Options) Bounds {
	if root == nil {
		return Bounds{}
	}
	pitch := opts.SiblingPitch()
	level := opts.LevelPitch()

	widths := make(map[*tree.Node]int)
	measure(root, widths)
	place(root, 0, 0, pitch, level, widths)

	dx := root.X
	b := Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	root.Walk(func(n *tree.Node) bool {
		n.X -= dx
		if !n.IsSynthetic() {
			b.MinX = min(b.MinX, n.X)
			b.MaxX = max(b.MaxX, n.X)
			b.MinY = min(b.MinY, n.Y)
			b.MaxY = max(b.MaxY, n.Y)
		}
		return true
	})
	if math.IsInf(b.MinX, 1) {
		return Bounds{}
	}
	return b
}

// measure records the number of leaf slots under every node.
func measure(n *tree.Node, widths map[*tree.Node]int) int {
	if len(n.Children) == 0 {
		widths[n] = 1
		return 1
	}
	w := 0
	for _, c := range n.Children {
		w += measure(c, widths)
	}
	widths[n] = w
	return w
}

// place positions the subtree of n starting at slot left on the given depth.
func place(n *tree.Node, left, depth int, pitch, level float64, widths map[*tree.Node]int) {
	n.Y = float64(depth) * level
	if len(n.Children) == 0 {
		n.X = (float64(left) + 0.5) * pitch
		return
	}
	slot := left
	for _, c := range n.Children {
		place(c, slot, depth+1, pitch, level, widths)
		slot += widths[c]
	}
	first, last := n.Children[0], n.Children[len(n.Children)-1]
	n.X = (first.X + last.X) / 2
}
