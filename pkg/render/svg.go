package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/tree"
)

// DefaultPadding is the margin around the drawing, in SVG user units.
const DefaultPadding = 40.0

// EmptyMessage is shown when there is no tree to draw.
const EmptyMessage = "No focus person selected"

const interactionCSS = `
    .person rect { transition: stroke-width 0.2s ease; }
    .person:hover rect { stroke-width: 3; }
    .spouse-link { stroke-dasharray: 6 4; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	box         layout.Options
	palette     Palette
	focusID     string
	selectedID  string
	padding     float64
	spouseLinks bool
	badges      bool
	title       string
	empty       string
}

// WithBox sets the box geometry. It must match the options given to layout.Tidy.
func WithBox(o layout.Options) SVGOption { return func(r *svgRenderer) { r.box = o } }

// WithPalette replaces the color scheme.
func WithPalette(p Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// WithFocus outlines the box of the focus person.
func WithFocus(id string) SVGOption { return func(r *svgRenderer) { r.focusID = id } }

// WithSelected outlines the box of the selected person.
func WithSelected(id string) SVGOption { return func(r *svgRenderer) { r.selectedID = id } }

// WithPadding sets the margin around the drawing.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = max(p, 0) } }

// WithoutSpouseLinks omits the dashed lines between partners.
func WithoutSpouseLinks() SVGOption { return func(r *svgRenderer) { r.spouseLinks = false } }

// WithoutBadges omits the spouse count badge.
func WithoutBadges() SVGOption { return func(r *svgRenderer) { r.badges = false } }

// WithTitle adds an accessible document title.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithEmptyMessage sets the text drawn when root is nil.
func WithEmptyMessage(msg string) SVGOption { return func(r *svgRenderer) { r.empty = msg } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		box:         layout.DefaultOptions(),
		palette:     DefaultPalette,
		padding:     DefaultPadding,
		spouseLinks: true,
		badges:      true,
		empty:       EmptyMessage,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.box.NodeWidth <= 0 || r.box.NodeHeight <= 0 {
		r.box = layout.DefaultOptions()
	}
	return r
}

// RenderSVG draws a tree whose nodes already carry layout coordinates.
// A nil root produces a small placeholder drawing with the empty message.
func RenderSVG(root *tree.Node, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	if root == nil || (root.IsSynthetic() && len(root.Children) == 0) {
		return r.renderEmpty()
	}

	nodes := personNodes(root)
	minX, minY, maxX, maxY := r.frame(nodes)
	w, h := maxX-minX, maxY-minY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX, minY, w, h, w, h)
	r.renderHeader(&buf, minX, minY, w, h)

	buf.WriteString(`  <g class="connectors">` + "\n")
	r.renderConnectors(&buf, root)
	buf.WriteString("  </g>\n")

	if r.spouseLinks {
		buf.WriteString(`  <g class="spouse-links">` + "\n")
		r.renderSpouseLinks(&buf, nodes)
		buf.WriteString("  </g>\n")
	}

	buf.WriteString(`  <g class="people">` + "\n")
	for _, n := range nodes {
		r.renderPerson(&buf, n)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// personNodes lists person nodes in pre-order.
func personNodes(root *tree.Node) []*tree.Node {
	var out []*tree.Node
	root.Walk(func(n *tree.Node) bool {
		if !n.IsSynthetic() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// frame returns the padded drawing area around every box.
func (r *svgRenderer) frame(nodes []*tree.Node) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX, maxX = min(minX, n.X), max(maxX, n.X)
		minY, maxY = min(minY, n.Y), max(maxY, n.Y)
	}
	hw, hh := r.box.NodeWidth/2, r.box.NodeHeight/2
	return minX - hw - r.padding, minY - hh - r.padding, maxX + hw + r.padding, maxY + hh + r.padding
}

func (r *svgRenderer) renderHeader(buf *bytes.Buffer, x, y, w, h float64) {
	if r.title != "" {
		fmt.Fprintf(buf, "  <title>%s</title>\n", escape(r.title))
	}
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", interactionCSS)
	if r.palette.Background != "" {
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			x, y, w, h, r.palette.Background)
	}
}

func (r *svgRenderer) renderEmpty() []byte {
	const w, h = 400.0, 120.0
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	r.renderHeader(&buf, 0, 0, w, h)
	writeText(&buf, w/2, h/2, 16, r.palette.Dates, "", "middle", r.empty)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderConnectors draws a line from the bottom of every person box to the
// top of each of its children. The synthetic root has no connectors.
func (r *svgRenderer) renderConnectors(buf *bytes.Buffer, n *tree.Node) {
	hh := r.box.NodeHeight / 2
	for _, c := range n.Children {
		if !n.IsSynthetic() {
			fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.5"/>`+"\n",
				n.X, n.Y+hh, c.X, c.Y-hh, r.palette.Connector)
		}
		r.renderConnectors(buf, c)
	}
}

// renderSpouseLinks joins partners that are both in the tree. Each pair is
// drawn once, between the facing sides when they share a row.
func (r *svgRenderer) renderSpouseLinks(buf *bytes.Buffer, nodes []*tree.Node) {
	pos := make(map[string]*tree.Node, len(nodes))
	for _, n := range nodes {
		if _, ok := pos[n.Person.ID]; !ok {
			pos[n.Person.ID] = n
		}
	}
	drawn := make(map[[2]string]bool)
	hw := r.box.NodeWidth / 2
	for _, n := range nodes {
		for _, s := range n.Spouses {
			other, ok := pos[s.ID]
			if !ok || other == n {
				continue
			}
			key := [2]string{n.Person.ID, s.ID}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			if drawn[key] {
				continue
			}
			drawn[key] = true

			x1, y1, x2, y2 := n.X, n.Y, other.X, other.Y
			if y1 == y2 {
				if x1 < x2 {
					x1, x2 = x1+hw, x2-hw
				} else {
					x1, x2 = x1-hw, x2+hw
				}
			}
			fmt.Fprintf(buf, `    <line class="spouse-link" data-a="%s" data-b="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.5"/>`+"\n",
				escape(key[0]), escape(key[1]), x1, y1, x2, y2, r.palette.SpouseLink)
		}
	}
}

func (r *svgRenderer) renderPerson(buf *bytes.Buffer, n *tree.Node) {
	p := n.Person
	w, h := r.box.NodeWidth, r.box.NodeHeight
	x, y := n.X, n.Y

	stroke, width := r.palette.Border, 1.0
	switch p.ID {
	case r.focusID:
		stroke, width = r.palette.Focus, 3
	case r.selectedID:
		stroke, width = r.palette.Selected, 2
	}

	fmt.Fprintf(buf, `   <g class="person" id="person-%s" data-role="%s">`+"\n", escape(p.ID), n.Role)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s" stroke="%s" stroke-width="%.0f"/>`+"\n",
		x-w/2, y-h/2, w, h, cornerRadius, r.palette.Fill(p.Sex), stroke, width)

	writeText(buf, x, y-10, nameFontSize, r.palette.Name, "600", "middle", truncate(p.FullName(), w, nameFontSize))
	writeText(buf, x, y+5, smallFontSize, r.palette.Dates, "", "middle", p.Lifespan())
	if p.Sex != "" {
		writeText(buf, x, y+18, smallFontSize, r.palette.Sex, "", "middle", "["+string(p.Sex)+"]")
	}
	if r.badges && len(n.Spouses) > 0 {
		writeText(buf, x+w/2-5, y-h/2+12, badgeFontSize, r.palette.Badge, "bold", "end", fmt.Sprintf("♥ %d", len(n.Spouses)))
	}
	buf.WriteString("   </g>\n")
}
