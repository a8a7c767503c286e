package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/tree"
)

// DOTOptions configures Graphviz output.
type DOTOptions struct {
	// Detailed adds lifespan and sex lines to node labels.
	Detailed bool
	// Palette colors the nodes; the zero value uses DefaultPalette.
	Palette *Palette
}

// ToDOT converts a built tree to Graphviz DOT format. Edges always point
// from parent to child, so ancestors rank above the focus person regardless
// of how the tree was merged. Partners in the tree share a rank and are
// joined by an undirected dashed edge.
func ToDOT(root *tree.Node, focusID string, opts DOTOptions) string {
	pal := DefaultPalette
	if opts.Palette != nil {
		pal = *opts.Palette
	}

	var buf bytes.Buffer
	buf.WriteString("digraph family {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"sans-serif\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	nodes := personNodes(root)
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if seen[n.Person.ID] {
			continue
		}
		seen[n.Person.ID] = true
		border := pal.Border
		if n.Person.ID == focusID {
			border = pal.Focus
		}
		attrs := []string{
			fmt.Sprintf("label=%q", dotLabel(n, opts.Detailed)),
			fmt.Sprintf("fillcolor=%q", pal.Fill(n.Person.Sex)),
			fmt.Sprintf("color=%q", border),
		}
		if n.Person.ID == focusID {
			attrs = append(attrs, "penwidth=3")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Person.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	edges := make(map[[2]string]bool)
	edge := func(parent, child string) {
		k := [2]string{parent, child}
		if parent == "" || child == "" || edges[k] {
			return
		}
		edges[k] = true
		fmt.Fprintf(&buf, "  %q -> %q;\n", parent, child)
	}
	focus := root
	if root.IsSynthetic() && len(root.Children) > 0 {
		focus = root.Children[len(root.Children)-1]
	}
	root.Walk(func(n *tree.Node) bool {
		for _, c := range n.Children {
			switch {
			case n.IsSynthetic():
				if c != focus {
					edge(c.ID(), focus.ID())
				}
			case c.Role == tree.RoleAncestor:
				edge(c.ID(), n.ID())
			default:
				edge(n.ID(), c.ID())
			}
		}
		return true
	})

	pairs := make(map[[2]string]bool)
	for _, n := range nodes {
		for _, s := range n.Spouses {
			if !seen[s.ID] {
				continue
			}
			k := [2]string{n.Person.ID, s.ID}
			if k[0] > k[1] {
				k[0], k[1] = k[1], k[0]
			}
			if pairs[k] {
				continue
			}
			pairs[k] = true
			fmt.Fprintf(&buf, "  %q -> %q [dir=none, style=dashed, color=%q, constraint=false];\n", k[0], k[1], pal.SpouseLink)
			fmt.Fprintf(&buf, "  { rank=same; %q; %q; }\n", k[0], k[1])
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n *tree.Node, detailed bool) string {
	name := n.Person.FullName()
	if !detailed {
		return name
	}
	parts := []string{name, n.Person.Lifespan()}
	if n.Person.Sex != "" {
		parts = append(parts, "["+string(n.Person.Sex)+"]")
	}
	return strings.Join(parts, "\n")
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [ToPDF] or [ToPNG].
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg element with one
// whose size matches its viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
