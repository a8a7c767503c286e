package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/tree"
)

// viewFlags select the people shown around a focus.
type viewFlags struct {
	ancestors   int
	descendants int
	maxNodes    int
}

func (v *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&v.ancestors, "ancestors", "a", -1, fmt.Sprintf("ancestor generations, 0-%d (default from config)", tree.MaxDepth))
	cmd.Flags().IntVarP(&v.descendants, "descendants", "d", -1, fmt.Sprintf("descendant generations, 0-%d (default from config)", tree.MaxDepth))
	cmd.Flags().IntVar(&v.maxNodes, "max-nodes", 0, "fail when the tree would exceed this many people")
}

// options merges the flags over the configured view.
func (v *viewFlags) options(c *CLI) tree.Options {
	opts := c.config().TreeOptions()
	if v.ancestors >= 0 {
		opts.AncestorDepth = v.ancestors
	}
	if v.descendants >= 0 {
		opts.DescendantDepth = v.descendants
	}
	if v.maxNodes > 0 {
		opts.MaxNodes = v.maxNodes
	}
	return opts
}

// treeCommand prints the tree around a person as indented text.
func (c *CLI) treeCommand() *cobra.Command {
	var view viewFlags

	cmd := &cobra.Command{
		Use:   "tree [focus-id]",
		Short: "Print the ancestors and descendants of a person",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := c.loadData(ctx)
			if err != nil {
				return err
			}
			focus, err := c.focusID(ctx, d, args)
			if err != nil {
				return err
			}
			root, err := tree.Build(d, focus, view.options(c))
			if err != nil {
				return err
			}
			if root == nil {
				c.out.info("No focus person selected")
				return nil
			}
			c.out.line(formatTree(root))
			return nil
		},
	}

	view.register(cmd)
	return cmd
}

// formatTree renders a built tree with box-drawing connectors. Ancestor
// branches are listed before the focus; a synthetic root prints nothing.
func formatTree(root *tree.Node) string {
	var b strings.Builder
	if root.IsSynthetic() {
		for _, child := range root.Children {
			writeTreeNode(&b, child, "", true, true)
		}
	} else {
		writeTreeNode(&b, root, "", true, true)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeTreeNode(b *strings.Builder, n *tree.Node, prefix string, last, top bool) {
	connector, childPrefix := "├── ", prefix+"│   "
	if last {
		connector, childPrefix = "└── ", prefix+"    "
	}
	if top {
		connector, childPrefix = "", prefix
	}

	b.WriteString(StyleDim.Render(prefix + connector))
	b.WriteString(nodeLabel(n))
	b.WriteString("\n")

	for i, child := range n.Children {
		writeTreeNode(b, child, childPrefix, i == len(n.Children)-1, false)
	}
}

func nodeLabel(n *tree.Node) string {
	name := personStyle(n.Person).Render(n.Person.FullName())
	switch n.Role {
	case tree.RoleFocus:
		name = styleFocus.Render("★ " + n.Person.FullName())
	case tree.RoleAncestor:
		name = StyleDim.Render("↑ ") + name
	}

	label := name + " " + StyleDim.Render("("+n.Person.Lifespan()+")")
	if len(n.Spouses) > 0 {
		names := make([]string, len(n.Spouses))
		for i, s := range n.Spouses {
			names[i] = s.FullName()
		}
		label += " " + StyleDim.Render(iconSpouse+" "+strings.Join(names, ", "))
	}
	return label
}
