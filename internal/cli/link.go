package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/state"
)

// linkCommand creates the link command group.
func (c *CLI) linkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Record a parent-child or spouse relationship",
	}
	cmd.AddCommand(c.linkParentCommand())
	cmd.AddCommand(c.linkSpouseCommand())
	return cmd
}

// unlinkCommand creates the unlink command group.
func (c *CLI) unlinkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlink",
		Short: "Remove a parent-child or spouse relationship",
	}
	cmd.AddCommand(c.unlinkParentCommand())
	cmd.AddCommand(c.unlinkSpouseCommand())
	return cmd
}

func (c *CLI) linkParentCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:     "parent <parent-id> <child-id>",
		Short:   "Record that the first person is a parent of the second",
		Example: "  familytree link parent p1 p3 --kind adopted",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *state.Session) error {
				parent, child := resolvePair(s.State().Data, args)
				edge := family.ParentChildEdge{ParentID: parent, ChildID: child, Kind: family.EdgeKind(kind)}
				if _, err := s.Dispatch(cmd.Context(), state.AddParentChild{Edge: edge}); err != nil {
					return err
				}
				c.printLinked(s.State().Data, parent, child, "parent of")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "relationship type: biological, adopted or unknown")
	return cmd
}

func (c *CLI) linkSpouseCommand() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:     "spouse <id> <id>",
		Short:   "Record that two people are or were partners",
		Example: "  familytree link spouse p1 p2 --start 1974-06-01",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *state.Session) error {
				a, b := resolvePair(s.State().Data, args)
				edge := family.SpouseEdge{AID: a, BID: b, StartDate: start, EndDate: end}
				if _, err := s.Dispatch(cmd.Context(), state.AddSpouse{Edge: edge}); err != nil {
					return err
				}
				c.printLinked(s.State().Data, a, b, iconSpouse)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start of the partnership")
	cmd.Flags().StringVar(&end, "end", "", "end of the partnership")
	return cmd
}

func (c *CLI) unlinkParentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parent <parent-id> <child-id>",
		Short: "Remove a parent-child relationship",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *state.Session) error {
				parent, child := resolvePair(s.State().Data, args)
				if !s.State().Data.HasParentChild(parent, child) {
					c.out.info("No such relationship")
					return nil
				}
				if _, err := s.Dispatch(cmd.Context(), state.RemoveParentChild{ParentID: parent, ChildID: child}); err != nil {
					return err
				}
				c.out.success("Removed parent-child relationship")
				return nil
			})
		},
	}
}

func (c *CLI) unlinkSpouseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "spouse <id> <id>",
		Short: "Remove a spouse relationship",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *state.Session) error {
				a, b := resolvePair(s.State().Data, args)
				if !s.State().Data.HasSpouse(a, b) {
					c.out.info("No such relationship")
					return nil
				}
				if _, err := s.Dispatch(cmd.Context(), state.RemoveSpouse{AID: a, BID: b}); err != nil {
					return err
				}
				c.out.success("Removed spouse relationship")
				return nil
			})
		},
	}
}

// resolvePair resolves two id arguments. Unknown ids are passed through so
// that validation reports them with its own message.
func resolvePair(d *family.FamilyData, args []string) (string, string) {
	ids := make([]string, 2)
	for i, arg := range args[:2] {
		id, err := resolveID(d, arg)
		if err != nil {
			id = arg
		}
		ids[i] = id
	}
	return ids[0], ids[1]
}

func (c *CLI) printLinked(d *family.FamilyData, a, b, relation string) {
	pa, _ := d.Person(a)
	pb, _ := d.Person(b)
	c.out.success("%s %s %s", personStyle(pa).Render(pa.FullName()), StyleDim.Render(relation), personStyle(pb).Render(pb.FullName()))
}
