package cli

import (
	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/state"
	"github.com/matzehuels/familytree/pkg/store"
)

// importCommand replaces the stored family with one read from a JSON file.
func (c *CLI) importCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Load a family from a JSON file into the store",
		Long: `Import reads a family in the JSON export format and saves it to the configured
store. Problems found in the file are reported as warnings; the data is
imported as is so that it can be repaired with the edit commands.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := store.ImportJSON(args[0])
			if err != nil {
				return err
			}
			return c.replaceFamily(cmd, d, force, "Imported "+args[0])
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace a non-empty family")
	return cmd
}

// demoCommand seeds the store with the demo family.
func (c *CLI) demoCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Fill the store with a small sample family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.replaceFamily(cmd, family.Demo(), force, "Loaded the demo family"); err != nil {
				return err
			}
			c.out.nextStep("Draw it", "familytree render p1")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace a non-empty family")
	return cmd
}

func (c *CLI) replaceFamily(cmd *cobra.Command, d *family.FamilyData, force bool, msg string) error {
	ctx := cmd.Context()
	return c.withSession(ctx, func(s *state.Session) error {
		if current := s.State().Data; !current.IsEmpty() && !force {
			return apperr.New(apperr.ErrCodeInvalidInput,
				"the store already holds %d people; pass --force to replace them", len(current.People))
		}
		if _, err := s.Dispatch(ctx, state.LoadData{Data: d}); err != nil {
			return err
		}
		c.out.success("%s: %d people, %d relationships", msg,
			len(d.People), len(d.ParentChildEdges)+len(d.SpouseEdges))
		for _, problem := range family.Audit(d) {
			c.out.warning("%s", problem)
		}
		return nil
	})
}

// exportCommand writes the stored family as JSON.
func (c *CLI) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.json]",
		Short: "Write the family as JSON (to stdout without a file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.loadData(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 0 || args[0] == "-" {
				return store.WriteJSON(c.out.w, d)
			}
			if err := store.ExportJSON(args[0], d); err != nil {
				return err
			}
			c.out.success("Exported %d people", len(d.People))
			c.out.file(args[0])
			return nil
		},
	}
}

// checkCommand audits the stored family for broken references and cycles.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Look for dangling relationships, duplicate ids, and cycles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.loadData(cmd.Context())
			if err != nil {
				return err
			}
			problems := family.Audit(d)
			if len(problems) == 0 {
				c.out.success("No problems in %d people", len(d.People))
				return nil
			}
			for _, problem := range problems {
				c.out.warning("%s", problem)
			}
			return apperr.New(apperr.ErrCodeInvalidFormat, "found %d problems", len(problems))
		},
	}
}
