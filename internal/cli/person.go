package cli

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/state"
)

// personFlags are the editable fields of a person.
type personFlags struct {
	id        string
	firstName string
	lastName  string
	sex       string
	birthDate string
	deathDate string
	notes     string
	photoURL  string
}

func (f *personFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.firstName, "first", "", "first name")
	cmd.Flags().StringVar(&f.lastName, "last", "", "last name")
	cmd.Flags().StringVar(&f.sex, "sex", "", "sex: M, F or O")
	cmd.Flags().StringVar(&f.birthDate, "birth", "", "birth date (YYYY, YYYY-MM or YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.deathDate, "death", "", "death date")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&f.photoURL, "photo", "", "photo URL")
}

// apply copies the flags that were set on cmd onto p.
func (f *personFlags) apply(cmd *cobra.Command, p *family.Person) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = strings.TrimSpace(v)
		}
	}
	set("first", &p.FirstName, f.firstName)
	set("last", &p.LastName, f.lastName)
	if cmd.Flags().Changed("sex") {
		p.Sex = family.Sex(strings.ToUpper(strings.TrimSpace(f.sex)))
	}
	set("birth", &p.BirthDate, f.birthDate)
	set("death", &p.DeathDate, f.deathDate)
	set("notes", &p.Notes, f.notes)
	set("photo", &p.PhotoURL, f.photoURL)
}

// personCommand creates the person command group.
func (c *CLI) personCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "person",
		Aliases: []string{"people", "p"},
		Short:   "Add, edit, remove and list people",
	}

	cmd.AddCommand(c.personAddCommand())
	cmd.AddCommand(c.personEditCommand())
	cmd.AddCommand(c.personRemoveCommand())
	cmd.AddCommand(c.personListCommand())
	cmd.AddCommand(c.personSearchCommand())
	cmd.AddCommand(c.personShowCommand())

	return cmd
}

func (c *CLI) personAddCommand() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a person",
		Example: `  familytree person add --first Ada --last Lovelace --sex F --birth 1815-12-10
  familytree person add --first John --last Smith --id p1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p family.Person
			flags.apply(cmd, &p)
			return c.withSession(cmd.Context(), func(s *state.Session) error {
				a := state.AddPerson{Person: p}
				if flags.id == "" {
					a = state.NewAddPerson(p)
				} else {
					a.Person.ID = flags.id
				}
				if _, err := s.Dispatch(cmd.Context(), a); err != nil {
					return err
				}
				c.out.success("Added %s", personLine(a.Person))
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.id, "id", "", "use this id instead of a generated one")
	return cmd
}

func (c *CLI) personEditCommand() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a person",
		Long:  "Change fields of a person. Only the flags given are changed; pass an empty value to clear a field.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *state.Session) error {
				d := s.State().Data
				id, err := resolveID(d, args[0])
				if err != nil {
					return err
				}
				p, _ := d.Person(id)
				flags.apply(cmd, &p)
				if _, err := s.Dispatch(cmd.Context(), state.UpdatePerson{Person: p}); err != nil {
					return err
				}
				c.out.success("Updated %s", personLine(p))
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) personRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a person and every relationship they are part of",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *state.Session) error {
				d := s.State().Data
				id, err := resolveID(d, args[0])
				if err != nil {
					return err
				}
				p, _ := d.Person(id)
				rel := d.ImmediateRelations(id)
				if _, err := s.Dispatch(cmd.Context(), state.DeletePerson{ID: id}); err != nil {
					return err
				}
				c.out.success("Removed %s", personLine(p))
				if n := len(rel.Parents) + len(rel.Children) + len(rel.Spouses); n > 0 {
					c.out.detail("%d relationships removed", n)
				}
				return nil
			})
		},
	}
}

func (c *CLI) personListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List everyone in the family",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.loadData(cmd.Context())
			if err != nil {
				return err
			}
			return c.printPeople(d.People, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (c *CLI) personSearchCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find people by first, last or full name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.loadData(cmd.Context())
			if err != nil {
				return err
			}
			found := d.Search(args[0])
			if len(found) == 0 && !asJSON {
				c.out.info("No one matches %q", args[0])
				return nil
			}
			return c.printPeople(found, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (c *CLI) personShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one person and their immediate relations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.loadData(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveID(d, args[0])
			if err != nil {
				return err
			}
			c.printPerson(d, id)
			return nil
		},
	}
}

// printPeople prints people as a table, or as JSON.
func (c *CLI) printPeople(people []family.Person, asJSON bool) error {
	if asJSON {
		if people == nil {
			people = []family.Person{}
		}
		enc := json.NewEncoder(c.out.w)
		enc.SetIndent("", "  ")
		return enc.Encode(people)
	}
	if len(people) == 0 {
		c.out.info("The family is empty")
		c.out.nextStep("Add someone", "familytree person add --first Ada --last Lovelace")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, len(people))
	for i, p := range people {
		rows[i] = []string{shortID(p.ID), p.FullName(), string(p.Sex), p.Lifespan()}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Sex", "Life").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return personStyle(people[row])
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
	c.out.line(t.Render())
	c.out.detail("%d people", len(people))
	return nil
}

// printPerson prints the fields of id followed by its relations.
func (c *CLI) printPerson(d *family.FamilyData, id string) {
	p, _ := d.Person(id)
	c.out.line(StyleTitle.Render(p.FullName()))
	c.out.keyValue("ID", p.ID)
	if p.Sex != family.SexUnset {
		c.out.keyValue("Sex", string(p.Sex))
	}
	c.out.keyValue("Life", p.Lifespan())
	if p.Notes != "" {
		c.out.keyValue("Notes", p.Notes)
	}
	c.printRelations(d, id)
}

// printRelations prints the parents, children and spouses of id.
func (c *CLI) printRelations(d *family.FamilyData, id string) {
	rel := d.ImmediateRelations(id)
	groups := []struct {
		label string
		ids   []string
	}{
		{"Parents", rel.Parents},
		{"Spouses", rel.Spouses},
		{"Children", rel.Children},
	}
	for _, g := range groups {
		if len(g.ids) == 0 {
			c.out.keyValue(g.label, StyleDim.Render("none"))
			continue
		}
		for i, rid := range g.ids {
			label := ""
			if i == 0 {
				label = g.label
			}
			if rp, ok := d.Person(rid); ok {
				c.out.keyValue(label, personLine(rp))
			} else {
				c.out.keyValue(label, StyleWarning.Render(rid+" (missing)"))
			}
		}
	}
}

// relationsCommand prints one person's immediate relations.
func (c *CLI) relationsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "relations <id>",
		Short: "Show the parents, spouses and children of a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.loadData(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveID(d, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(c.out.w)
				enc.SetIndent("", "  ")
				return enc.Encode(d.ImmediateRelations(id))
			}
			p, _ := d.Person(id)
			c.out.line(StyleTitle.Render(p.FullName()))
			c.printRelations(d, id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// focusID resolves the optional focus argument, falling back to the
// configured focus and then to the first person.
func (c *CLI) focusID(ctx context.Context, d *family.FamilyData, args []string) (string, error) {
	if len(args) > 0 {
		return resolveID(d, args[0])
	}
	if f := c.config().View.Focus; f != "" {
		return resolveID(d, f)
	}
	if len(d.People) > 0 {
		loggerFromContext(ctx).Debug("no focus given, using first person", "id", d.People[0].ID)
		return d.People[0].ID, nil
	}
	return "", nil
}
