package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PersonListModel - Interactive person selection
// =============================================================================

// PersonListModel is the bubbletea model for choosing a focus person.
// Typing narrows the list with the same matching as `person search`.
type PersonListModel struct {
	Data     *family.FamilyData
	Query    string
	Matches  []family.Person
	Cursor   int
	Offset   int
	Height   int
	Selected *family.Person
}

// NewPersonListModel creates a list over every person in d.
func NewPersonListModel(d *family.FamilyData) PersonListModel {
	return PersonListModel{
		Data:    d,
		Matches: d.Search(""),
		Height:  15,
	}
}

func (m PersonListModel) Init() tea.Cmd {
	return nil
}

func (m PersonListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(m.Matches)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(m.Matches) == 0 {
				return m, nil
			}
			p := m.Matches[m.Cursor]
			m.Selected = &p
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Query != "" {
				r := []rune(m.Query)
				m = m.filter(string(r[:len(r)-1]))
			}
		case tea.KeyRunes, tea.KeySpace:
			m = m.filter(m.Query + string(msg.Runes))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

// filter re-runs the search and resets the cursor.
func (m PersonListModel) filter(q string) PersonListModel {
	m.Query = q
	m.Matches = m.Data.Search(q)
	m.Cursor, m.Offset = 0, 0
	return m
}

func (m PersonListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Person"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to search  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n\n")
	b.WriteString(StyleHighlight.Render("› ") + m.Query + listDimStyle.Render("▏"))
	b.WriteString("\n")

	if len(m.Matches) == 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("  No matches"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Matches))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Matches[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, p.FullName(), p.Lifespan(), shortID(p.ID)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Life", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Matches) {
				return lipgloss.NewStyle()
			}
			if col >= 2 {
				return listDimStyle
			}
			if idx == m.Cursor {
				return listSelectedStyle
			}
			return personStyle(m.Matches[idx])
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Matches))))

	return b.String()
}

// pickCommand lets the user choose a person interactively and prints their
// relations and tree.
func (c *CLI) pickCommand() *cobra.Command {
	var view viewFlags

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a person interactively and show their tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := c.loadData(ctx)
			if err != nil {
				return err
			}
			if d.IsEmpty() {
				c.out.info("The family is empty")
				c.out.nextStep("Start with", "familytree demo")
				return nil
			}

			final, err := tea.NewProgram(NewPersonListModel(d), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			m, ok := final.(PersonListModel)
			if !ok || m.Selected == nil {
				return nil
			}

			c.printPerson(d, m.Selected.ID)
			root, err := tree.Build(d, m.Selected.ID, view.options(c))
			if err != nil {
				return err
			}
			c.out.line("")
			c.out.line(formatTree(root))
			c.out.line("")
			c.out.nextStep("Render it", "familytree render "+shortID(m.Selected.ID))
			return nil
		},
	}

	view.register(cmd)
	return cmd
}
