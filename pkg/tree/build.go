package tree

import (
	"errors"
	"slices"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

const (
	// DefaultDepth is the ancestor and descendant depth of a fresh view.
	DefaultDepth = 4
	// MaxDepth is the largest depth a view offers in either direction.
	MaxDepth = 6
	// DefaultMaxNodes bounds the size of a single built tree.
	DefaultMaxNodes = 5000
)

// Options control how much of the family a built tree shows.
type Options struct {
	// AncestorDepth is the number of generations shown above the focus.
	// Zero shows no ancestors. Negative values are treated as zero.
	AncestorDepth int
	// DescendantDepth is the number of generations shown below the focus.
	// Zero shows only the focus. Negative values are treated as zero.
	DescendantDepth int
	// MaxNodes fails the build with TREE_TOO_LARGE once more than this many
	// person nodes would be materialized. Zero or negative means no limit.
	MaxNodes int
}

// DefaultOptions returns the depths and limits of a fresh view.
func DefaultOptions() Options {
	return Options{
		AncestorDepth:   DefaultDepth,
		DescendantDepth: DefaultDepth,
		MaxNodes:        DefaultMaxNodes,
	}
}

// ErrTooLarge is the cause of TREE_TOO_LARGE errors.
var ErrTooLarge = errors.New("tree exceeds node limit")

// Visited tracks people already materialized during one expansion.
// Each expansion direction uses its own set.
type Visited map[string]struct{}

// Build returns the tree of people visible around focusID.
//
// A nil tree with a nil error means there is nothing to show: the focus id
// is empty or does not name a person in d. The only error Build returns is
// TREE_TOO_LARGE when opts.MaxNodes is exceeded.
func Build(d *family.FamilyData, focusID string, opts Options) (*Node, error) {
	if d == nil || focusID == "" {
		return nil, nil
	}
	return BuildIndex(family.NewIndex(d), focusID, opts)
}

// BuildIndex is like [Build] but reuses a prepared index.
func BuildIndex(ix *family.Index, focusID string, opts Options) (*Node, error) {
	if _, ok := ix.Person(focusID); !ok {
		return nil, nil
	}
	ancestors := max(opts.AncestorDepth, 0)
	descendants := max(opts.DescendantDepth, 0)

	e := &expander{ix: ix, limit: opts.MaxNodes}
	focus := e.down(focusID, descendants, Visited{}, 0)
	var up *Node
	if ancestors > 0 && !e.overflow {
		up = e.up(focusID, ancestors, Visited{}, 0)
	}
	if e.overflow {
		return nil, apperr.Wrap(apperr.ErrCodeTreeTooLarge, ErrTooLarge,
			"tree around %s has more than %d people; reduce the depth", focusID, opts.MaxNodes)
	}
	if focus == nil {
		return nil, nil
	}
	focus.Role = RoleFocus
	return Merge(focus, up), nil
}

// ExpandDown materializes the descendants of id up to remaining generations.
// People already in visited are skipped, and every materialized person is
// added to it. It returns nil when id is unknown, already visited, or
// remaining is negative.
func ExpandDown(ix *family.Index, id string, remaining int, visited Visited) *Node {
	e := &expander{ix: ix}
	return e.down(id, remaining, visited, 0)
}

// ExpandUp materializes the ancestors of id up to remaining generations.
// The returned node stands for id itself and its Children are its parents.
// Visited handling matches [ExpandDown].
func ExpandUp(ix *family.Index, id string, remaining int, visited Visited) *Node {
	e := &expander{ix: ix}
	return e.up(id, remaining, visited, 0)
}

// Merge joins a focus-rooted descendant tree with an ancestor tree produced
// by [ExpandUp] for the same person.
//
// When the ancestor tree has no parent branches the descendant tree is
// returned unchanged. Otherwise Merge returns a synthetic root whose
// children are the parent branches followed by the descendant tree.
func Merge(descendants, ancestors *Node) *Node {
	if ancestors == nil || len(ancestors.Children) == 0 {
		return descendants
	}
	children := slices.Clone(ancestors.Children)
	if descendants != nil {
		children = append(children, descendants)
	}
	return &Node{Kind: KindRoot, Children: children}
}

// =============================================================================
// Expansion
// =============================================================================

type expander struct {
	ix       *family.Index
	limit    int
	count    int
	overflow bool
}

// take charges one node against the budget.
func (e *expander) take() bool {
	if e.overflow {
		return false
	}
	e.count++
	if e.limit > 0 && e.count > e.limit {
		e.overflow = true
		return false
	}
	return true
}

func (e *expander) down(id string, remaining int, visited Visited, gen int) *Node {
	if remaining < 0 {
		return nil
	}
	if _, seen := visited[id]; seen {
		return nil
	}
	p, ok := e.ix.Person(id)
	if !ok || !e.take() {
		return nil
	}
	visited[id] = struct{}{}

	n := e.node(p, RoleDescendant, gen)
	if remaining == 0 {
		return n
	}
	for _, cid := range e.ix.Children(id) {
		if c := e.down(cid, remaining-1, visited, gen+1); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// up walks parent edges. The node for the starting person is not charged
// against the budget since [Merge] never keeps it.
func (e *expander) up(id string, remaining int, visited Visited, gen int) *Node {
	if remaining < 0 {
		return nil
	}
	if _, seen := visited[id]; seen {
		return nil
	}
	p, ok := e.ix.Person(id)
	if !ok {
		return nil
	}
	if gen != 0 && !e.take() {
		return nil
	}
	visited[id] = struct{}{}

	n := e.node(p, RoleAncestor, gen)
	if remaining == 0 {
		return n
	}
	for _, pid := range e.ix.Parents(id) {
		if c := e.up(pid, remaining-1, visited, gen-1); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

func (e *expander) node(p *family.Person, role Role, gen int) *Node {
	return &Node{
		Kind:       KindPerson,
		Role:       role,
		Person:     *p,
		Spouses:    e.ix.SpousePeople(p.ID),
		Parents:    e.ix.ParentPeople(p.ID),
		Generation: gen,
	}
}
