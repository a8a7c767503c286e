package tree

import "github.com/matzehuels/familytree/pkg/family"

// Kind distinguishes person nodes from the synthetic merge root.
type Kind int

const (
	// KindPerson is a node that stands for one person in the family.
	KindPerson Kind = iota
	// KindRoot is the synthetic node joining ancestor branches with the
	// focus person's descendant tree. It has no person and is never drawn.
	KindRoot
)

// Role records how a person node relates to the focus person.
type Role int

const (
	RoleNone Role = iota
	RoleFocus
	RoleDescendant
	RoleAncestor
)

func (r Role) String() string {
	switch r {
	case RoleFocus:
		return "focus"
	case RoleDescendant:
		return "descendant"
	case RoleAncestor:
		return "ancestor"
	default:
		return "none"
	}
}

// ParseRole is the inverse of [Role.String]. Unknown names map to RoleNone.
func ParseRole(s string) Role {
	switch s {
	case "focus":
		return RoleFocus
	case "descendant":
		return RoleDescendant
	case "ancestor":
		return RoleAncestor
	default:
		return RoleNone
	}
}

// Node is one vertex of a built tree.
//
// For descendant nodes Children are the person's children; for ancestor
// nodes Children are the person's parents. The synthetic root only carries
// Children. X and Y are zero until a layout assigns them.
type Node struct {
	Kind Kind
	Role Role

	Person  family.Person
	Spouses []family.Person // resolved partners, in edge insertion order
	Parents []family.Person // resolved parents, informational only

	// Generation is the signed distance from the focus person: positive
	// below (descendants), negative above (ancestors), zero for the focus
	// and for the synthetic root.
	Generation int

	Children []*Node

	X, Y float64
}

// IsSynthetic reports whether n is the synthetic merge root.
func (n *Node) IsSynthetic() bool { return n != nil && n.Kind == KindRoot }

// ID returns the person id of n, or "" for the synthetic root.
func (n *Node) ID() string {
	if n == nil || n.Kind == KindRoot {
		return ""
	}
	return n.Person.ID
}

// Walk visits n and its subtree in pre-order. Returning false from fn stops
// descent into that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree, including n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool { count++; return true })
	return count
}

// Height returns the number of levels below n; a leaf has height 0.
func (n *Node) Height() int {
	if n == nil {
		return 0
	}
	h := 0
	for _, c := range n.Children {
		h = max(h, c.Height()+1)
	}
	return h
}

// Find returns the first person node with the given id in pre-order.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(x *Node) bool {
		if found != nil {
			return false
		}
		if x.Kind == KindPerson && x.Person.ID == id {
			found = x
			return false
		}
		return true
	})
	return found
}

// People returns the ids of all person nodes in pre-order.
func (n *Node) People() []string {
	var ids []string
	n.Walk(func(x *Node) bool {
		if x.Kind == KindPerson {
			ids = append(ids, x.Person.ID)
		}
		return true
	})
	return ids
}
