package render

import (
	"encoding/json"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/tree"
)

// TreeDocument is the JSON form of a positioned tree.
type TreeDocument struct {
	FocusID string        `json:"focusId"`
	Bounds  layout.Bounds `json:"bounds"`
	Nodes   int           `json:"nodes"`
	Root    *NodeDocument `json:"root"` // nil when there is nothing to show
}

// NodeDocument is one node of a [TreeDocument].
type NodeDocument struct {
	Synthetic  bool            `json:"synthetic,omitempty"`
	Role       string          `json:"role,omitempty"`
	Generation int             `json:"generation"`
	Person     *family.Person  `json:"person,omitempty"`
	Spouses    []family.Person `json:"spouses"`
	Parents    []family.Person `json:"parents"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Children   []*NodeDocument `json:"children,omitempty"`
}

// NewTreeDocument converts a positioned tree. A nil root yields a document
// with no root.
func NewTreeDocument(root *tree.Node, focusID string, bounds layout.Bounds) TreeDocument {
	doc := TreeDocument{FocusID: focusID, Bounds: bounds}
	if root != nil {
		doc.Root = toDocument(root)
		doc.Nodes = len(personNodes(root))
	}
	return doc
}

func toDocument(n *tree.Node) *NodeDocument {
	d := &NodeDocument{
		Synthetic:  n.IsSynthetic(),
		Generation: n.Generation,
		X:          n.X,
		Y:          n.Y,
	}
	if !n.IsSynthetic() {
		p := n.Person
		d.Person = &p
		d.Role = n.Role.String()
		d.Spouses = n.Spouses
		d.Parents = n.Parents
	}
	for _, c := range n.Children {
		d.Children = append(d.Children, toDocument(c))
	}
	return d
}

// Tree converts the document back into tree nodes with their positions.
func (d TreeDocument) Tree() *tree.Node {
	if d.Root == nil {
		return nil
	}
	return fromDocument(d.Root)
}

func fromDocument(d *NodeDocument) *tree.Node {
	n := &tree.Node{
		Generation: d.Generation,
		Spouses:    d.Spouses,
		Parents:    d.Parents,
		X:          d.X,
		Y:          d.Y,
	}
	if d.Synthetic || d.Person == nil {
		n.Kind = tree.KindRoot
	} else {
		n.Kind = tree.KindPerson
		n.Role = tree.ParseRole(d.Role)
		n.Person = *d.Person
	}
	for _, c := range d.Children {
		n.Children = append(n.Children, fromDocument(c))
	}
	return n
}

// MarshalTree encodes a positioned tree as indented JSON.
func MarshalTree(root *tree.Node, focusID string, bounds layout.Bounds) ([]byte, error) {
	data, err := json.MarshalIndent(NewTreeDocument(root, focusID, bounds), "", "  ")
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "encode tree")
	}
	return data, nil
}

// UnmarshalTree decodes the output of [MarshalTree].
func UnmarshalTree(data []byte) (TreeDocument, error) {
	var doc TreeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return TreeDocument{}, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode tree")
	}
	return doc, nil
}
