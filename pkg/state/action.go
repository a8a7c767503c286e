package state

import (
	"github.com/matzehuels/familytree/pkg/family"
)

// Action is one change to an [AppState]. The set of actions is closed;
// use the concrete types in this package.
type Action interface {
	// Type is the stable name of the action, e.g. "ADD_PERSON".
	Type() string
	// Mutates reports whether the action can change the family data.
	Mutates() bool

	apply(AppState) (AppState, error)
}

// AddPerson appends a person. The person must already carry its id; use
// [NewAddPerson] to assign a fresh one so that replays stay stable.
type AddPerson struct {
	Person family.Person `json:"person"`
}

// NewAddPerson assigns a fresh id to p and wraps it in an action.
func NewAddPerson(p family.Person) AddPerson {
	p.ID = family.NewID()
	return AddPerson{Person: p}
}

func (AddPerson) Type() string  { return "ADD_PERSON" }
func (AddPerson) Mutates() bool { return true }

func (a AddPerson) apply(s AppState) (AppState, error) {
	d, err := family.InsertPerson(s.Data, a.Person)
	if err != nil {
		return s, err
	}
	s.Data = d
	return s, nil
}

// UpdatePerson replaces the person with the same id.
type UpdatePerson struct {
	Person family.Person `json:"person"`
}

func (UpdatePerson) Type() string  { return "UPDATE_PERSON" }
func (UpdatePerson) Mutates() bool { return true }

func (a UpdatePerson) apply(s AppState) (AppState, error) {
	d, err := family.UpdatePerson(s.Data, a.Person)
	if err != nil {
		return s, err
	}
	s.Data = d
	return s, nil
}

// DeletePerson removes a person with every edge touching them, and clears
// the selection and focus if they pointed at that person.
type DeletePerson struct {
	ID string `json:"id"`
}

func (DeletePerson) Type() string  { return "DELETE_PERSON" }
func (DeletePerson) Mutates() bool { return true }

func (a DeletePerson) apply(s AppState) (AppState, error) {
	s.Data = family.RemovePerson(s.Data, a.ID)
	if s.SelectedPersonID == a.ID {
		s.SelectedPersonID = ""
	}
	if s.FocusPersonID == a.ID {
		s.FocusPersonID = ""
	}
	return s, nil
}

// AddParentChild records a parent-child relationship.
type AddParentChild struct {
	Edge family.ParentChildEdge `json:"edge"`
}

func (AddParentChild) Type() string  { return "ADD_PARENT_CHILD" }
func (AddParentChild) Mutates() bool { return true }

func (a AddParentChild) apply(s AppState) (AppState, error) {
	d, err := family.AddParentChild(s.Data, a.Edge)
	if err != nil {
		return s, err
	}
	s.Data = d
	return s, nil
}

// RemoveParentChild deletes a parent-child relationship.
type RemoveParentChild struct {
	ParentID string `json:"parentId"`
	ChildID  string `json:"childId"`
}

func (RemoveParentChild) Type() string  { return "REMOVE_PARENT_CHILD" }
func (RemoveParentChild) Mutates() bool { return true }

func (a RemoveParentChild) apply(s AppState) (AppState, error) {
	s.Data = family.RemoveParentChild(s.Data, a.ParentID, a.ChildID)
	return s, nil
}

// AddSpouse records a partnership.
type AddSpouse struct {
	Edge family.SpouseEdge `json:"edge"`
}

func (AddSpouse) Type() string  { return "ADD_SPOUSE" }
func (AddSpouse) Mutates() bool { return true }

func (a AddSpouse) apply(s AppState) (AppState, error) {
	d, err := family.AddSpouse(s.Data, a.Edge)
	if err != nil {
		return s, err
	}
	s.Data = d
	return s, nil
}

// RemoveSpouse deletes a partnership; the order of the ids does not matter.
type RemoveSpouse struct {
	AID string `json:"aId"`
	BID string `json:"bId"`
}

func (RemoveSpouse) Type() string  { return "REMOVE_SPOUSE" }
func (RemoveSpouse) Mutates() bool { return true }

func (a RemoveSpouse) apply(s AppState) (AppState, error) {
	s.Data = family.RemoveSpouse(s.Data, a.AID, a.BID)
	return s, nil
}

// SelectPerson sets the selected person; an empty id clears it.
type SelectPerson struct {
	ID string `json:"id"`
}

func (SelectPerson) Type() string  { return "SELECT_PERSON" }
func (SelectPerson) Mutates() bool { return false }

func (a SelectPerson) apply(s AppState) (AppState, error) {
	s.SelectedPersonID = a.ID
	return s, nil
}

// SetFocus sets the person the tree is built around; an empty id clears it.
// An id that does not resolve simply yields no tree.
type SetFocus struct {
	ID string `json:"id"`
}

func (SetFocus) Type() string  { return "SET_FOCUS" }
func (SetFocus) Mutates() bool { return false }

func (a SetFocus) apply(s AppState) (AppState, error) {
	s.FocusPersonID = a.ID
	return s, nil
}

// SetDepth sets both view depths, clamped to 0..tree.MaxDepth.
type SetDepth struct {
	Ancestors   int `json:"ancestor"`
	Descendants int `json:"descendant"`
}

func (SetDepth) Type() string  { return "SET_DEPTH" }
func (SetDepth) Mutates() bool { return false }

func (a SetDepth) apply(s AppState) (AppState, error) {
	s.AncestorDepth = ClampDepth(a.Ancestors)
	s.DescendantDepth = ClampDepth(a.Descendants)
	return s, nil
}

// LoadData replaces the family data, keeping selection, focus, and depths.
type LoadData struct {
	Data *family.FamilyData `json:"data"`
}

func (LoadData) Type() string  { return "LOAD_DATA" }
func (LoadData) Mutates() bool { return true }

func (a LoadData) apply(s AppState) (AppState, error) {
	s.Data = a.Data.Clone()
	return s, nil
}

// SetState replaces the whole state.
type SetState struct {
	State AppState `json:"state"`
}

func (SetState) Type() string  { return "SET_STATE" }
func (SetState) Mutates() bool { return true }

func (a SetState) apply(AppState) (AppState, error) {
	next := a.State
	next.Data = next.Data.Clone()
	next.AncestorDepth = ClampDepth(next.AncestorDepth)
	next.DescendantDepth = ClampDepth(next.DescendantDepth)
	return next, nil
}
