package family

import (
	"errors"
	"slices"

	apperr "github.com/matzehuels/familytree/pkg/errors"
)

// ErrPersonNotFound is the cause of PERSON_NOT_FOUND errors returned when an
// operation names a person id that is not in the store.
var ErrPersonNotFound = errors.New("person not found")

// AddPerson validates p, assigns it a fresh id, and returns the updated
// store together with the stored person. Any id already set on p is ignored.
func AddPerson(d *FamilyData, p Person) (*FamilyData, Person, error) {
	p.ID = NewID()
	out, err := InsertPerson(d, p)
	if err != nil {
		return nil, Person{}, err
	}
	return out, p, nil
}

// InsertPerson appends p under the id it already carries. The id must be
// well formed and not yet in use. Replaying recorded additions relies on
// this keeping ids stable.
func InsertPerson(d *FamilyData, p Person) (*FamilyData, error) {
	if err := apperr.ValidatePersonID(p.ID); err != nil {
		return nil, err
	}
	if d.HasPerson(p.ID) {
		return nil, apperr.New(apperr.ErrCodeInvalidPerson, "person %s already exists", p.ID)
	}
	if err := ValidatePerson(p); err != nil {
		return nil, err
	}
	out := d.Clone()
	out.People = append(out.People, p)
	return out, nil
}

// UpdatePerson replaces the person carrying p.ID in place, keeping its
// position in the people list.
func UpdatePerson(d *FamilyData, p Person) (*FamilyData, error) {
	idx := slices.IndexFunc(d.People, func(q Person) bool { return q.ID == p.ID })
	if idx < 0 {
		return nil, apperr.Wrap(apperr.ErrCodePersonNotFound, ErrPersonNotFound, "update %s", p.ID)
	}
	if err := ValidatePerson(p); err != nil {
		return nil, err
	}
	out := d.Clone()
	out.People[idx] = p
	return out, nil
}

// RemovePerson deletes the person with id and every edge that references it.
// Removing an unknown id still strips any dangling edges for that id.
func RemovePerson(d *FamilyData, id string) *FamilyData {
	out := d.Clone()
	out.People = slices.DeleteFunc(out.People, func(p Person) bool { return p.ID == id })
	out.ParentChildEdges = slices.DeleteFunc(out.ParentChildEdges, func(e ParentChildEdge) bool {
		return e.ParentID == id || e.ChildID == id
	})
	out.SpouseEdges = slices.DeleteFunc(out.SpouseEdges, func(e SpouseEdge) bool { return e.Touches(id) })
	return out
}

// AddParentChild inserts e after [ValidateParentChild] accepts it.
func AddParentChild(d *FamilyData, e ParentChildEdge) (*FamilyData, error) {
	if err := ValidateParentChild(d, e); err != nil {
		return nil, err
	}
	out := d.Clone()
	out.ParentChildEdges = append(out.ParentChildEdges, e)
	return out, nil
}

// RemoveParentChild deletes the edge parentID -> childID if present.
func RemoveParentChild(d *FamilyData, parentID, childID string) *FamilyData {
	out := d.Clone()
	out.ParentChildEdges = slices.DeleteFunc(out.ParentChildEdges, func(e ParentChildEdge) bool {
		return e.ParentID == parentID && e.ChildID == childID
	})
	return out
}

// AddSpouse inserts e after [ValidateSpouse] accepts it.
func AddSpouse(d *FamilyData, e SpouseEdge) (*FamilyData, error) {
	if err := ValidateSpouse(d, e); err != nil {
		return nil, err
	}
	out := d.Clone()
	out.SpouseEdges = append(out.SpouseEdges, e)
	return out, nil
}

// RemoveSpouse deletes the pairing of a and b, in either order.
func RemoveSpouse(d *FamilyData, a, b string) *FamilyData {
	out := d.Clone()
	out.SpouseEdges = slices.DeleteFunc(out.SpouseEdges, func(e SpouseEdge) bool { return e.Same(a, b) })
	return out
}
