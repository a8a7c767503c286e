package family

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Sex is the optional sex of a person.
type Sex string

const (
	SexUnset  Sex = ""
	SexMale   Sex = "M"
	SexFemale Sex = "F"
	SexOther  Sex = "O"
)

// EdgeKind tags how a parent-child relationship came about.
type EdgeKind string

const (
	KindUnset      EdgeKind = ""
	KindBiological EdgeKind = "biological"
	KindAdopted    EdgeKind = "adopted"
	KindUnknown    EdgeKind = "unknown"
)

// Person is one individual in the family store.
// ID is assigned on creation and never changes.
type Person struct {
	ID        string `json:"id" bson:"id"`
	FirstName string `json:"firstName" bson:"first_name" validate:"nonblank"`
	LastName  string `json:"lastName" bson:"last_name" validate:"nonblank"`
	Sex       Sex    `json:"sex,omitempty" bson:"sex,omitempty" validate:"omitempty,oneof=M F O"`
	BirthDate string `json:"birthDate,omitempty" bson:"birth_date,omitempty"`
	DeathDate string `json:"deathDate,omitempty" bson:"death_date,omitempty"`
	Notes     string `json:"notes,omitempty" bson:"notes,omitempty"`
	PhotoURL  string `json:"photoUrl,omitempty" bson:"photo_url,omitempty"`
}

// FullName returns "First Last", trimmed.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Lifespan formats birth and death years the way the tree canvas shows them:
// "1950 - 2015", "1975 - Present", or "? - Present".
func (p Person) Lifespan() string {
	birth, death := "?", "Present"
	if y := Year(p.BirthDate); y != "" {
		birth = y
	}
	if y := Year(p.DeathDate); y != "" {
		death = y
	}
	return birth + " - " + death
}

// ParentChildEdge is a directed edge from a parent to a child.
type ParentChildEdge struct {
	ParentID string   `json:"parentId" bson:"parent_id"`
	ChildID  string   `json:"childId" bson:"child_id"`
	Kind     EdgeKind `json:"type,omitempty" bson:"type,omitempty" validate:"omitempty,oneof=biological adopted unknown"`
}

// SpouseEdge is an undirected pair of partners, optionally dated.
type SpouseEdge struct {
	AID       string `json:"aId" bson:"a_id"`
	BID       string `json:"bId" bson:"b_id"`
	StartDate string `json:"startDate,omitempty" bson:"start_date,omitempty"`
	EndDate   string `json:"endDate,omitempty" bson:"end_date,omitempty"`
}

// Touches reports whether id is one of the partners.
func (e SpouseEdge) Touches(id string) bool { return e.AID == id || e.BID == id }

// Other returns the partner opposite id.
func (e SpouseEdge) Other(id string) string {
	if e.AID == id {
		return e.BID
	}
	return e.AID
}

// Same reports whether the edge joins a and b in either order.
func (e SpouseEdge) Same(a, b string) bool {
	return (e.AID == a && e.BID == b) || (e.AID == b && e.BID == a)
}

// FamilyData is the relational store: people plus two edge collections.
// The zero value is an empty, usable store.
type FamilyData struct {
	People           []Person          `json:"people" bson:"people"`
	ParentChildEdges []ParentChildEdge `json:"parentChildEdges" bson:"parent_child_edges"`
	SpouseEdges      []SpouseEdge      `json:"spouseEdges" bson:"spouse_edges"`
}

// New returns an empty store with non-nil collections.
func New() *FamilyData {
	return &FamilyData{
		People:           []Person{},
		ParentChildEdges: []ParentChildEdge{},
		SpouseEdges:      []SpouseEdge{},
	}
}

// NewID returns a fresh, never-reused person identifier.
func NewID() string { return uuid.NewString() }

// Clone returns a deep copy of d. A nil receiver yields an empty store.
func (d *FamilyData) Clone() *FamilyData {
	if d == nil {
		return New()
	}
	out := &FamilyData{
		People:           slices.Clone(d.People),
		ParentChildEdges: slices.Clone(d.ParentChildEdges),
		SpouseEdges:      slices.Clone(d.SpouseEdges),
	}
	if out.People == nil {
		out.People = []Person{}
	}
	if out.ParentChildEdges == nil {
		out.ParentChildEdges = []ParentChildEdge{}
	}
	if out.SpouseEdges == nil {
		out.SpouseEdges = []SpouseEdge{}
	}
	return out
}

// Person returns the person with the given id and true, or false if absent.
func (d *FamilyData) Person(id string) (Person, bool) {
	if d == nil {
		return Person{}, false
	}
	for _, p := range d.People {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

// HasPerson reports whether id resolves to a person.
func (d *FamilyData) HasPerson(id string) bool {
	_, ok := d.Person(id)
	return ok
}

// HasParentChild reports whether the exact edge parentID -> childID exists.
func (d *FamilyData) HasParentChild(parentID, childID string) bool {
	return slices.ContainsFunc(d.ParentChildEdges, func(e ParentChildEdge) bool {
		return e.ParentID == parentID && e.ChildID == childID
	})
}

// HasSpouse reports whether a and b are already paired, in either order.
func (d *FamilyData) HasSpouse(a, b string) bool {
	return slices.ContainsFunc(d.SpouseEdges, func(e SpouseEdge) bool { return e.Same(a, b) })
}

// IsEmpty reports whether the store holds no people.
func (d *FamilyData) IsEmpty() bool { return d == nil || len(d.People) == 0 }
