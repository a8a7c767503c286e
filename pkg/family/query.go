package family

// ParentsOf returns the ids of every parent of id, in edge insertion order.
// Returns an empty slice if id has no parents or is unknown.
func (d *FamilyData) ParentsOf(id string) []string {
	out := []string{}
	for _, e := range d.ParentChildEdges {
		if e.ChildID == id {
			out = append(out, e.ParentID)
		}
	}
	return out
}

// ChildrenOf returns the ids of every child of id, in edge insertion order.
// Returns an empty slice if id has no children or is unknown.
func (d *FamilyData) ChildrenOf(id string) []string {
	out := []string{}
	for _, e := range d.ParentChildEdges {
		if e.ParentID == id {
			out = append(out, e.ChildID)
		}
	}
	return out
}

// SpousesOf returns the partner id from every spouse edge touching id,
// in edge insertion order.
func (d *FamilyData) SpousesOf(id string) []string {
	out := []string{}
	for _, e := range d.SpouseEdges {
		if e.Touches(id) {
			out = append(out, e.Other(id))
		}
	}
	return out
}

// Relations is the one-hop neighbourhood of a person, for display.
type Relations struct {
	Parents  []string `json:"parents"`
	Children []string `json:"children"`
	Spouses  []string `json:"spouses"`
}

// ImmediateRelations returns the parent, child, and spouse ids of id.
// It never traverses further than one hop.
func (d *FamilyData) ImmediateRelations(id string) Relations {
	return Relations{
		Parents:  d.ParentsOf(id),
		Children: d.ChildrenOf(id),
		Spouses:  d.SpousesOf(id),
	}
}

// Index is a read-only lookup snapshot of a FamilyData.
// It answers the same queries as FamilyData in constant time and is meant to
// live for the duration of one tree build. Adjacency lists preserve edge
// insertion order, so Index and FamilyData always agree.
//
// The zero value is not usable - use NewIndex.
type Index struct {
	people   map[string]*Person
	parents  map[string][]string // childID -> parent IDs
	children map[string][]string // parentID -> child IDs
	spouses  map[string][]string // personID -> partner IDs
}

// NewIndex builds a snapshot of d. Later changes to d are not reflected.
func NewIndex(d *FamilyData) *Index {
	ix := &Index{
		people:   make(map[string]*Person, len(d.People)),
		parents:  make(map[string][]string),
		children: make(map[string][]string),
		spouses:  make(map[string][]string),
	}
	for i := range d.People {
		p := d.People[i]
		ix.people[p.ID] = &p
	}
	for _, e := range d.ParentChildEdges {
		ix.children[e.ParentID] = append(ix.children[e.ParentID], e.ChildID)
		ix.parents[e.ChildID] = append(ix.parents[e.ChildID], e.ParentID)
	}
	for _, e := range d.SpouseEdges {
		ix.spouses[e.AID] = append(ix.spouses[e.AID], e.BID)
		if e.BID != e.AID {
			ix.spouses[e.BID] = append(ix.spouses[e.BID], e.AID)
		}
	}
	return ix
}

// Person returns the person with the given id and true, or nil and false.
func (ix *Index) Person(id string) (*Person, bool) {
	p, ok := ix.people[id]
	return p, ok
}

// Len returns the number of people in the snapshot.
func (ix *Index) Len() int { return len(ix.people) }

// Parents returns parent ids of id. The slice must not be modified.
func (ix *Index) Parents(id string) []string { return ix.parents[id] }

// Children returns child ids of id. The slice must not be modified.
func (ix *Index) Children(id string) []string { return ix.children[id] }

// Spouses returns partner ids of id. The slice must not be modified.
func (ix *Index) Spouses(id string) []string { return ix.spouses[id] }

// SpousePeople resolves the partners of id, silently skipping dangling ids.
func (ix *Index) SpousePeople(id string) []Person {
	ids := ix.spouses[id]
	out := make([]Person, 0, len(ids))
	for _, sid := range ids {
		if p, ok := ix.people[sid]; ok {
			out = append(out, *p)
		}
	}
	return out
}

// ParentPeople resolves the parents of id, silently skipping dangling ids.
func (ix *Index) ParentPeople(id string) []Person {
	ids := ix.parents[id]
	out := make([]Person, 0, len(ids))
	for _, pid := range ids {
		if p, ok := ix.people[pid]; ok {
			out = append(out, *p)
		}
	}
	return out
}
