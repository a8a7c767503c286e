package family

import "fmt"

// Audit lists structural problems in d that mutations would have refused:
// blank or duplicate person ids, edges naming unknown people, self edges,
// and parent-child cycles. Imported files are not validated on load, so
// callers use Audit to warn about them.
func Audit(d *FamilyData) []string {
	if d == nil {
		return nil
	}
	var out []string
	seen := make(map[string]bool, len(d.People))
	for i, p := range d.People {
		switch {
		case p.ID == "":
			out = append(out, fmt.Sprintf("person #%d has no id", i+1))
		case seen[p.ID]:
			out = append(out, fmt.Sprintf("duplicate person id %s", p.ID))
		}
		seen[p.ID] = true
	}

	for _, e := range d.ParentChildEdges {
		if !seen[e.ParentID] || !seen[e.ChildID] {
			out = append(out, fmt.Sprintf("parent-child edge %s -> %s names an unknown person", e.ParentID, e.ChildID))
		}
		if e.ParentID == e.ChildID {
			out = append(out, fmt.Sprintf("%s is recorded as their own parent", e.ParentID))
		}
	}
	for _, e := range d.SpouseEdges {
		if !seen[e.AID] || !seen[e.BID] {
			out = append(out, fmt.Sprintf("spouse edge %s - %s names an unknown person", e.AID, e.BID))
		}
		if e.AID == e.BID {
			out = append(out, fmt.Sprintf("%s is recorded as their own spouse", e.AID))
		}
	}

	if id, ok := findCycle(d); ok {
		out = append(out, fmt.Sprintf("parent-child edges form a cycle through %s", id))
	}
	return out
}

// findCycle reports one person on a parent-child cycle, if any.
func findCycle(d *FamilyData) (string, bool) {
	ix := NewIndex(d)
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int)

	var visit func(id string) (string, bool)
	visit = func(id string) (string, bool) {
		color[id] = gray
		for _, c := range ix.Children(id) {
			switch color[c] {
			case gray:
				return c, true
			case white:
				if hit, ok := visit(c); ok {
					return hit, true
				}
			}
		}
		color[id] = black
		return "", false
	}

	for _, e := range d.ParentChildEdges {
		if e.ParentID == e.ChildID {
			continue
		}
		if color[e.ParentID] == white {
			if hit, ok := visit(e.ParentID); ok {
				return hit, true
			}
		}
	}
	return "", false
}
