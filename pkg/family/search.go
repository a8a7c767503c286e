package family

import "strings"

// Search returns people whose first name, last name, or "first last"
// contains query, case-insensitively. An empty query matches everyone.
// Results keep store order.
func (d *FamilyData) Search(query string) []Person {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []Person{}
	for _, p := range d.People {
		if q == "" ||
			strings.Contains(strings.ToLower(p.FirstName), q) ||
			strings.Contains(strings.ToLower(p.LastName), q) ||
			strings.Contains(strings.ToLower(p.FirstName+" "+p.LastName), q) {
			out = append(out, p)
		}
	}
	return out
}
