package family

// WouldCreateCycle reports whether adding the edge parentID -> childID would
// close a directed loop. That is the case when the ids are equal, or when
// childID is already an ancestor of parentID: walking parent edges upward
// from parentID reaches childID.
//
// The walk starts at parentID on purpose. Starting at childID and looking
// for parentID would miss the cycle that a reversed existing edge closes.
//
// The walk is an explicit stack with a visited set. The visited set only
// bounds this traversal on converging paths; acyclicity of the store as a
// whole relies on every insertion being checked here first.
func WouldCreateCycle(d *FamilyData, parentID, childID string) bool {
	if parentID == childID {
		return true
	}

	visited := make(map[string]bool)
	stack := []string{parentID}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current == childID {
			return true
		}
		if visited[current] {
			continue
		}
		visited[current] = true

		stack = append(stack, d.ParentsOf(current)...)
	}
	return false
}
