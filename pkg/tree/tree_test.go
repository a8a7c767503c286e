package tree

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

func data(ids []string, edges ...[2]string) *family.FamilyData {
	d := &family.FamilyData{}
	for _, id := range ids {
		d.People = append(d.People, family.Person{ID: id, FirstName: id, LastName: "T"})
	}
	for _, e := range edges {
		d.ParentChildEdges = append(d.ParentChildEdges, family.ParentChildEdge{ParentID: e[0], ChildID: e[1]})
	}
	return d
}

func childIDs(n *Node) []string {
	var ids []string
	for _, c := range n.Children {
		ids = append(ids, c.ID())
	}
	return ids
}

func TestBuildParentsOnly(t *testing.T) {
	d := data([]string{"A", "B", "C"}, [2]string{"A", "C"}, [2]string{"B", "C"})

	root, err := Build(d, "C", Options{AncestorDepth: 1, DescendantDepth: 0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !root.IsSynthetic() {
		t.Fatalf("root kind = %v, want synthetic", root.Kind)
	}
	if got := childIDs(root); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Fatalf("root children = %v, want parent branches then focus", got)
	}
	for _, c := range root.Children[:2] {
		if c.Role != RoleAncestor || len(c.Children) != 0 || c.Generation != -1 {
			t.Errorf("%s: role=%v children=%d gen=%d, want ancestor leaf at -1", c.ID(), c.Role, len(c.Children), c.Generation)
		}
	}
	focus := root.Children[2]
	if focus.Role != RoleFocus || len(focus.Children) != 0 {
		t.Errorf("focus: role=%v children=%d", focus.Role, len(focus.Children))
	}
}

func TestBuildWithoutAncestorsIsFocusRooted(t *testing.T) {
	d := family.Demo()

	tests := []struct {
		name  string
		focus string
		opts  Options
	}{
		{"no ancestor depth", "p1", Options{AncestorDepth: 0, DescendantDepth: 4}},
		{"no parents recorded", "p2", Options{AncestorDepth: 4, DescendantDepth: 4}},
		{"negative depths", "p3", Options{AncestorDepth: -1, DescendantDepth: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Build(d, tt.focus, tt.opts)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if root.IsSynthetic() || root.ID() != tt.focus || root.Role != RoleFocus {
				t.Errorf("root = %q (%v), want focus %q", root.ID(), root.Role, tt.focus)
			}
		})
	}
}

func TestBuildDemo(t *testing.T) {
	root, err := Build(family.Demo(), "p1", DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := childIDs(root); !slices.Equal(got, []string{"p10", "p11", "p1"}) {
		t.Fatalf("root children = %v", got)
	}
	focus := root.Children[2]
	if got := childIDs(focus); !slices.Equal(got, []string{"p3", "p8", "p9"}) {
		t.Errorf("p1 children = %v", got)
	}
	if got := childIDs(focus.Children[0]); !slices.Equal(got, []string{"p5", "p6"}) {
		t.Errorf("p3 children = %v", got)
	}
	if got := len(focus.Spouses); got != 2 {
		t.Errorf("p1 spouses = %d, want 2", got)
	}
	if got := root.Count(); got != 9 {
		t.Errorf("Count() = %d, want 9", got)
	}
}

func TestDepthBounds(t *testing.T) {
	d := family.Demo()
	for _, p := range d.People {
		for anc := 0; anc <= MaxDepth; anc++ {
			for desc := 0; desc <= MaxDepth; desc++ {
				root, err := Build(d, p.ID, Options{AncestorDepth: anc, DescendantDepth: desc})
				if err != nil {
					t.Fatalf("Build(%s, %d, %d): %v", p.ID, anc, desc, err)
				}
				root.Walk(func(n *Node) bool {
					switch n.Role {
					case RoleDescendant:
						if n.Generation < 1 || n.Generation > desc {
							t.Errorf("%s anc=%d desc=%d: descendant %s at generation %d", p.ID, anc, desc, n.ID(), n.Generation)
						}
					case RoleAncestor:
						if n.Generation > -1 || -n.Generation > anc {
							t.Errorf("%s anc=%d desc=%d: ancestor %s at generation %d", p.ID, anc, desc, n.ID(), n.Generation)
						}
					}
					return true
				})
			}
		}
	}
}

func TestEachPersonOncePerDirection(t *testing.T) {
	// Pedigree collapse: D descends from A along two paths, and G has A as
	// both grandparent through E and F.
	d := data([]string{"A", "B", "C", "D", "E", "F", "G"},
		[2]string{"A", "B"}, [2]string{"A", "C"},
		[2]string{"B", "D"}, [2]string{"C", "D"},
		[2]string{"A", "E"}, [2]string{"A", "F"},
		[2]string{"E", "G"}, [2]string{"F", "G"},
	)

	for _, focus := range []string{"A", "D", "G"} {
		root, err := Build(d, focus, Options{AncestorDepth: MaxDepth, DescendantDepth: MaxDepth})
		if err != nil {
			t.Fatalf("Build(%s): %v", focus, err)
		}
		seen := map[Role]map[string]bool{RoleDescendant: {}, RoleAncestor: {}}
		root.Walk(func(n *Node) bool {
			role := n.Role
			if role == RoleFocus {
				role = RoleDescendant
			}
			if n.Kind != KindPerson {
				return true
			}
			if seen[role][n.ID()] {
				t.Errorf("focus %s: %s appears twice among %v nodes", focus, n.ID(), role)
			}
			seen[role][n.ID()] = true
			return true
		})
	}
}

func TestFirstPathWins(t *testing.T) {
	d := data([]string{"A", "B", "C", "D"},
		[2]string{"A", "B"}, [2]string{"A", "C"},
		[2]string{"B", "D"}, [2]string{"C", "D"},
	)
	root, err := Build(d, "A", Options{DescendantDepth: 2})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, c := root.Find("B"), root.Find("C")
	if got := childIDs(b); !slices.Equal(got, []string{"D"}) {
		t.Errorf("B children = %v, want [D]", got)
	}
	if len(c.Children) != 0 {
		t.Errorf("C children = %v, want none", childIDs(c))
	}
}

func TestBuildIsRepeatable(t *testing.T) {
	d := family.Demo()
	for _, p := range d.People {
		a, errA := Build(d, p.ID, DefaultOptions())
		b, errB := Build(d, p.ID, DefaultOptions())
		if errA != nil || errB != nil {
			t.Fatalf("Build(%s): %v, %v", p.ID, errA, errB)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Build(%s) differs between calls", p.ID)
		}
		if a == b {
			t.Errorf("Build(%s) should return fresh nodes", p.ID)
		}
	}
}

func TestBuildNoTree(t *testing.T) {
	tests := []struct {
		name  string
		data  *family.FamilyData
		focus string
	}{
		{"nil data", nil, "p1"},
		{"empty focus", family.Demo(), ""},
		{"unknown focus", family.Demo(), "ghost"},
		{"empty family", family.New(), "p1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Build(tt.data, tt.focus, DefaultOptions())
			if err != nil || root != nil {
				t.Errorf("Build = %v, %v; want nil, nil", root, err)
			}
		})
	}
}

func TestBuildTerminatesOnCyclicData(t *testing.T) {
	// Edges written directly, bypassing the mutation guard.
	d := data([]string{"a", "b", "c"}, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "a"})

	root, err := Build(d, "a", Options{AncestorDepth: MaxDepth, DescendantDepth: MaxDepth})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := root.Count(); got > 7 {
		t.Errorf("Count() = %d on a 3-person cycle", got)
	}
}

func TestBuildTooLarge(t *testing.T) {
	_, err := Build(family.Demo(), "p1", Options{AncestorDepth: 4, DescendantDepth: 4, MaxNodes: 3})
	if !apperr.Is(err, apperr.ErrCodeTreeTooLarge) {
		t.Fatalf("error = %v, want TREE_TOO_LARGE", err)
	}

	root, err := Build(family.Demo(), "p1", Options{AncestorDepth: 4, DescendantDepth: 4, MaxNodes: 8})
	if err != nil {
		t.Fatalf("exact budget: %v", err)
	}
	if got := root.Count() - 1; got != 8 {
		t.Errorf("person nodes = %d, want 8", got)
	}
}

func TestExpandSharesVisited(t *testing.T) {
	d := family.Demo()
	ix := family.NewIndex(d)
	visited := Visited{"p3": {}}

	n := ExpandDown(ix, "p1", 2, visited)
	if got := childIDs(n); !slices.Equal(got, []string{"p8", "p9"}) {
		t.Errorf("children with p3 pre-visited = %v", got)
	}
	if _, ok := visited["p9"]; !ok {
		t.Error("ExpandDown should record materialized people")
	}
	if ExpandDown(ix, "p1", 2, visited) != nil {
		t.Error("second expansion from a visited person should be empty")
	}
	if ExpandUp(ix, "p5", -1, Visited{}) != nil {
		t.Error("negative remaining should yield nothing")
	}
	up := ExpandUp(ix, "p5", 2, Visited{})
	if got := up.People(); !slices.Equal(got, []string{"p5", "p3", "p1", "p2", "p4"}) {
		t.Errorf("ancestors of p5 = %v", got)
	}
}

func TestNodeHelpers(t *testing.T) {
	root, _ := Build(family.Demo(), "p1", DefaultOptions())
	if got := root.Height(); got != 3 {
		t.Errorf("Height() = %d, want 3", got)
	}
	if root.Find("p6") == nil || root.Find("ghost") != nil {
		t.Error("Find lookup mismatch")
	}
	if root.ID() != "" {
		t.Errorf("synthetic root ID = %q", root.ID())
	}
}

func TestTooLargeWrapsSentinel(t *testing.T) {
	_, err := Build(family.Demo(), "p1", Options{DescendantDepth: 2, MaxNodes: 1})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("errors.Is(%v, ErrTooLarge) = false", err)
	}
}
