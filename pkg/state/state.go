package state

import (
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/tree"
)

// AppState is the complete editable state of one family tree view.
type AppState struct {
	Data             *family.FamilyData `json:"data"`
	SelectedPersonID string             `json:"selectedPersonId,omitempty"`
	FocusPersonID    string             `json:"focusPersonId,omitempty"`
	AncestorDepth    int                `json:"ancestorDepth"`
	DescendantDepth  int                `json:"descendantDepth"`
}

// New returns an empty state with the default view depths.
func New() AppState {
	return AppState{
		Data:            family.New(),
		AncestorDepth:   tree.DefaultDepth,
		DescendantDepth: tree.DefaultDepth,
	}
}

// WithData returns a fresh state over d, keeping the default depths.
func WithData(d *family.FamilyData) AppState {
	s := New()
	if d != nil {
		s.Data = d
	}
	return s
}

// TreeOptions returns the build options for the current view.
func (s AppState) TreeOptions(maxNodes int) tree.Options {
	return tree.Options{
		AncestorDepth:   s.AncestorDepth,
		DescendantDepth: s.DescendantDepth,
		MaxNodes:        maxNodes,
	}
}

// ClampDepth limits a view depth to 0..tree.MaxDepth.
func ClampDepth(d int) int {
	return min(max(d, 0), tree.MaxDepth)
}

// Reduce applies a to s. On error the returned state is s unchanged.
// Reduce never modifies s or the data it points to.
func Reduce(s AppState, a Action) (AppState, error) {
	if s.Data == nil {
		s.Data = family.New()
	}
	next, err := a.apply(s)
	if err != nil {
		return s, err
	}
	return next, nil
}
