package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/observability"
	"github.com/matzehuels/familytree/pkg/tree"
)

// BuildAndLayout expands the tree around opts.FocusID and positions it,
// without touching any cache. The tree is nil when there is nothing to show.
func BuildAndLayout(ctx context.Context, d *family.FamilyData, opts Options) (*tree.Node, layout.Bounds, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, layout.Bounds{}, err
	}

	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, opts.FocusID)
	root, err := tree.Build(d, opts.FocusID, opts.TreeOptions())
	observability.Pipeline().OnBuildComplete(ctx, opts.FocusID, countPeople(root), time.Since(start), err)
	if err != nil {
		return nil, layout.Bounds{}, err
	}
	if root == nil {
		return nil, layout.Bounds{}, nil
	}

	start = time.Now()
	nodes := countPeople(root)
	observability.Pipeline().OnLayoutStart(ctx, nodes)
	bounds := layout.Tidy(root, opts.Box)
	observability.Pipeline().OnLayoutComplete(ctx, nodes, time.Since(start))

	opts.Logger.Debug("built tree",
		"focus", opts.FocusID,
		"nodes", nodes,
		"height", root.Height())
	return root, bounds, nil
}
