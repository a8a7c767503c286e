// Package pkg provides the core libraries of familytree.
//
// # Overview
//
// Familytree records people, parent-child relationships, and partnerships,
// and draws the family around one chosen person as a tidy top-down tree:
// ancestors above, descendants below. The pkg directory is organized into
// three areas:
//
//  1. Domain logic ([family], [tree], [layout], [state])
//  2. Output ([render], [pipeline])
//  3. Infrastructure ([store], [cache], [config], [observability], [errors])
//
// # Architecture
//
// The typical data flow:
//
//	FamilyData (people + edges)
//	         ↓
//	    [tree] package (expand ancestors and descendants of a focus)
//	         ↓
//	    [layout] package (assign coordinates)
//	         ↓
//	    [render] package (SVG, DOT, JSON; PNG and PDF via rsvg-convert)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/familytree/pkg/family"
//	    "github.com/matzehuels/familytree/pkg/layout"
//	    "github.com/matzehuels/familytree/pkg/render"
//	    "github.com/matzehuels/familytree/pkg/tree"
//	)
//
//	// 1. Load a family
//	d := family.Demo()
//
//	// 2. Expand the tree around John Smith
//	root, _ := tree.Build(d, "p1", tree.DefaultOptions())
//
//	// 3. Compute layout
//	layout.Tidy(root, layout.DefaultOptions())
//
//	// 4. Render to SVG
//	svg := render.RenderSVG(root, render.WithFocus("p1"))
//
// # Main Packages
//
// [family] - People and relationships. Mutations return a new value and
// reject self-parenting, parent-child cycles, and duplicate edges.
//
// [tree] - Builds the view tree: the focus person's descendants and, joined
// under a synthetic root, their ancestors. Depths are bounded and every
// person appears at most once.
//
// [layout] - Tidy-tree layout: leaves take consecutive slots, parents are
// centered over their children.
//
// [state] - Editable application state, actions, and a pure reducer. A
// [state.Session] saves after each successful mutation.
//
// [render] - SVG drawing, Graphviz DOT output, JSON tree documents, and
// format conversion.
//
// [pipeline] - Build, layout, and render with caching, used by the CLI and
// the HTTP server.
//
// [store] - Persistence backends: JSON file, SQLite, Redis, MongoDB, and
// memory.
//
// [cache] - Content-addressed caches for layouts and rendered artifacts.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/tree/...               # Specific package
//	go test -run Example                 # Examples only
//
// Redis and MongoDB tests run when FAMILYTREE_REDIS_ADDR or
// FAMILYTREE_MONGO_URI is set.
//
// [family]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/family
// [tree]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/tree
// [layout]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/layout
// [state]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/state
// [state.Session]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/state#Session
// [render]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/pipeline
// [store]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/errors
package pkg
