// Package tree extracts the visible portion of a family around one focus
// person.
//
// A family is a graph: people can have two parents, several partners, and
// relatives reachable along more than one path. Rendering needs a plain
// rooted tree, so this package walks the graph twice from the focus person:
//
//   - [ExpandDown] follows parent-to-child edges up to a descendant depth.
//   - [ExpandUp] follows child-to-parent edges up to an ancestor depth.
//
// Each walk carries its own visited set, so a person reachable along two
// paths (pedigree collapse, cousin marriage) appears once, on the first path
// explored. Both walks stop at their depth bound, and together they always
// terminate even if the underlying data contains a cycle.
//
// [Build] runs both walks and merges them. Without ancestors the result is
// the descendant tree rooted at the focus person. With ancestors the result
// is rooted at a synthetic node whose children are the focus person's
// parent branches followed by the focus-rooted descendant tree; renderers
// skip the synthetic root and its connectors.
//
// Trees are rebuilt from scratch for every view and never share nodes with
// each other. Layout annotates the nodes of a tree in place.
package tree
