// Package layout assigns coordinates to a built family tree.
//
// [Tidy] is a Reingold-Tilford style placement in two passes. A post-order
// pass measures every subtree as the number of leaf slots it needs; a
// pre-order pass hands each child a contiguous run of slots, puts leaves in
// the middle of their slot, and centers every parent over the span between
// its first and last child.
//
// The result has three properties renderers rely on:
//
//   - Sibling subtrees occupy disjoint horizontal ranges, so boxes never
//     overlap and connectors never cross.
//   - A parent sits exactly at the midpoint of its children's span.
//   - Nodes at the same depth share a Y coordinate.
//
// Placement is a pure function of tree shape and [Options]: laying out the
// same tree twice yields identical coordinates. The root is always placed
// at the origin; coordinates may be negative.
package layout
