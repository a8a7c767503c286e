// Package family provides the relational store behind a family tree.
//
// A [FamilyData] value owns three flat collections: people, directed
// parent-child edges, and undirected spouse edges. Everything else in the
// module (tree building, layout, rendering, persistence) reads from it.
//
// # Queries
//
// [FamilyData.ParentsOf], [FamilyData.ChildrenOf] and [FamilyData.SpousesOf]
// are total: an unknown id yields an empty slice, never an error. Results
// follow edge insertion order. [Index] is a read-only snapshot with the same
// answers in O(1), used by the tree builder for one build pass.
//
// # Mutation
//
// Mutations are copy-on-write: [AddPerson], [AddParentChild], [RemovePerson]
// and friends return a new *FamilyData and leave their input untouched. A
// rejected mutation returns a *errors.ValidationError listing every problem,
// and no new value.
//
// Parent-child insertion consults [WouldCreateCycle] first, so the directed
// edge set stays acyclic as long as edges are only added through this package.
//
// # Concurrency
//
// FamilyData is a plain value. Because mutations never modify their input,
// a snapshot may be shared by concurrent readers.
package family
