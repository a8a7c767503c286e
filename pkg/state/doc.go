// Package state holds the editable application state and the actions that
// change it.
//
// [AppState] is an immutable value: the family data plus the current
// selection, focus person, and view depths. Every change is described by an
// [Action] and applied with [Reduce], a pure function that returns the next
// state or a validation error with the state left untouched.
//
// Successful actions can be recorded in a [Log]; folding the log over an
// initial state with [Replay] reproduces the same final state. [Session]
// combines the three for interactive callers and persists the family data
// after every successful mutation.
package state
