// Package types defines the entities, collaborator interfaces and sentinel
// errors shared across the peergrade engine.
//
// Keeping these definitions in a leaf package lets internal packages depend
// on them without importing the root peergrade package, while the root
// package re-exports the public surface via type aliases.
package types
