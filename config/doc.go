// Package config provides the declarative blueprint tree from which live
// component graphs are snapshotted and rebuilt.
//
// # Core Concepts
//
// The tree is built from three node kinds, all satisfying the Config
// interface:
//
//   - Node: an attribute bag tagged with the target identifier of the
//     component type it describes. It is the atomic unit of a blueprint.
//     A Node can be frozen, fixing its set of field names while leaving
//     field values writable.
//
//   - List: an ordered collection of sibling configs.
//
//   - Map: a keyed collection of sibling configs.
//
// A Config describes how to build a component, never the component's runtime
// state. Building is delegated through a Resolver, which maps a node's target
// identifier to the factory that knows how to reconstruct it. The registry
// package provides the canonical Resolver implementation.
//
// Why an interface with unexported methods?
//
// The Config interface is sealed to this package. Every value stored in a
// composite is guaranteed to be one of the three node kinds above, which is
// what lets Build, Clone, and the text renderer recurse without defensive
// type checks at every level.
package config
