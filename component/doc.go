// Package component declares the contract the blueprint engine consumes from
// an external component framework.
//
// The engine itself knows nothing about what components do. It needs exactly
// two capabilities from the framework that owns them: a membership test
// ("is this value a native component?") and the framework's homogeneous
// collection types, so that a composite blueprint whose elements all realize
// into native components can hand back the framework's own ordered or keyed
// container instead of a plain Go collection.
//
// Frameworks are attached to a registry via registry.WithFramework. Running
// without one is fine: composite builds then always produce plain Go
// collections.
package component
