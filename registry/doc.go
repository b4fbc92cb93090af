// Package registry provides the central wiring for configurable component
// types.
//
// The Registry is an explicit table mapping target identifiers (the string
// tags carried by config nodes) and Go types to a per-type Factory. A Factory
// is generated once at registration time and owns the three derived
// operations of its component type:
//
//   - DefaultConfig: produce the type's template blueprint from its declared
//     parameters and their default factories.
//   - CurrentConfig: snapshot a live instance into a blueprint, recursing
//     into sub-components.
//   - FromConfig: rebuild a live instance from a blueprint, materializing
//     children depth-first before invoking the constructor.
//
// Why an explicit registry?
//
// Registration never mutates the component type itself. All derived behavior
// lives on the Factory, and "is this value configurable?" is answered by a
// registry lookup on the value's dynamic type rather than by probing the
// value for capabilities. Parameter defaults are zero-argument factory
// closures invoked fresh for every construction, so two instances built with
// defaults can never share a mutable sub-component.
//
// Registration happens once per type, typically from init functions or a
// startup routine, and panics on duplicate or malformed specs: a broken
// registration is a programming error that no caller can meaningfully
// handle.
package registry
