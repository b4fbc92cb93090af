package component

// Framework is the capability surface of an external component framework.
//
// IsNative and the two constructors drive composite promotion: a non-empty
// composite whose realized elements are all native is wrapped via NewList or
// NewMap. AsList and AsMap are the inverse direction, used while snapshotting
// a live instance: they let the engine recurse through a framework-owned
// collection as if it were a plain Go one.
type Framework interface {
	// IsNative reports whether v is a component belonging to this
	// framework.
	IsNative(v any) bool

	// NewList wraps realized components in the framework's ordered
	// homogeneous collection type. Callers guarantee every element is
	// native.
	NewList(elems []any) any

	// NewMap wraps realized components in the framework's keyed
	// homogeneous collection type. Callers guarantee every element is
	// native.
	NewMap(elems map[string]any) any

	// AsList unwraps a native ordered collection into its elements. It
	// reports false for any other value.
	AsList(v any) ([]any, bool)

	// AsMap unwraps a native keyed collection into its elements. It
	// reports false for any other value.
	AsMap(v any) (map[string]any, bool)
}
