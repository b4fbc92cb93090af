// Package testutil provides a fake component framework and a small set of
// registered sample components shared by tests across the module.
package testutil

// Unit is the native component marker of the fake framework. Every sample
// component that should count as framework-native implements it.
type Unit interface {
	Unit()
}

// UnitList is the framework's ordered homogeneous collection.
type UnitList []Unit

// UnitMap is the framework's keyed homogeneous collection.
type UnitMap map[string]Unit

// Framework implements component.Framework over Unit values.
type Framework struct{}

// IsNative reports whether v implements Unit.
func (Framework) IsNative(v any) bool {
	_, ok := v.(Unit)
	return ok
}

// NewList wraps native components in a UnitList.
func (Framework) NewList(elems []any) any {
	out := make(UnitList, len(elems))
	for i, e := range elems {
		out[i] = e.(Unit)
	}
	return out
}

// NewMap wraps native components in a UnitMap.
func (Framework) NewMap(elems map[string]any) any {
	out := make(UnitMap, len(elems))
	for key, e := range elems {
		out[key] = e.(Unit)
	}
	return out
}

// AsList unwraps a UnitList.
func (Framework) AsList(v any) ([]any, bool) {
	ul, ok := v.(UnitList)
	if !ok {
		return nil, false
	}
	out := make([]any, len(ul))
	for i, u := range ul {
		out[i] = u
	}
	return out, true
}

// AsMap unwraps a UnitMap.
func (Framework) AsMap(v any) (map[string]any, bool) {
	um, ok := v.(UnitMap)
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(um))
	for key, u := range um {
		out[key] = u
	}
	return out, true
}
