package registry

import (
	"fmt"
	"reflect"
	"strings"
)

// Param declares a single constructor parameter of a component type.
type Param struct {
	// Name is the parameter name as it appears in config node fields.
	Name string

	// Default is a zero-argument factory producing the parameter's default
	// value. It is invoked fresh for every construction that does not
	// supply the parameter, so defaults are never shared between
	// instances. A nil Default marks the parameter as required.
	Default func() any
}

// Spec declares a component type for registration.
type Spec struct {
	// Target is the identifier recorded in config nodes describing this
	// type.
	Target string

	// Type is the component's struct type. A pointer type is accepted and
	// dereferenced.
	Type reflect.Type

	// Params lists the constructor parameters in declaration order. When
	// empty, parameters are derived from the struct's `cfg` tags in field
	// order, all required.
	Params []Param
}

// fieldSlot records where a parameter mirrors into the component struct and
// in which construction phase it is bound.
type fieldSlot struct {
	index int
	late  bool
}

// normalize validates the spec and fills in derived parameters. It panics on
// malformed specs, matching Register's contract.
func (s *Spec) normalize() {
	if s.Target == "" {
		panic("registry: spec has no target")
	}
	if s.Type == nil {
		panic(fmt.Sprintf("registry: spec %q has no type", s.Target))
	}
	if s.Type.Kind() == reflect.Pointer {
		s.Type = s.Type.Elem()
	}
	if s.Type.Kind() != reflect.Struct {
		panic(fmt.Sprintf("registry: spec %q: type %s is not a struct", s.Target, s.Type))
	}
	if len(s.Params) == 0 {
		s.Params = paramsFromTags(s.Type)
	}
	seen := make(map[string]struct{}, len(s.Params))
	for _, p := range s.Params {
		if p.Name == "" {
			panic(fmt.Sprintf("registry: spec %q has an unnamed parameter", s.Target))
		}
		if _, dup := seen[p.Name]; dup {
			panic(fmt.Sprintf("registry: spec %q declares parameter %q twice", s.Target, p.Name))
		}
		seen[p.Name] = struct{}{}
	}
}

// paramsFromTags derives required parameters from the struct's `cfg` tags in
// field order.
func paramsFromTags(t reflect.Type) []Param {
	var params []Param
	for i := 0; i < t.NumField(); i++ {
		name, _, ok := parseTag(t.Field(i))
		if !ok {
			continue
		}
		params = append(params, Param{Name: name})
	}
	return params
}

// fieldSlots maps parameter names to the struct fields that mirror them.
// Parameters without a matching tagged field simply have no slot; mirroring
// is best-effort.
func fieldSlots(t reflect.Type, params []Param) map[string]fieldSlot {
	byName := make(map[string]fieldSlot)
	for i := 0; i < t.NumField(); i++ {
		name, late, ok := parseTag(t.Field(i))
		if !ok {
			continue
		}
		byName[name] = fieldSlot{index: i, late: late}
	}
	slots := make(map[string]fieldSlot, len(params))
	for _, p := range params {
		if slot, ok := byName[p.Name]; ok {
			slots[p.Name] = slot
		}
	}
	return slots
}

// parseTag reads a field's `cfg` tag. The tag value is the parameter name,
// optionally followed by ",late" to defer binding until after the Init hook
// has run. Untagged, ignored ("-"), and unexported fields carry no slot.
func parseTag(f reflect.StructField) (name string, late bool, ok bool) {
	if !f.IsExported() {
		return "", false, false
	}
	tag := f.Tag.Get("cfg")
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" || name == "-" {
		return "", false, false
	}
	for _, opt := range parts[1:] {
		if opt == "late" {
			late = true
		}
	}
	return name, late, true
}
