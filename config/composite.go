package config

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/blueprintgo/component"
)

// Fixed target identifiers for the composite kinds. They tag the composite
// itself, never its element type.
const (
	ListTarget = "config.list"
	MapTarget  = "config.map"
)

// List is an ordered collection of sibling configs. Unlike Node it is not an
// attribute bag and carries no frozen flag: it is a mutable container of
// immutable-shaped elements.
type List struct {
	elems []Config
}

// NewList creates a list from a deep copy of the given elements. A nil
// element fails with ErrElementType.
func NewList(elems ...Config) (*List, error) {
	l := &List{elems: make([]Config, 0, len(elems))}
	for i, c := range elems {
		if c == nil {
			return nil, fmt.Errorf("element %d: %w", i, ErrElementType)
		}
		l.elems = append(l.elems, c.Clone())
	}
	return l, nil
}

// Target returns ListTarget.
func (l *List) Target() string { return ListTarget }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elems) }

// At returns the element at index i.
func (l *List) At(i int) Config { return l.elems[i] }

// Elements returns a copy of the element slice.
func (l *List) Elements() []Config {
	out := make([]Config, len(l.elems))
	copy(out, l.elems)
	return out
}

// Append adds an element to the end of the list.
func (l *List) Append(c Config) error {
	if c == nil {
		return ErrElementType
	}
	l.elems = append(l.elems, c)
	return nil
}

// Insert adds an element at index i, shifting later elements right.
func (l *List) Insert(i int, c Config) error {
	if c == nil {
		return ErrElementType
	}
	l.elems = append(l.elems, nil)
	copy(l.elems[i+1:], l.elems[i:])
	l.elems[i] = c
	return nil
}

// Remove deletes the first element identical to c and reports whether one
// was found.
func (l *List) Remove(c Config) bool {
	for i, e := range l.elems {
		if e == c {
			l.elems = append(l.elems[:i], l.elems[i+1:]...)
			return true
		}
	}
	return false
}

// Pop removes and returns the element at index i.
func (l *List) Pop(i int) Config {
	c := l.elems[i]
	l.elems = append(l.elems[:i], l.elems[i+1:]...)
	return c
}

// Clone returns a deep copy of the list.
func (l *List) Clone() Config {
	c := &List{elems: make([]Config, len(l.elems))}
	for i, e := range l.elems {
		c.elems[i] = e.Clone()
	}
	return c
}

// Build realizes every element in order. When a component framework is
// available and every realized element is native to it, the results are
// wrapped in the framework's ordered collection type; otherwise a plain
// []any is returned. An empty list always yields an empty plain slice so
// that no ambiguous empty framework container is produced.
func (l *List) Build(ctx context.Context, res Resolver) (any, error) {
	fw := frameworkOf(res)
	results := make([]any, 0, len(l.elems))
	allNative := fw != nil
	for i, e := range l.elems {
		v, err := e.Build(ctx, res)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if allNative && !fw.IsNative(v) {
			allNative = false
		}
		results = append(results, v)
	}
	if allNative && len(results) > 0 {
		return fw.NewList(results), nil
	}
	return results, nil
}

func (l *List) render(sb *strings.Builder, prefix string, debug bool) {
	fmt.Fprintf(sb, "%starget = %s\n", prefix, ListTarget)
	for i, e := range l.elems {
		fmt.Fprintf(sb, "%s%d =\n", prefix, i)
		e.render(sb, prefix+indent, debug)
	}
}

// Map is a keyed collection of sibling configs. Like List it is a mutable
// container, not an attribute bag.
type Map struct {
	elems map[string]Config
}

// NewMap creates a map from a deep copy of the given elements. A nil
// element fails with ErrElementType.
func NewMap(elems map[string]Config) (*Map, error) {
	m := &Map{elems: make(map[string]Config, len(elems))}
	for key, c := range elems {
		if c == nil {
			return nil, fmt.Errorf("key %q: %w", key, ErrElementType)
		}
		m.elems[key] = c.Clone()
	}
	return m, nil
}

// Target returns MapTarget.
func (m *Map) Target() string { return MapTarget }

// Len returns the number of elements.
func (m *Map) Len() int { return len(m.elems) }

// Get returns the element stored under key and whether it exists.
func (m *Map) Get(key string) (Config, bool) {
	c, ok := m.elems[key]
	return c, ok
}

// Set stores an element under key, replacing any previous one.
func (m *Map) Set(key string, c Config) error {
	if c == nil {
		return fmt.Errorf("key %q: %w", key, ErrElementType)
	}
	m.elems[key] = c
	return nil
}

// Delete removes the element stored under key and reports whether it
// existed.
func (m *Map) Delete(key string) bool {
	if _, ok := m.elems[key]; !ok {
		return false
	}
	delete(m.elems, key)
	return true
}

// Keys returns the element keys in sorted order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.elems))
	for key := range m.elems {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the elements in sorted-key order.
func (m *Map) Values() []Config {
	keys := m.Keys()
	out := make([]Config, len(keys))
	for i, key := range keys {
		out[i] = m.elems[key]
	}
	return out
}

// Items returns the elements as a map copy.
func (m *Map) Items() map[string]Config {
	out := make(map[string]Config, len(m.elems))
	for key, c := range m.elems {
		out[key] = c
	}
	return out
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() Config {
	c := &Map{elems: make(map[string]Config, len(m.elems))}
	for key, e := range m.elems {
		c.elems[key] = e.Clone()
	}
	return c
}

// Build realizes every element. Promotion rules match List.Build: all-native
// non-empty results are wrapped in the framework's keyed collection type,
// anything else yields a plain map[string]any.
func (m *Map) Build(ctx context.Context, res Resolver) (any, error) {
	fw := frameworkOf(res)
	results := make(map[string]any, len(m.elems))
	allNative := fw != nil
	for _, key := range m.Keys() {
		v, err := m.elems[key].Build(ctx, res)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		if allNative && !fw.IsNative(v) {
			allNative = false
		}
		results[key] = v
	}
	if allNative && len(results) > 0 {
		return fw.NewMap(results), nil
	}
	return results, nil
}

func (m *Map) render(sb *strings.Builder, prefix string, debug bool) {
	fmt.Fprintf(sb, "%starget = %s\n", prefix, MapTarget)
	for _, key := range m.Keys() {
		fmt.Fprintf(sb, "%s%s =\n", prefix, key)
		m.elems[key].render(sb, prefix+indent, debug)
	}
}

func frameworkOf(res Resolver) component.Framework {
	if res == nil {
		return nil
	}
	return res.Framework()
}
