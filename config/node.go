package config

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Node is a frozen/unfrozen attribute bag tagged with the target identifier
// of the component type it describes. Field values may be primitives, opaque
// Go values, or nested Config trees.
//
// A Node starts unfrozen: fields may be added freely. Once frozen, the set of
// field names is fixed; writing an existing name still reassigns its value.
// The target is set at construction and never changes.
type Node struct {
	target string
	frozen bool
	order  []string
	fields map[string]any
}

// NewNode creates an unfrozen node tagged with the given target identifier.
func NewNode(target string) *Node {
	return &Node{
		target: target,
		fields: make(map[string]any),
	}
}

// Target returns the target identifier set at construction.
func (n *Node) Target() string { return n.target }

// Frozen reports whether the field-name set is currently fixed.
func (n *Node) Frozen() bool { return n.frozen }

// Freeze toggles the frozen invariant. It is idempotent.
func (n *Node) Freeze(frozen bool) { n.frozen = frozen }

// Set inserts or overwrites a field. Writing a name that was not declared
// before the node was frozen fails with ErrUnknownField.
func (n *Node) Set(name string, value any) error {
	if _, ok := n.fields[name]; !ok {
		if n.frozen {
			return fmt.Errorf("field %q: %w", name, ErrUnknownField)
		}
		n.order = append(n.order, name)
	}
	n.fields[name] = value
	return nil
}

// SetAll applies Set for every entry. Go maps carry no order, so entries are
// applied in sorted-name order to keep newly declared fields deterministic.
func (n *Node) SetAll(fields map[string]any) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := n.Set(name, fields[name]); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value of a field and whether the field is declared.
func (n *Node) Get(name string) (any, bool) {
	v, ok := n.fields[name]
	return v, ok
}

// Names returns the declared field names in insertion order.
func (n *Node) Names() []string {
	names := make([]string, len(n.order))
	copy(names, n.order)
	return names
}

// Len returns the number of declared fields.
func (n *Node) Len() int { return len(n.fields) }

// Clone returns a deep copy of the node. Nested configs are cloned
// recursively; other values are copied by reference.
func (n *Node) Clone() Config {
	c := &Node{
		target: n.target,
		frozen: n.frozen,
		order:  make([]string, len(n.order)),
		fields: make(map[string]any, len(n.fields)),
	}
	copy(c.order, n.order)
	for name, v := range n.fields {
		c.fields[name] = cloneValue(v)
	}
	return c
}

// Build resolves the node into a live component. It fails with
// ErrMissingTarget when the node carries no target, and with
// ErrNotReconstructible when the resolver knows no factory for it.
// Reconstruction itself is delegated to the factory's FromConfig.
func (n *Node) Build(ctx context.Context, res Resolver) (any, error) {
	if n.target == "" {
		return nil, ErrMissingTarget
	}
	if res == nil {
		return nil, fmt.Errorf("target %q: %w", n.target, ErrNotReconstructible)
	}
	builder, ok := res.Resolve(n.target)
	if !ok {
		return nil, fmt.Errorf("target %q: %w", n.target, ErrNotReconstructible)
	}
	return builder.FromConfig(ctx, n)
}

// String returns the deterministic nested rendering of the tree, one
// "name = value" per line with children indented. The frozen flag is
// deliberately excluded: renderings are meant for diffing blueprints.
func (n *Node) String() string {
	var sb strings.Builder
	n.render(&sb, "", false)
	return sb.String()
}

// DebugString is String with leaf values rendered in Go syntax.
func (n *Node) DebugString() string {
	var sb strings.Builder
	n.render(&sb, "", true)
	return sb.String()
}

func cloneValue(v any) any {
	if c, ok := v.(Config); ok {
		return c.Clone()
	}
	return v
}
