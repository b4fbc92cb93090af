package config

import (
	"fmt"
	"strings"
)

// indent is the per-level indentation of the text rendering.
const indent = "    "

// render writes the node in insertion order: the target line first, then one
// line per field. Nested configs get a bare "name =" line followed by their
// own rendering one level deeper. The frozen flag is never rendered.
func (n *Node) render(sb *strings.Builder, prefix string, debug bool) {
	fmt.Fprintf(sb, "%starget = %s\n", prefix, n.target)
	for _, name := range n.order {
		v := n.fields[name]
		if c, ok := v.(Config); ok {
			fmt.Fprintf(sb, "%s%s =\n", prefix, name)
			c.render(sb, prefix+indent, debug)
			continue
		}
		if debug {
			fmt.Fprintf(sb, "%s%s = %#v\n", prefix, name, v)
		} else {
			fmt.Fprintf(sb, "%s%s = %v\n", prefix, name, v)
		}
	}
}

// String returns the deterministic text form of the list.
func (l *List) String() string {
	var sb strings.Builder
	l.render(&sb, "", false)
	return sb.String()
}

// DebugString is String with leaf values rendered in Go syntax.
func (l *List) DebugString() string {
	var sb strings.Builder
	l.render(&sb, "", true)
	return sb.String()
}

// String returns the deterministic text form of the map, keys sorted.
func (m *Map) String() string {
	var sb strings.Builder
	m.render(&sb, "", false)
	return sb.String()
}

// DebugString is String with leaf values rendered in Go syntax.
func (m *Map) DebugString() string {
	var sb strings.Builder
	m.render(&sb, "", true)
	return sb.String()
}
