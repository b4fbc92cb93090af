package config

import (
	"context"
	"strings"

	"github.com/vk/blueprintgo/component"
)

// Config is a node in a blueprint tree: either a Node, a List, or a Map.
type Config interface {
	// Target returns the identifier of the component type this config
	// describes. Composites report their own fixed composite target.
	Target() string

	// Build resolves this config into a live component via the resolver.
	// Building is a deep read: the config itself is never mutated.
	Build(ctx context.Context, res Resolver) (any, error)

	// Clone returns a deep copy of the tree rooted at this config. Opaque
	// leaf values are copied by reference.
	Clone() Config

	// render appends the deterministic text form to sb. Sealed so that
	// every Config is one of the kinds defined in this package.
	render(sb *strings.Builder, prefix string, debug bool)
}

// Builder reconstructs a live component from a config describing it. The
// registry package generates one Builder per registered component type.
type Builder interface {
	FromConfig(ctx context.Context, cfg Config) (any, error)
}

// Resolver maps target identifiers to their builders. It also exposes the
// component framework in use, if any, so composite builds can promote
// all-native results into the framework's homogeneous collection types.
type Resolver interface {
	Resolve(target string) (Builder, bool)
	Framework() component.Framework
}
