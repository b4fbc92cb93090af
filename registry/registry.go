package registry

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/vk/blueprintgo/component"
	"github.com/vk/blueprintgo/config"
)

// Registry holds the factories of all registered component types for a
// single application instance. It implements config.Resolver.
//
// Registration is expected to happen once at startup; the registry performs
// no locking of its own.
type Registry struct {
	factories map[string]*Factory
	byType    map[reflect.Type]*Factory
	framework component.Framework
}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithFramework attaches the external component framework used for composite
// promotion and for recursing through native collections during capture.
func WithFramework(fw component.Framework) Option {
	return func(r *Registry) { r.framework = fw }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[string]*Factory),
		byType:    make(map[reflect.Type]*Factory),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register generates and installs the factory for a component type. It
// panics when the target or the Go type is already registered, or when the
// spec is malformed.
func (r *Registry) Register(spec *Spec) *Factory {
	spec.normalize()
	if _, exists := r.factories[spec.Target]; exists {
		panic(fmt.Sprintf("registry: target %q already registered", spec.Target))
	}
	if _, exists := r.byType[spec.Type]; exists {
		panic(fmt.Sprintf("registry: type %s already registered", spec.Type))
	}
	slog.Debug("Registering component type.", "target", spec.Target, "type", spec.Type.String(), "params", len(spec.Params))
	f := &Factory{
		reg:    r,
		spec:   spec,
		slots:  fieldSlots(spec.Type, spec.Params),
		params: make(map[string]struct{}, len(spec.Params)),
	}
	for _, p := range spec.Params {
		f.params[p.Name] = struct{}{}
	}
	r.factories[spec.Target] = f
	r.byType[spec.Type] = f
	return f
}

// Factory returns the factory registered under the given target.
func (r *Registry) Factory(target string) (*Factory, bool) {
	f, ok := r.factories[target]
	return f, ok
}

// FactoryFor returns the factory registered for the dynamic type of v. This
// is the capability check for "config-capturable": a value is capturable
// exactly when its type has been registered.
func (r *Registry) FactoryFor(v any) (*Factory, bool) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	f, ok := r.byType[t]
	return f, ok
}

// Resolve implements config.Resolver.
func (r *Registry) Resolve(target string) (config.Builder, bool) {
	f, ok := r.factories[target]
	if !ok {
		return nil, false
	}
	return f, true
}

// Framework implements config.Resolver. It may return nil.
func (r *Registry) Framework() component.Framework {
	return r.framework
}

// Targets returns all registered target identifiers in sorted order.
func (r *Registry) Targets() []string {
	targets := make([]string, 0, len(r.factories))
	for target := range r.factories {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}
