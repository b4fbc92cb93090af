package registry

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/blueprintgo/config"
	"github.com/vk/blueprintgo/internal/ctxlog"
)

// Initializer is the optional constructor hook of a component type. When a
// registered struct implements it (on the pointer receiver), New invokes it
// after the pre-init parameter slots have been bound and before the late
// slots are bound.
type Initializer interface {
	Init(ctx context.Context) error
}

// Factory owns the derived configuration operations of one registered
// component type. Factories are created by Registry.Register and are safe
// for concurrent use as long as the inspected instances are not concurrently
// mutated.
type Factory struct {
	reg    *Registry
	spec   *Spec
	slots  map[string]fieldSlot
	params map[string]struct{}
}

// Target returns the target identifier this factory reconstructs.
func (f *Factory) Target() string { return f.spec.Target }

// Type returns the registered component struct type.
func (f *Factory) Type() reflect.Type { return f.spec.Type }

// DefaultConfig builds the type's template blueprint. Parameters appear in
// declaration order; each resolves to its override when supplied, otherwise
// to a freshly produced default. Resolved values that are themselves
// configurable (directly or as a collection of configurables) are captured
// as nested configs rather than stored raw. The returned node is frozen.
//
// A required parameter with no override fails with ErrMissingParam. An
// override naming an undeclared parameter fails with ErrUnknownField.
func (f *Factory) DefaultConfig(ctx context.Context, overrides map[string]any) (*config.Node, error) {
	if err := f.checkNames(overrides); err != nil {
		return nil, err
	}
	n := config.NewNode(f.spec.Target)
	for _, p := range f.spec.Params {
		v, supplied := overrides[p.Name]
		if !supplied {
			if p.Default == nil {
				return nil, fmt.Errorf("target %q, parameter %q: %w", f.spec.Target, p.Name, ErrMissingParam)
			}
			v = p.Default()
		}
		if captured, ok := f.reg.Capture(ctx, v); ok {
			v = captured
		}
		if err := n.Set(p.Name, v); err != nil {
			return nil, err
		}
	}
	n.Freeze(true)
	return n, nil
}

// CurrentConfig snapshots a live instance into a blueprint. The scaffold is
// the default template, which guarantees every declared parameter is present
// even when the instance lacks the mirrored attribute; every parameter whose
// mirrored struct field exists is overlaid with the live value, captured
// recursively when capturable. The returned node is frozen.
func (f *Factory) CurrentConfig(ctx context.Context, instance any) (*config.Node, error) {
	rv, err := f.instanceValue(instance)
	if err != nil {
		return nil, err
	}
	n := config.NewNode(f.spec.Target)
	for _, p := range f.spec.Params {
		var v any
		if slot, ok := f.slots[p.Name]; ok {
			v = rv.Field(slot.index).Interface()
		} else {
			// No mirrored attribute on the instance: fall back to the
			// scaffold default.
			if p.Default == nil {
				return nil, fmt.Errorf("target %q, parameter %q: %w", f.spec.Target, p.Name, ErrMissingParam)
			}
			v = p.Default()
		}
		if captured, ok := f.reg.Capture(ctx, v); ok {
			v = captured
		}
		if err := n.Set(p.Name, v); err != nil {
			return nil, err
		}
	}
	n.Freeze(true)
	return n, nil
}

// FromConfig rebuilds a live instance from a blueprint. The config must be a
// node whose target matches this factory; any other tree fails with
// ErrTargetMismatch. Nested configs among the fields are realized
// depth-first before the constructor runs. The input tree is read-only
// throughout.
func (f *Factory) FromConfig(ctx context.Context, cfg config.Config) (any, error) {
	n, ok := cfg.(*config.Node)
	if !ok {
		return nil, fmt.Errorf("target %q given composite %q: %w", f.spec.Target, cfg.Target(), config.ErrTargetMismatch)
	}
	if n.Target() != f.spec.Target {
		return nil, fmt.Errorf("target %q given node for %q: %w", f.spec.Target, n.Target(), config.ErrTargetMismatch)
	}
	args := make(map[string]any, n.Len())
	for _, name := range n.Names() {
		v, _ := n.Get(name)
		if child, ok := v.(config.Config); ok {
			built, err := child.Build(ctx, f.reg)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			v = built
		}
		args[name] = v
	}
	return f.New(ctx, args)
}

// New constructs an instance from explicit arguments. Parameters not
// supplied resolve through their default factories, invoked fresh for this
// construction, so defaulted sub-components are never shared between
// instances. Resolved values are mirrored into the struct's tagged fields:
// pre-init slots before the Init hook runs, late slots after. Mirroring is
// best-effort; a value that fits no slot is simply left unbound.
func (f *Factory) New(ctx context.Context, args map[string]any) (any, error) {
	logger := ctxlog.FromContext(ctx)
	if err := f.checkNames(args); err != nil {
		return nil, err
	}
	resolved := make(map[string]any, len(f.spec.Params))
	for _, p := range f.spec.Params {
		v, supplied := args[p.Name]
		if !supplied {
			if p.Default == nil {
				return nil, fmt.Errorf("target %q, parameter %q: %w", f.spec.Target, p.Name, ErrMissingParam)
			}
			v = p.Default()
		}
		resolved[p.Name] = v
	}

	ptr := reflect.New(f.spec.Type)
	elem := ptr.Elem()
	f.bind(elem, resolved, false)
	instance := ptr.Interface()
	if init, ok := instance.(Initializer); ok {
		if err := init.Init(ctx); err != nil {
			return nil, fmt.Errorf("init %q: %w", f.spec.Target, err)
		}
	}
	f.bind(elem, resolved, true)
	logger.Debug("Constructed component.", "target", f.spec.Target, "args", len(args))
	return instance, nil
}

// checkNames rejects argument or override names that are not declared
// parameters.
func (f *Factory) checkNames(args map[string]any) error {
	for name := range args {
		if _, ok := f.params[name]; !ok {
			return fmt.Errorf("target %q, argument %q: %w", f.spec.Target, name, config.ErrUnknownField)
		}
	}
	return nil
}

// instanceValue dereferences and type-checks a live instance against the
// registered struct type.
func (f *Factory) instanceValue(instance any) (reflect.Value, error) {
	rv := reflect.ValueOf(instance)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("target %q: nil instance", f.spec.Target)
		}
		rv = rv.Elem()
	}
	if rv.Type() != f.spec.Type {
		return reflect.Value{}, fmt.Errorf("target %q cannot snapshot %T: %w", f.spec.Target, instance, config.ErrTargetMismatch)
	}
	return rv, nil
}

// bind assigns resolved parameter values into the struct fields of the given
// phase.
func (f *Factory) bind(elem reflect.Value, resolved map[string]any, late bool) {
	for _, p := range f.spec.Params {
		slot, ok := f.slots[p.Name]
		if !ok || slot.late != late {
			continue
		}
		assignField(elem.Field(slot.index), resolved[p.Name])
	}
}

// assignField sets a struct field from a resolved value when the types
// allow it. Numeric values convert across numeric kinds; anything else that
// does not fit is skipped, keeping mirroring best-effort.
func assignField(field reflect.Value, v any) {
	if v == nil || !field.CanSet() {
		return
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(field.Type()):
		field.Set(rv)
	case numericKind(rv.Kind()) && numericKind(field.Kind()) && rv.Type().ConvertibleTo(field.Type()):
		field.Set(rv.Convert(field.Type()))
	}
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
