package registry_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/blueprintgo/config"
	"github.com/vk/blueprintgo/internal/testutil"
	"github.com/vk/blueprintgo/registry"
)

func TestRegisterPanics(t *testing.T) {
	t.Run("duplicate target", func(t *testing.T) {
		r := registry.New()
		r.Register(&registry.Spec{Target: "relu", Type: reflect.TypeOf(testutil.ReLU{})})
		assert.Panics(t, func() {
			r.Register(&registry.Spec{Target: "relu", Type: reflect.TypeOf(testutil.Probe{})})
		})
	})

	t.Run("duplicate type", func(t *testing.T) {
		r := registry.New()
		r.Register(&registry.Spec{Target: "relu", Type: reflect.TypeOf(testutil.ReLU{})})
		assert.Panics(t, func() {
			r.Register(&registry.Spec{Target: "relu2", Type: reflect.TypeOf(testutil.ReLU{})})
		})
	})

	t.Run("malformed specs", func(t *testing.T) {
		r := registry.New()
		assert.Panics(t, func() { r.Register(&registry.Spec{Type: reflect.TypeOf(testutil.ReLU{})}) })
		assert.Panics(t, func() { r.Register(&registry.Spec{Target: "x"}) })
		assert.Panics(t, func() {
			r.Register(&registry.Spec{
				Target: "x",
				Type:   reflect.TypeOf(testutil.Layer{}),
				Params: []registry.Param{{Name: "w"}, {Name: "w"}},
			})
		})
	})
}

func TestRegistryLookups(t *testing.T) {
	r := testutil.NewRegistry()

	f, ok := r.Factory("layer")
	require.True(t, ok)
	assert.Equal(t, "layer", f.Target())

	_, ok = r.Factory("ghost")
	assert.False(t, ok)

	// Capability check by dynamic type, pointer or value.
	f, ok = r.FactoryFor(&testutil.ReLU{})
	require.True(t, ok)
	assert.Equal(t, "relu", f.Target())
	_, ok = r.FactoryFor(testutil.ReLU{})
	assert.True(t, ok)
	_, ok = r.FactoryFor(42)
	assert.False(t, ok)
	_, ok = r.FactoryFor(nil)
	assert.False(t, ok)

	assert.Equal(t, []string{"layer", "probe", "relu", "scaler"}, r.Targets())
}

func TestDefaultConfig(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewRegistry()
	layer, _ := r.Factory("layer")

	cfg, err := layer.DefaultConfig(ctx, nil)
	require.NoError(t, err)

	assert.True(t, cfg.Frozen())
	assert.Equal(t, "layer", cfg.Target())
	assert.Equal(t, []string{"width", "activation"}, cfg.Names())

	width, _ := cfg.Get("width")
	assert.Equal(t, 10, width)

	// The configurable default is captured as a nested node, not stored raw.
	activation, _ := cfg.Get("activation")
	nested, ok := activation.(*config.Node)
	require.True(t, ok)
	assert.Equal(t, "relu", nested.Target())
}

func TestDefaultConfigOverrides(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewRegistry()
	layer, _ := r.Factory("layer")

	t.Run("override replaces the default", func(t *testing.T) {
		cfg, err := layer.DefaultConfig(ctx, map[string]any{"width": 64})
		require.NoError(t, err)
		width, _ := cfg.Get("width")
		assert.Equal(t, 64, width)
	})

	t.Run("configurable override is captured", func(t *testing.T) {
		cfg, err := layer.DefaultConfig(ctx, map[string]any{"activation": &testutil.ReLU{}})
		require.NoError(t, err)
		activation, _ := cfg.Get("activation")
		_, ok := activation.(*config.Node)
		assert.True(t, ok)
	})

	t.Run("unknown override name", func(t *testing.T) {
		_, err := layer.DefaultConfig(ctx, map[string]any{"depth": 2})
		assert.ErrorIs(t, err, config.ErrUnknownField)
	})
}

func TestMissingRequiredParameter(t *testing.T) {
	ctx := context.Background()
	r := registry.New()
	f := r.Register(&registry.Spec{
		Target: "strict",
		Type:   reflect.TypeOf(testutil.Probe{}),
		Params: []registry.Param{{Name: "label"}}, // required: no default
	})

	_, err := f.DefaultConfig(ctx, nil)
	assert.ErrorIs(t, err, registry.ErrMissingParam)

	// An override satisfies the requirement.
	cfg, err := f.DefaultConfig(ctx, map[string]any{"label": "x"})
	require.NoError(t, err)
	label, _ := cfg.Get("label")
	assert.Equal(t, "x", label)

	_, err = f.New(ctx, nil)
	assert.ErrorIs(t, err, registry.ErrMissingParam)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewRegistry()
	layer, _ := r.Factory("layer")

	def, err := layer.DefaultConfig(ctx, nil)
	require.NoError(t, err)

	v, err := layer.FromConfig(ctx, def)
	require.NoError(t, err)
	instance, ok := v.(*testutil.Layer)
	require.True(t, ok)

	snap, err := layer.CurrentConfig(ctx, instance)
	require.NoError(t, err)

	// Field-for-field equality via the deterministic rendering.
	assert.Equal(t, def.String(), snap.String())
	assert.True(t, snap.Frozen())
}

func TestNoDefaultAliasing(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewRegistry()
	layer, _ := r.Factory("layer")

	v1, err := layer.New(ctx, nil)
	require.NoError(t, err)
	v2, err := layer.New(ctx, nil)
	require.NoError(t, err)

	l1 := v1.(*testutil.Layer)
	l2 := v2.(*testutil.Layer)
	require.NotNil(t, l1.Activation)
	require.NotNil(t, l2.Activation)
	assert.NotSame(t, l1.Activation, l2.Activation)
}

func TestBuildScenario(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewRegistry()
	layer, _ := r.Factory("layer")

	def, err := layer.DefaultConfig(ctx, nil)
	require.NoError(t, err)

	v1, err := def.Build(ctx, r)
	require.NoError(t, err)
	v2, err := def.Build(ctx, r)
	require.NoError(t, err)

	l1 := v1.(*testutil.Layer)
	l2 := v2.(*testutil.Layer)
	assert.Equal(t, 10, l1.Width)
	require.IsType(t, &testutil.ReLU{}, l1.Activation)
	assert.NotSame(t, l1.Activation, l2.Activation)
}

func TestTargetMismatch(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewRegistry()
	layer, _ := r.Factory("layer")
	relu, _ := r.Factory("relu")

	def, err := layer.DefaultConfig(ctx, nil)
	require.NoError(t, err)

	_, err = relu.FromConfig(ctx, def)
	assert.ErrorIs(t, err, config.ErrTargetMismatch)

	t.Run("composites never match a node factory", func(t *testing.T) {
		l, err := config.NewList()
		require.NoError(t, err)
		_, err = layer.FromConfig(ctx, l)
		assert.ErrorIs(t, err, config.ErrTargetMismatch)
	})
}

func TestFromConfigUnknownField(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewRegistry()
	layer, _ := r.Factory("layer")

	n := config.NewNode("layer")
	require.NoError(t, n.Set("width", 10))
	require.NoError(t, n.Set("bogus", 1))

	_, err := layer.FromConfig(ctx, n)
	assert.ErrorIs(t, err, config.ErrUnknownField)
}

func TestFromConfigFillsMissingDefaults(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewRegistry()
	layer, _ := r.Factory("layer")

	// Only width given: the activation resolves through its default
	// factory.
	n := config.NewNode("layer")
	require.NoError(t, n.Set("width", 7))

	v, err := layer.FromConfig(ctx, n)
	require.NoError(t, err)
	l := v.(*testutil.Layer)
	assert.Equal(t, 7, l.Width)
	assert.IsType(t, &testutil.ReLU{}, l.Activation)
}

func TestCurrentConfigOverlay(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewRegistry()
	layer, _ := r.Factory("layer")

	v, err := layer.New(ctx, map[string]any{"width": 32})
	require.NoError(t, err)
	instance := v.(*testutil.Layer)

	snap, err := layer.CurrentConfig(ctx, instance)
	require.NoError(t, err)

	width, _ := snap.Get("width")
	assert.Equal(t, 32, width)
	activation, _ := snap.Get("activation")
	nested, ok := activation.(*config.Node)
	require.True(t, ok)
	assert.Equal(t, "relu", nested.Target())

	t.Run("wrong instance type", func(t *testing.T) {
		_, err := layer.CurrentConfig(ctx, &testutil.Probe{})
		assert.ErrorIs(t, err, config.ErrTargetMismatch)
	})
}

func TestInitPhases(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewRegistry()
	scaler, _ := r.Factory("scaler")

	v, err := scaler.New(ctx, nil)
	require.NoError(t, err)
	s := v.(*testutil.Scaler)

	assert.True(t, s.Initialized)
	assert.Equal(t, 1.0, s.Gamma)
	// The late slot was not bound yet when Init ran, but is bound now.
	assert.Zero(t, s.BiasDuringInit)
	assert.Equal(t, 0.5, s.Bias)
}

func TestNewUnknownArgument(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewRegistry()
	layer, _ := r.Factory("layer")

	_, err := layer.New(ctx, map[string]any{"depth": 3})
	assert.ErrorIs(t, err, config.ErrUnknownField)
}
