package config_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/blueprintgo/component"
	"github.com/vk/blueprintgo/config"
)

// builderFunc adapts a function to config.Builder.
type builderFunc func(ctx context.Context, cfg config.Config) (any, error)

func (f builderFunc) FromConfig(ctx context.Context, cfg config.Config) (any, error) {
	return f(ctx, cfg)
}

// stubResolver is a minimal config.Resolver for tests below.
type stubResolver struct {
	builders map[string]config.Builder
	fw       component.Framework
}

func (r *stubResolver) Resolve(target string) (config.Builder, bool) {
	b, ok := r.builders[target]
	return b, ok
}

func (r *stubResolver) Framework() component.Framework { return r.fw }

func TestNewNode(t *testing.T) {
	n := config.NewNode("layer")
	require.NotNil(t, n)
	assert.Equal(t, "layer", n.Target())
	assert.False(t, n.Frozen())
	assert.Zero(t, n.Len())
}

func TestFreezeDiscipline(t *testing.T) {
	n := config.NewNode("layer")
	require.NoError(t, n.Set("width", 10))
	require.NoError(t, n.Set("name", "dense"))

	n.Freeze(true)
	assert.True(t, n.Frozen())

	t.Run("existing field value stays writable", func(t *testing.T) {
		require.NoError(t, n.Set("width", 32))
		v, ok := n.Get("width")
		require.True(t, ok)
		assert.Equal(t, 32, v)

		// Only that value changed.
		v, _ = n.Get("name")
		assert.Equal(t, "dense", v)
	})

	t.Run("new field name is rejected", func(t *testing.T) {
		err := n.Set("depth", 3)
		require.ErrorIs(t, err, config.ErrUnknownField)
		_, ok := n.Get("depth")
		assert.False(t, ok)
	})

	t.Run("freeze is idempotent", func(t *testing.T) {
		n.Freeze(true)
		assert.True(t, n.Frozen())
	})

	t.Run("unfreezing reopens the name set", func(t *testing.T) {
		n.Freeze(false)
		require.NoError(t, n.Set("depth", 3))
		assert.Equal(t, []string{"width", "name", "depth"}, n.Names())
	})
}

func TestSetAll(t *testing.T) {
	n := config.NewNode("layer")
	require.NoError(t, n.SetAll(map[string]any{
		"width": 10,
		"bias":  true,
		"name":  "dense",
	}))

	// Newly declared names are applied in sorted order for determinism.
	assert.Equal(t, []string{"bias", "name", "width"}, n.Names())

	n.Freeze(true)
	err := n.SetAll(map[string]any{"width": 20, "depth": 1})
	require.ErrorIs(t, err, config.ErrUnknownField)
}

func TestNodeClone(t *testing.T) {
	inner := config.NewNode("relu")
	require.NoError(t, inner.Set("slope", 0.1))
	inner.Freeze(true)

	n := config.NewNode("layer")
	require.NoError(t, n.Set("width", 10))
	require.NoError(t, n.Set("activation", inner))
	n.Freeze(true)

	c := n.Clone().(*config.Node)
	assert.True(t, c.Frozen())
	assert.Equal(t, n.Names(), c.Names())

	// The nested node is a distinct copy.
	cv, _ := c.Get("activation")
	clonedInner := cv.(*config.Node)
	require.NotSame(t, inner, clonedInner)
	require.NoError(t, clonedInner.Set("slope", 0.9))
	v, _ := inner.Get("slope")
	assert.Equal(t, 0.1, v)
}

func TestNodeBuild(t *testing.T) {
	res := &stubResolver{builders: map[string]config.Builder{
		"relu": builderFunc(func(ctx context.Context, cfg config.Config) (any, error) {
			return "built:" + cfg.Target(), nil
		}),
	}}

	t.Run("missing target", func(t *testing.T) {
		n := config.NewNode("")
		_, err := n.Build(context.Background(), res)
		assert.ErrorIs(t, err, config.ErrMissingTarget)
	})

	t.Run("unregistered target", func(t *testing.T) {
		n := config.NewNode("tanh")
		_, err := n.Build(context.Background(), res)
		assert.ErrorIs(t, err, config.ErrNotReconstructible)
	})

	t.Run("nil resolver", func(t *testing.T) {
		n := config.NewNode("relu")
		_, err := n.Build(context.Background(), nil)
		assert.ErrorIs(t, err, config.ErrNotReconstructible)
	})

	t.Run("delegates to the registered builder", func(t *testing.T) {
		n := config.NewNode("relu")
		v, err := n.Build(context.Background(), res)
		require.NoError(t, err)
		assert.Equal(t, "built:relu", v)
	})
}

func TestNodeString(t *testing.T) {
	inner := config.NewNode("relu")
	inner.Freeze(true)

	n := config.NewNode("layer")
	require.NoError(t, n.Set("width", 10))
	require.NoError(t, n.Set("name", "dense"))
	require.NoError(t, n.Set("activation", inner))
	n.Freeze(true)

	want := "" +
		"target = layer\n" +
		"width = 10\n" +
		"name = dense\n" +
		"activation =\n" +
		"    target = relu\n"
	assert.Equal(t, want, n.String())

	// The frozen flag never shows up, so the rendering is stable across
	// freeze state.
	n.Freeze(false)
	assert.Equal(t, want, n.String())
}

func TestNodeDebugString(t *testing.T) {
	n := config.NewNode("layer")
	require.NoError(t, n.Set("name", "dense"))

	assert.Contains(t, n.DebugString(), `name = "dense"`)
}
