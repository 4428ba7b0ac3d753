package system_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimeminister/commix/system"
)

func TestAutoWrapRule(t *testing.T) {
	// A plain-map value whose map key is namespaced and whose
	// value is itself a map (not already a Component) auto-wraps.
	cfg := map[string]any{
		"test/k1": map[string]any{"port": 8080},
	}
	sys, err := system.Expand(cfg)
	require.NoError(t, err)

	v, ok := system.Lookup(sys, system.Path{"test/k1"})
	require.True(t, ok)
	comp, ok := v.(*system.Component)
	require.True(t, ok, "namespaced key should auto-wrap to a component")
	assert.Equal(t, system.Kind("test/k1"), comp.Kind)
	assert.Equal(t, 8080, comp.Config["port"])
}

func TestThreeArgComMergesExtra(t *testing.T) {
	// com(kind, config, extra) = merge(com(kind, config), extra).
	cc := system.Com(kindK, map[string]any{"a": 1, "b": 1}, map[string]any{"b": 2, "c": 3})
	sys, err := system.Expand(map[string]any{"x": cc})
	require.NoError(t, err)

	v, ok := system.Lookup(sys, system.Path{"x"})
	require.True(t, ok)
	comp := v.(*system.Component)
	assert.Equal(t, 1, comp.Config["a"])
	assert.Equal(t, 2, comp.Config["b"], "extra overrides config")
	assert.Equal(t, 3, comp.Config["c"])
}

func TestExplicitComponentLiteralNotAutoWrapped(t *testing.T) {
	// A map that is already tagged as a Component (has "kind"/"config")
	// is not re-wrapped even when reached through a namespaced key.
	cfg := map[string]any{
		"test/k1": map[string]any{"kind": string(kindK2), "config": map[string]any{"n": 1}},
	}
	sys, err := system.Expand(cfg)
	require.NoError(t, err)

	v, ok := system.Lookup(sys, system.Path{"test/k1"})
	require.True(t, ok)
	comp := v.(*system.Component)
	assert.Equal(t, kindK2, comp.Kind, "explicit kind field wins over the auto-wrap key")
}

func TestIdentityKindDefaultsWhenNoKindGiven(t *testing.T) {
	cfg := map[string]any{
		"x": map[string]any{"config": map[string]any{"n": 1}},
	}
	sys, err := system.Expand(cfg)
	require.NoError(t, err)

	v, _ := system.Lookup(sys, system.Path{"x"})
	comp := v.(*system.Component)
	assert.Equal(t, system.IdentityKind, comp.Kind)
}
