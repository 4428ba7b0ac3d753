package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRefsDeduplicatesAndStopsAtNestedComponent(t *testing.T) {
	inner := &Component{Kind: "test/k", Config: map[string]any{"r": NewRef("hidden")}}
	cfg := map[string]any{
		"x": NewRef("a"),
		"y": []any{NewRef("a"), NewRef("b")},
		"nested": inner,
	}
	refs := getRefs(cfg)
	require.Len(t, refs, 2)

	var seen []string
	for _, r := range refs {
		seen = append(seen, r.String())
	}
	assert.Contains(t, seen, "a")
	assert.Contains(t, seen, "b")
	assert.NotContains(t, seen, "hidden")
}

func TestResolveRefWalksUpLexicalScope(t *testing.T) {
	cfg := map[string]any{
		"shared": Com("test/k", map[string]any{}),
		"group": map[string]any{
			"test/child": Com("test/k", map[string]any{"r": NewRef("shared")}),
		},
	}
	sys, err := Expand(cfg)
	require.NoError(t, err)

	resolved, err := resolveRef(sys, Path{"group", "test/child"}, Path{"shared"})
	require.NoError(t, err)
	assert.Equal(t, Path{"shared"}, resolved)
}

func TestResolveRefPrefersNearestScope(t *testing.T) {
	cfg := map[string]any{
		"shared": Com("test/k", map[string]any{"tag": "outer"}),
		"group": map[string]any{
			"shared": Com("test/k", map[string]any{"tag": "inner"}),
			"test/child": Com("test/k", map[string]any{"r": NewRef("shared")}),
		},
	}
	sys, err := Expand(cfg)
	require.NoError(t, err)

	resolved, err := resolveRef(sys, Path{"group", "test/child"}, Path{"shared"})
	require.NoError(t, err)
	assert.Equal(t, Path{"group", "shared"}, resolved, "nearest enclosing scope wins")
}

func TestResolveRefMissingReturnsMissingDependency(t *testing.T) {
	cfg := map[string]any{"a": Com("test/k", map[string]any{})}
	sys, err := Expand(cfg)
	require.NoError(t, err)

	_, err = resolveRef(sys, Path{"a"}, Path{"nope"})
	require.Error(t, err)
	var md MissingDependency
	require.ErrorAs(t, err, &md)
}

func TestDependenciesUnderRecursesNamespacedMaps(t *testing.T) {
	cfg := map[string]any{
		"group": map[string]any{
			"test/k1": Com("test/k", map[string]any{}),
			"plain": map[string]any{"n": 1},
		},
	}
	sys, err := Expand(cfg)
	require.NoError(t, err)

	deps := dependenciesUnder(sys, Path{"group"})
	require.Len(t, deps, 1)
	assert.Equal(t, Path{"group", "test/k1"}, deps[0])
}
