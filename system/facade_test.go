package system_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimeminister/commix/system"
)

const kindK system.Kind = "test/k"
const kindK1 system.Kind = "test/k1"
const kindK2 system.Kind = "test/k2"

// paramHandler returns config["param"] if present, else the whole
// resolved config, matching the S1-S6 scenarios' "identity-like"
// handler.
func paramHandler(_ context.Context, node *system.Node) (any, error) {
	if v, ok := node.Config["param"]; ok {
		return v, nil
	}
	return node.Config, nil
}

func newRegistry(kinds...system.Kind) *system.Registry {
	reg := system.NewRegistry()
	for _, k := range kinds {
		reg.Register(k, system.HandlerSet{Init: paramHandler})
	}
	return reg
}

func TestChainInitOrdering(t *testing.T) {
	// S1: a com(:k1,{}), b com(:k2,{dep: ref(:a)})
	cfg := map[string]any{
		"a": system.Com(kindK1, map[string]any{}),
		"b": system.Com(kindK2, map[string]any{"dep": system.NewRef("a")}),
	}

	reg := newRegistry(kindK1, kindK2)
	rt := system.NewRuntime(nil)

	var order []string
	rt.Trace = func(msg string) { order = append(order, msg) }

	sys, err := system.Init(context.Background(), rt, reg, cfg)
	require.NoError(t, err)

	aComp := componentAt(t, sys, "a")
	bComp := componentAt(t, sys, "b")

	assert.Equal(t, system.StatusInit, aComp.Status)
	assert.Equal(t, system.StatusInit, bComp.Status)
	assert.Equal(t, map[string]any{}, aComp.Value)
	assert.Equal(t, map[string]any{"dep": map[string]any{}}, bComp.Value)

	aIdx, bIdx := -1, -1
	for i, msg := range order {
		if aIdx == -1 && strings.Contains(msg, "run init a") {
			aIdx = i
		}
		if bIdx == -1 && strings.Contains(msg, "run init b") {
			bIdx = i
		}
	}
	require.NotEqual(t, -1, aIdx)
	require.NotEqual(t, -1, bIdx)
	assert.Less(t, aIdx, bIdx, "a must initialize strictly before b")
}

func TestFanOutHalt(t *testing.T) {
	cfg := map[string]any{
		"a": system.Com(kindK, map[string]any{}),
		"b": system.Com(kindK, map[string]any{"r": system.NewRef("a")}),
		"c": system.Com(kindK, map[string]any{"r": system.NewRef("a")}),
	}
	reg := newRegistry(kindK)
	rt := system.NewRuntime(nil)

	sys, err := system.Init(context.Background(), rt, reg, cfg)
	require.NoError(t, err)

	_, err = system.Halt(context.Background(), rt, reg, sys, system.Path{"a"})
	require.Error(t, err)

	var wns system.WrongNeighborStatus
	require.True(t, errorAs(err, &wns))
}

func TestTargetedHalt(t *testing.T) {
	cfg := map[string]any{
		"a": system.Com(kindK, map[string]any{}),
		"b": system.Com(kindK, map[string]any{"r": system.NewRef("a")}),
		"c": system.Com(kindK, map[string]any{"r": system.NewRef("a")}),
	}
	reg := newRegistry(kindK)
	rt := system.NewRuntime(nil)

	sys, err := system.Init(context.Background(), rt, reg, cfg)
	require.NoError(t, err)

	sys, err = system.Halt(context.Background(), rt, reg, sys, system.Path{"b"})
	require.NoError(t, err)

	assert.Equal(t, system.StatusHalt, componentAt(t, sys, "b").Status)
	assert.Equal(t, system.StatusInit, componentAt(t, sys, "a").Status)
	assert.Equal(t, system.StatusInit, componentAt(t, sys, "c").Status)
}

func TestSuspendResume(t *testing.T) {
	cfg := map[string]any{
		"a": system.Com(kindK, map[string]any{"param": "v1"}),
	}
	reg := system.NewRegistry()
	reg.Register(kindK, system.HandlerSet{
		Init: paramHandler,
		Suspend: func(_ context.Context, node *system.Node) (any, error) {
			return "suspended:" + node.Current.Value.(string), nil
		},
		Resume: func(_ context.Context, node *system.Node) (any, error) {
			return "resumed-from:" + node.Current.Value.(string), nil
		},
	})
	rt := system.NewRuntime(nil)

	sys, err := system.Init(context.Background(), rt, reg, cfg)
	require.NoError(t, err)
	assert.Equal(t, "v1", componentAt(t, sys, "a").Value)

	sys, err = system.Suspend(context.Background(), rt, reg, sys)
	require.NoError(t, err)
	assert.Equal(t, system.StatusSuspend, componentAt(t, sys, "a").Status)
	assert.Equal(t, "suspended:v1", componentAt(t, sys, "a").Value)

	sys, err = system.Resume(context.Background(), rt, reg, sys)
	require.NoError(t, err)
	assert.Equal(t, system.StatusResume, componentAt(t, sys, "a").Status)
	assert.Equal(t, "resumed-from:suspended:v1", componentAt(t, sys, "a").Value)
}

func TestMissingDependency(t *testing.T) {
	cfg := map[string]any{
		"a": system.Com(kindK, map[string]any{"r": system.NewRef("missing")}),
	}
	reg := newRegistry(kindK)
	rt := system.NewRuntime(nil)

	called := false
	reg.Register(kindK, system.HandlerSet{Init: func(_ context.Context, _ *system.Node) (any, error) {
		called = true
		return nil, nil
	}})

	_, err := system.Init(context.Background(), rt, reg, cfg)
	require.Error(t, err)
	var md system.MissingDependency
	require.True(t, errorAs(err, &md))
	assert.False(t, called)
}

func TestCyclicDependency(t *testing.T) {
	cfg := map[string]any{
		"a": system.Com(kindK, map[string]any{"r": system.NewRef("b")}),
		"b": system.Com(kindK, map[string]any{"r": system.NewRef("a")}),
	}
	reg := newRegistry(kindK)
	rt := system.NewRuntime(nil)

	_, err := system.Init(context.Background(), rt, reg, cfg)
	require.Error(t, err)
	var cyc system.CyclicDependency
	require.True(t, errorAs(err, &cyc))
}

func TestIdempotenceUnderNoOp(t *testing.T) {
	cfg := map[string]any{"a": system.Com(kindK, map[string]any{})}
	reg := newRegistry(kindK)
	rt := system.NewRuntime(nil)

	sys, err := system.Init(context.Background(), rt, reg, cfg)
	require.NoError(t, err)

	sys2, err := system.Init(context.Background(), rt, reg, mustRoot(sys))
	require.NoError(t, err)
	assert.Equal(t, componentAt(t, sys, "a").Status, componentAt(t, sys2, "a").Status)
}

func TestRoundTripHalt(t *testing.T) {
	cfg := map[string]any{
		"a": system.Com(kindK, map[string]any{}),
		"b": system.Com(kindK, map[string]any{"r": system.NewRef("a")}),
	}
	reg := newRegistry(kindK)
	rt := system.NewRuntime(nil)

	sys, err := system.Init(context.Background(), rt, reg, cfg)
	require.NoError(t, err)

	sys, err = system.Halt(context.Background(), rt, reg, sys)
	require.NoError(t, err)

	assert.Equal(t, system.StatusHalt, componentAt(t, sys, "a").Status)
	assert.Equal(t, system.StatusHalt, componentAt(t, sys, "b").Status)
}

// --- helpers ---

func componentAt(t *testing.T, sys *system.System, key string) system.Component {
	t.Helper()
	v, ok := system.Lookup(sys, system.Path{key})
	require.True(t, ok, "no value at %q", key)
	comp, ok := v.(*system.Component)
	require.True(t, ok, "value at %q is not a component", key)
	return *comp
}

func mustRoot(sys *system.System) any {
	return system.Root(sys)
}

func errorAs(err error, target any) bool {
	return errors.As(err, target)
}
