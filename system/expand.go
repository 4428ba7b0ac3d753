package system

import "dario.cat/mergo"

// ComCall is the in-memory equivalent of the configuration surface's
// constructor-call literal: com(kind), com(kind, config) or
// com(kind, config, extra). Author trees with Com / the
// raw map[string]any shorthand (see expandMapEntries).
type ComCall struct {
	Kind Kind
	Config map[string]any
	Extra map[string]any
}

// Com builds a ComCall. kind may be empty, in which case the
// component defaults to IdentityKind (the com(config-map) arity).
// extra, if non-nil, is merged into config with extra taking
// precedence (the com(kind, config, extra) arity, ).
func Com(kind Kind, config map[string]any, extra...map[string]any) ComCall {
	cc := ComCall{Kind: kind, Config: config}
	if len(extra) > 0 {
		cc.Extra = extra[0]
	}
	return cc
}

// Expand normalizes a raw configuration value into a System: it
// rewrites ComCall literals and auto-wrap candidates into *Component
// nodes, and leaves Ref markers untouched for the reference resolver.
// This is the only expansion pass — Halt/Suspend/Resume
// operate on the System it produces, never re-expanding.
func Expand(root any) (*System, error) {
	expanded, err := expandValue(root)
	if err != nil {
		return nil, err
	}
	return &System{Root: expanded}, nil
}

func expandValue(v any) (any, error) {
	switch val := v.(type) {
	case ComCall:
		return expandComCall(val)
	case Ref:
		return val, nil
	case map[string]any:
		return expandMap(val)
	case []any:
		return expandSlice(val)
	default:
		return v, nil
	}
}

func expandMap(m map[string]any) (any, error) {
	if isComponentLiteral(m) {
		kind, _ := m["kind"].(string)
		cfg, _ := m["config"].(map[string]any)
		extra, _ := m["extra"].(map[string]any)
		return expandComCall(ComCall{Kind: Kind(kind), Config: cfg, Extra: extra})
	}
	return expandMapEntries(m)
}

// expandMapEntries walks a plain (non-component) map's entries,
// applying the auto-wrap rule: a namespaced key whose value is a
// plain map not already tagged as a Component is rewritten as a
// Component of that Kind.
func expandMapEntries(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if namespaced(k) {
			if raw, ok := v.(map[string]any); ok && !isComponentLiteral(raw) {
				comp, err := expandComCall(ComCall{Kind: Kind(k), Config: raw})
				if err != nil {
					return nil, err
				}
				out[k] = comp
				continue
			}
		}
		ev, err := expandValue(v)
		if err != nil {
			return nil, err
		}
		out[k] = ev
	}
	return out, nil
}

func expandSlice(s []any) ([]any, error) {
	out := make([]any, len(s))
	for i, v := range s {
		ev, err := expandValue(v)
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return out, nil
}

func expandComCall(cc ComCall) (*Component, error) {
	kind := cc.Kind
	if kind == "" {
		kind = IdentityKind
	}

	cfg := map[string]any{}
	for k, v := range cc.Config {
		cfg[k] = v
	}

	if cc.Extra != nil {
		if err := mergo.Merge(&cfg, cc.Extra, mergo.WithOverride); err != nil {
			return nil, InvalidConfig{Reason: "merging extra config: " + err.Error()}
		}
	}

	expandedCfg, err := expandMapEntries(cfg)
	if err != nil {
		return nil, err
	}

	return &Component{Kind: kind, Config: expandedCfg, Status: StatusAbsent}, nil
}

func isComponentLiteral(m map[string]any) bool {
	_, hasKind := m["kind"]
	_, hasConfig := m["config"]
	_, hasExtra := m["extra"]
	return hasKind || hasConfig || hasExtra
}
