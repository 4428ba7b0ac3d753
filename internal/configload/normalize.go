package configload

import "github.com/crimeminister/commix/system"

// normalizeRefs walks a YAML-decoded tree and rewrites every
// {"ref": [...]} or {"ref": key} map into a system.Ref, since YAML has
// no way to spell a Go struct literal directly. Every other shape
// (component literals, auto-wrap candidates, scalars) is left as-is
// for system.Expand to interpret.
func normalizeRefs(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		if keys, ok := refKeys(val); ok {
			return system.NewRef(keys...), nil
		}
		out := make(map[string]any, len(val))
		for k, vv := range val {
			nv, err := normalizeRefs(vv)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, vv := range val {
			nv, err := normalizeRefs(vv)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	default:
		return v, nil
	}
}

// refKeys reports whether m is a {"ref": [...]} or {"ref": key} literal
// and, if so, returns its key sequence. The scalar form is the YAML
// spelling of the single-key ref(key) shorthand.
func refKeys(m map[string]any) ([]string, bool) {
	if len(m) != 1 {
		return nil, false
	}
	raw, ok := m["ref"]
	if !ok {
		return nil, false
	}
	if s, ok := raw.(string); ok {
		return []string{s}, true
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	keys := make([]string, len(seq))
	for i, k := range seq {
		s, ok := k.(string)
		if !ok {
			return nil, false
		}
		keys[i] = s
	}
	return keys, true
}
