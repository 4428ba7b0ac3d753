package system

// getRefs returns, in first-seen order, every distinct Ref key-sequence
// found anywhere inside v — descending into maps and slices, but never
// into a nested *Component's own config, since a nested Component owns
// its own references.
func getRefs(v any) []Path {
	var out []Path
	seen := map[string]bool{}
	var walk func(any)
	walk = func(v any) {
		switch val := v.(type) {
		case Ref:
			key := val.Keys.String()
			if !seen[key] {
				seen[key] = true
				out = append(out, val.Keys)
			}
		case *Component:
			// nested Components own their own refs
		case map[string]any:
			for _, vv := range val {
				walk(vv)
			}
		case []any:
			for _, vv := range val {
				walk(vv)
			}
		}
	}
	walk(v)
	return out
}

// resolveRef implements the lexical-scoping rule: starting
// from the referencing Component's own Path, try scope++ref, then
// strip the last element of scope and retry, until something resolves
// or scope is exhausted.
func resolveRef(sys *System, from Path, ref Path) (Path, error) {
	scope := append(Path{}, from...)
	for {
		candidate := scope.Append(ref...)
		if _, ok := sys.valueAt(candidate); ok {
			return candidate, nil
		}
		if len(scope) == 0 {
			return nil, MissingDependency{From: from, Ref: ref}
		}
		scope = scope[:len(scope)-1]
	}
}

// dependenciesUnder computes the set of Component Paths
// reachable under a resolved target base D.
//
// Option (a) from the reference-resolution design question is reproduced exactly: any
// namespaced key found under a map is treated as naming a Component
// location without verifying that it actually resolves to one. When it
// doesn't — the value there is neither a *Component nor a further map
// to recurse into — it contributes no dependency rather than erroring;
// this keeps MissingDependency reserved for refs that don't resolve to
// any path at all , while still reproducing the original's
// shortcut for the case that does resolve.
func dependenciesUnder(sys *System, base Path) []Path {
	v, ok := sys.valueAt(base)
	if !ok {
		return nil
	}

	switch val := v.(type) {
	case *Component:
		return []Path{base}
	case map[string]any:
		var out []Path
		for k, child := range val {
			if !namespaced(k) {
				continue
			}
			childPath := base.Child(k)
			switch child.(type) {
			case *Component:
				out = append(out, childPath)
			case map[string]any:
				out = append(out, dependenciesUnder(sys, childPath)...)
			default:
				// doesn't resolve to a component; skip per the
				// note above.
			}
		}
		return out
	default:
		return nil
	}
}
