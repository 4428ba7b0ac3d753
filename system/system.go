package system

// System is the expanded configuration tree plus its sidecar
// dependency Graph. The Graph has exactly one node per
// Component in Root.
type System struct {
	Root any
	Graph *Graph
}

// Lookup resolves a Path against sys's current tree. It is the public
// counterpart of valueAt, exposed so a caller (or a test) can inspect a
// Component's current Status/Value without reaching into System.Root
// directly.
func Lookup(sys *System, p Path) (any, bool) {
	return sys.valueAt(p)
}

// Root returns the System's expanded tree, suitable for passing back
// into Expand/Init (e.g. to round-trip a system through a second
// lifecycle call on its own output).
func Root(sys *System) any {
	return sys.Root
}

// valueAt walks Root following p, descending into map[string]any by
// key and into []any by integer index. It reports ok=false if any
// step of the path does not resolve to a value.
func (s *System) valueAt(p Path) (any, bool) {
	var cur any = s.Root
	for _, key := range p {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = v
		case *Component:
			v, ok := node.Config[key]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := sliceIndex(key, len(node))
			if err != nil {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// componentAt returns the *Component at p, if any.
func (s *System) componentAt(p Path) (*Component, bool) {
	v, ok := s.valueAt(p)
	if !ok {
		return nil, false
	}
	return asComponent(v)
}

// allComponents walks the whole tree (descending through maps and
// Component configs, but not into slices) and returns every
// Component's Path. The order is
// deterministic only up to map-iteration order at each level; callers
// that need a stable order should sort the result.
func (s *System) allComponents() []Path {
	var out []Path
	var walk func(v any, p Path)
	walk = func(v any, p Path) {
		switch node := v.(type) {
		case *Component:
			out = append(out, p)
			// A Component's own config can nest further
			// components; they get their own Path under this
			// one, same as any other map.
			walk(node.Config, p)
		case map[string]any:
			for k, vv := range node {
				walk(vv, p.Child(k))
			}
		case []any:
			// Components cannot be addressed inside a sequence
			// ( flatten only descends maps), so there
			// is nothing further to collect here.
			_ = node
		}
	}
	walk(s.Root, Path{})
	return out
}

func sliceIndex(key string, length int) (int, error) {
	idx := 0
	for _, r := range key {
		if r < '0' || r > '9' {
			return 0, InvalidConfig{Reason: "not a sequence index: " + key}
		}
		idx = idx*10 + int(r-'0')
	}
	if idx < 0 || idx >= length {
		return 0, InvalidConfig{Reason: "sequence index out of range: " + key}
	}
	return idx, nil
}
