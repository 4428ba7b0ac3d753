package system

import "sort"

// schedule computes the run order: given a Graph, a set of target Paths
// and a Direction, produce an ordered traversal.
//
// Resolution of a tension between the prose description ("reverse topo-sort
// dependents closure") and the worked examples S2/S3: for reverse
// transitions (halt, suspend) the *run set* is exactly the given
// targets, reverse-topologically ordered among themselves — dependents
// are not auto-scheduled, only consulted live by the engine's
// required-dependent-status check (see engine.go). Auto-including
// dependents in the run set would make S2 (halt(sys,[:a]) must fail
// because :b,:c are still running) succeed instead, since the
// dependents would get halted earlier in the same call. Forward
// transitions (init, resume) DO pull in the dependency closure, since
// those dependencies must actually produce values for the target's
// refs to resolve (S1). See DESIGN.md.
func schedule(g *Graph, targets []Path, direction Direction) ([]Path, error) {
	if len(targets) == 0 {
		order := topoSort(g, g.nodes)
		if direction == Dependents {
			reverseInPlace(order)
		}
		return stringsToPaths(order), nil
	}

	targetStrs := make([]string, len(targets))
	for i, t := range targets {
		s := t.String()
		if !g.hasNode(s) {
			return nil, UnknownComponent{Path: t}
		}
		targetStrs[i] = s
	}

	var set map[string]bool
	if direction == Dependencies {
		set = closure(g.forward, targetStrs)
	} else {
		set = map[string]bool{}
		for _, t := range targetStrs {
			set[t] = true
		}
	}

	subset := make([]string, 0, len(set))
	for n := range set {
		subset = append(subset, n)
	}

	order := topoSort(g, subset)
	if direction == Dependents {
		reverseInPlace(order)
	}
	return stringsToPaths(order), nil
}

// closure returns targets plus every node transitively reachable from
// them by following adj (forward adjacency for dependencies-of,
// backward adjacency for dependents-of).
func closure(adj map[string]map[string]bool, targets []string) map[string]bool {
	set := map[string]bool{}
	var visit func(n string)
	visit = func(n string) {
		if set[n] {
			return
		}
		set[n] = true
		for next := range adj[n] {
			if next == rootVertex {
				continue
			}
			visit(next)
		}
	}
	for _, t := range targets {
		visit(t)
	}
	return set
}

// topoSort performs a deterministic Kahn's-algorithm sort of subset so
// that, for any A, B in subset where A depends on B, B precedes A.
// ROOT is excluded from both the input and the output; it exists only
// to make BuildGraph's per-component edge set non-empty.
func topoSort(g *Graph, subset []string) []string {
	include := map[string]bool{}
	for _, n := range subset {
		if n != rootVertex {
			include[n] = true
		}
	}

	indegree := map[string]int{}
	for n := range include {
		indegree[n] = 0
	}
	for n := range include {
		for dep := range g.forward[n] {
			if include[dep] {
				indegree[n]++
			}
		}
	}

	var ready []string
	for n := range include {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}
	sort.Strings(ready)

	var out []string
	for len(ready) > 0 {
		sort.Strings(ready)
		n := ready[0]
		ready = ready[1:]
		out = append(out, n)
		delete(include, n)

		for m := range include {
			if g.forward[m][n] {
				indegree[m]--
				if indegree[m] == 0 {
					ready = append(ready, m)
				}
			}
		}
	}

	return out
}

func reverseInPlace(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func stringsToPaths(ss []string) []Path {
	out := make([]Path, len(ss))
	for i, s := range ss {
		out[i] = pathFromString(s)
	}
	return out
}
