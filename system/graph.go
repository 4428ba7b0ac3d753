package system

import (
	"sort"

	"github.com/hashicorp/terraform/dag"
)

// rootVertex is the synthetic ROOT node: every Component gets an edge
// to it so that components with no other outgoing edges still appear
// in topological traversals. Its name can never collide with a Path
// string, since Path.String never contains a NUL byte.
const rootVertex = "\x00ROOT"

// basicEdge is the minimal dag.Edge implementation, the same idiom
// config/config_graph.go uses for wiring its own dag.AcyclicGraph.
type basicEdge struct {
	S, T string
}

func (e basicEdge) Hashcode() any { return e.S + "->" + e.T }
func (e basicEdge) Source() dag.Vertex { return e.S }
func (e basicEdge) Target() dag.Vertex { return e.T }

// Graph is the dependency DAG: one node per Component path, plus the
// synthetic ROOT. Every vertex and edge is mirrored into a
// hashicorp/terraform/dag AcyclicGraph, but cycle detection (findCycle),
// closure and ordering queries all run on a hand-rolled adjacency
// index — the same split config/config_graph.go uses, wrapping
// dag.AcyclicGraph with its own walkBreadthFirst rather than relying on
// the library for traversal.
type Graph struct {
	dag *dag.AcyclicGraph
	forward map[string]map[string]bool // p -> {deps of p}
	backward map[string]map[string]bool // p -> {dependents of p}
	nodes []string // component path strings, insertion order
}

func newGraph() *Graph {
	g := &Graph{
		dag: &dag.AcyclicGraph{},
		forward: map[string]map[string]bool{},
		backward: map[string]map[string]bool{},
	}
	g.dag.Add(rootVertex)
	return g
}

func (g *Graph) addNode(p string) {
	if _, ok := g.forward[p]; ok {
		return
	}
	g.dag.Add(p)
	g.forward[p] = map[string]bool{}
	g.backward[p] = map[string]bool{}
	g.nodes = append(g.nodes, p)
}

func (g *Graph) addEdge(from, to string) {
	if _, ok := g.forward[to]; !ok && to != rootVertex {
		g.addNode(to)
	}
	g.dag.Connect(basicEdge{S: from, T: to})
	g.forward[from][to] = true
	if to != rootVertex {
		g.backward[to][from] = true
	}
}

// hasNode reports whether p names a Component in the graph (i.e. is
// not merely the synthetic ROOT and was added via addNode).
func (g *Graph) hasNode(p string) bool {
	_, ok := g.forward[p]
	return ok
}

// BuildGraph builds the dependency graph: for each Component, collect refs,
// resolve each to a dependency set, add an edge per dependency plus
// one to ROOT, then check for cycles.
func BuildGraph(sys *System) (*Graph, error) {
	g := newGraph()

	paths := sys.allComponents()
	sort.Slice(paths, func(i, j int) bool { return paths[i].String() < paths[j].String() })

	for _, p := range paths {
		g.addNode(p.String())
	}

	for _, p := range paths {
		comp, ok := sys.componentAt(p)
		if !ok {
			continue
		}

		for _, ref := range getRefs(comp.Config) {
			base, err := resolveRef(sys, p, ref)
			if err != nil {
				return nil, err
			}
			for _, dep := range dependenciesUnder(sys, base) {
				g.addEdge(p.String(), dep.String())
			}
		}

		g.addEdge(p.String(), rootVertex)
	}

	// dag.AcyclicGraph.Validate also rejects a graph with more than one
	// vertex lacking incoming edges, which every system with several
	// top-level consumers is, so cycles are found by findCycle instead.
	if cycle := g.findCycle(); cycle != nil {
		return nil, CyclicDependency{Cycle: cycle}
	}

	return g, nil
}

// findCycle runs a plain DFS over the forward adjacency (excluding
// ROOT) and returns the first cycle it finds, or nil if there is none.
func (g *Graph) findCycle() []Path {
	const (
		white = 0
		gray = 1
		black = 2
	)
	color := map[string]int{}
	var stack []string

	var visit func(n string) []Path
	visit = func(n string) []Path {
		color[n] = gray
		stack = append(stack, n)
		for next := range g.forward[n] {
			if next == rootVertex {
				continue
			}
			switch color[next] {
			case white:
				if cyc := visit(next); cyc != nil {
					return cyc
				}
			case gray:
				// found the back-edge; slice the stack from
				// next's first occurrence to build the cycle.
				start := 0
				for i, s := range stack {
					if s == next {
						start = i
						break
					}
				}
				cyc := append([]string{}, stack[start:]...)
				cyc = append(cyc, next)
				out := make([]Path, len(cyc))
				for i, s := range cyc {
					out[i] = pathFromString(s)
				}
				return out
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return nil
	}

	for _, n := range g.nodes {
		if color[n] == white {
			if cyc := visit(n); cyc != nil {
				return cyc
			}
		}
	}
	return nil
}

func pathFromString(s string) Path {
	if s == "." {
		return Path{}
	}
	out := Path{}
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '/' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}
