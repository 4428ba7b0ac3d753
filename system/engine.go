package system

import "context"

// canRunOnStatus is the can-run-on-status table:
// a transition is only attempted if the Component's current Status is
// in this set; otherwise it is a silent skip.
var canRunOnStatus = map[Transition]map[Status]bool{
	TransitionInit: {StatusAbsent: true, StatusHalt: true},
	TransitionHalt: {StatusInit: true, StatusResume: true, StatusSuspend: true},
	TransitionResume: {StatusSuspend: true},
	TransitionSuspend: {StatusInit: true, StatusResume: true},
}

// all is the ALL sentinel: the required-neighbor-status
// check is disabled when a required set is ALL.
var all = map[Status]bool{}

func statusSet(statuses...Status) map[Status]bool {
	m := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		m[s] = true
	}
	return m
}

// requiredDependencyStatus is the required-dependency-status table:
// neighbors on the dependency side must be in this set (ALL = no
// check).
var requiredDependencyStatus = map[Transition]map[Status]bool{
	TransitionInit: statusSet(StatusInit, StatusResume),
	TransitionResume: statusSet(StatusInit, StatusResume),
	TransitionHalt: all,
	TransitionSuspend: all,
}

// requiredDependentStatus is the required-dependent-status table:
// neighbors on the dependent side must be in this set (ALL = no
// check).
var requiredDependentStatus = map[Transition]map[Status]bool{
	TransitionInit: all,
	TransitionResume: all,
	TransitionHalt: statusSet(StatusHalt, StatusAbsent),
	TransitionSuspend: statusSet(StatusSuspend, StatusHalt, StatusAbsent),
}

// targetStatus is the Status a Component is left in after a successful
// transition ( step 5). Halt always leaves status halt.
func targetStatus(t Transition) Status {
	switch t {
	case TransitionInit:
		return StatusInit
	case TransitionHalt:
		return StatusHalt
	case TransitionSuspend:
		return StatusSuspend
	case TransitionResume:
		return StatusResume
	default:
		return StatusAbsent
	}
}

// neighborDirectionFor reports which side of the graph the
// neighbor-status check inspects: dependencies for forward transitions,
// dependents for reverse transitions.
func neighborDirectionFor(t Transition) Direction {
	switch t {
	case TransitionInit, TransitionResume:
		return Dependencies
	default:
		return Dependents
	}
}

// runAction implements run-action(system, ordered-paths,
// transition): for each path in order, check can-run, check the live
// neighbor-status precondition, resolve refs, invoke the handler, and
// splice the result back into the tree.
func runAction(ctx context.Context, rt *Runtime, reg *Registry, sys *System, order []Path, transition Transition) (*System, error) {
	for _, p := range order {
		if sys2, err := runOnePath(ctx, rt, reg, sys, p, transition); err != nil {
			return sys2, err
		}
	}
	return sys, nil
}

// runOnePath is the body of run-action loop for a single
// path: can-run check, neighbor-status check, reference resolution,
// handler invocation, status/value update. It is shared by runAction
// (one transition over an ordered path list) and ResumeOrInit (two
// transitions, resume then init, over the same path).
func runOnePath(ctx context.Context, rt *Runtime, reg *Registry, sys *System, p Path, transition Transition) (*System, error) {
	comp, ok := sys.componentAt(p)
	if !ok {
		return sys, nil
	}

	if !canRunOnStatus[transition][comp.Status] {
		rt.tracef("skip %s %s: status %q not eligible", transition, p, comp.Status)
		return sys, nil
	}

	if err := checkNeighborStatus(rt, sys, p, transition); err != nil {
		wrapped := newActionException(transition, p, err)
		return rt.handleException(sys, wrapped), wrapped
	}

	hs, err := reg.Lookup(comp.Kind)
	if err != nil {
		wrapped := newActionException(transition, p, err)
		return rt.handleException(sys, wrapped), wrapped
	}
	op := hs.operationFor(transition)

	resolvedCfg, err := resolveConfig(sys, p, comp.Config)
	if err != nil {
		wrapped := newActionException(transition, p, err)
		return rt.handleException(sys, wrapped), wrapped
	}

	cfgMap, _ := resolvedCfg.(map[string]any)
	node := &Node{Kind: comp.Kind, Path: p, Config: cfgMap, System: sys, Current: *comp}
	comp.Transient = &TransientFields{System: sys, Path: p}

	rt.tracef("run %s %s", transition, p)
	value, err := op(ctx, node)
	comp.Transient = nil
	if err != nil {
		wrapped := newActionException(transition, p, err)
		return rt.handleException(sys, wrapped), wrapped
	}

	comp.Value = value
	comp.Status = targetStatus(transition)
	return sys, nil
}

// checkNeighborStatus implements step 2 against the live,
// progressively-updated system: it always recomputes the neighbor set
// from the graph rather than trusting the scheduled order, since the
// scheduler for reverse transitions does not auto-include dependents
// (see scheduler.go).
func checkNeighborStatus(rt *Runtime, sys *System, p Path, transition Transition) error {
	dir := neighborDirectionFor(transition)
	required := requiredDependencyStatus[transition]
	if dir == Dependents {
		required = requiredDependentStatus[transition]
	}
	if len(required) == 0 {
		return nil // ALL: no check
	}

	adj := sys.Graph.forward
	if dir == Dependents {
		adj = sys.Graph.backward
	}

	neighbors := closure(adj, []string{p.String()})
	delete(neighbors, p.String())

	for n := range neighbors {
		neighborPath := pathFromString(n)
		comp, ok := sys.componentAt(neighborPath)
		if !ok {
			continue
		}
		if !required[comp.Status] {
			req := make([]Status, 0, len(required))
			for s := range required {
				req = append(req, s)
			}
			return WrongNeighborStatus{
				Path: p, Direction: dir, Neighbor: neighborPath,
				Status: comp.Status, Required: req,
			}
		}
	}
	return nil
}

// resolveConfig implements step 3: every Ref inside cfg is
// substituted by the current Value of its resolved target; nested
// Components are substituted by their own Value.
func resolveConfig(sys *System, from Path, v any) (any, error) {
	switch val := v.(type) {
	case Ref:
		target, err := resolveRef(sys, from, val.Keys)
		if err != nil {
			return nil, err
		}
		comp, ok := sys.componentAt(target)
		if !ok {
			// target is a plain value (not itself a Component);
			// substitute the raw value.
			raw, _ := sys.valueAt(target)
			return raw, nil
		}
		return comp.Value, nil
	case *Component:
		return val.Value, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, vv := range val {
			rv, err := resolveConfig(sys, from, vv)
			if err != nil {
				return nil, err
			}
			out[k] = rv
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, vv := range val {
			rv, err := resolveConfig(sys, from, vv)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	default:
		return v, nil
	}
}
