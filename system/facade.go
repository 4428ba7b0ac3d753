package system

import "context"

// Init expands config, builds its dependency graph, derives the
// forward (dependency) closure of targets, topologically orders it,
// and runs the init transition. An empty targets list
// means the whole system.
func Init(ctx context.Context, rt *Runtime, reg *Registry, config any, targets...Path) (*System, error) {
	sys, err := Expand(config)
	if err != nil {
		return nil, err
	}
	graph, err := BuildGraph(sys)
	if err != nil {
		return nil, err
	}
	sys.Graph = graph

	order, err := schedule(graph, targets, Dependencies)
	if err != nil {
		return sys, err
	}
	return runAction(ctx, rt, reg, sys, order, TransitionInit)
}

// Halt reverse topo-sorts the given targets (no automatic dependents
// expansion — see scheduler.go) and runs the halt transition.
func Halt(ctx context.Context, rt *Runtime, reg *Registry, sys *System, targets...Path) (*System, error) {
	order, err := schedule(sys.Graph, targets, Dependents)
	if err != nil {
		return sys, err
	}
	return runAction(ctx, rt, reg, sys, order, TransitionHalt)
}

// Suspend reverse topo-sorts the given targets and runs the suspend
// transition.
func Suspend(ctx context.Context, rt *Runtime, reg *Registry, sys *System, targets...Path) (*System, error) {
	order, err := schedule(sys.Graph, targets, Dependents)
	if err != nil {
		return sys, err
	}
	return runAction(ctx, rt, reg, sys, order, TransitionSuspend)
}

// Resume forward topo-sorts the dependency closure of the given
// targets and runs the resume transition.
func Resume(ctx context.Context, rt *Runtime, reg *Registry, sys *System, targets...Path) (*System, error) {
	order, err := schedule(sys.Graph, targets, Dependencies)
	if err != nil {
		return sys, err
	}
	return runAction(ctx, rt, reg, sys, order, TransitionResume)
}

// ResumeOrInit is like Resume, but for each path it runs resume then
// init back-to-back: the can-run gate ensures only the one actually
// applicable to that path's current status fires — a
// previously-suspended component resumes, a never-started one
// initializes.
func ResumeOrInit(ctx context.Context, rt *Runtime, reg *Registry, sys *System, targets...Path) (*System, error) {
	order, err := schedule(sys.Graph, targets, Dependencies)
	if err != nil {
		return sys, err
	}
	for _, p := range order {
		if sys, err = runOnePath(ctx, rt, reg, sys, p, TransitionResume); err != nil {
			return sys, err
		}
		if sys, err = runOnePath(ctx, rt, reg, sys, p, TransitionInit); err != nil {
			return sys, err
		}
	}
	return sys, nil
}
