package system

import "context"

// Node is what a handler receives: the Component's config with every
// Ref already substituted by its target's current value, plus the
// two call-scoped transient fields.
type Node struct {
	Kind Kind
	Path Path
	Config map[string]any
	System *System

	// Current is the Component as it stood before this transition
	// runs; default halt/suspend/resume behavior reads Current.Value.
	Current Component
}

// HandlerOp is one of the four per-Kind lifecycle operations.
type HandlerOp func(ctx context.Context, node *Node) (any, error)

// HandlerSet is the four operations keyed by Kind. Halt, Suspend and
// Resume may be left nil; Lookup fills in the documented defaults.
type HandlerSet struct {
	Init HandlerOp
	Halt HandlerOp
	Suspend HandlerOp
	Resume HandlerOp
}

// withDefaults returns a HandlerSet with the documented default
// wiring applied: halt defaults to identity (returns the existing
// value), suspend defaults to delegating to halt, resume defaults to
// delegating to init.
func (hs HandlerSet) withDefaults() HandlerSet {
	out := hs
	if out.Halt == nil {
		out.Halt = func(_ context.Context, node *Node) (any, error) {
			return node.Current.Value, nil
		}
	}
	if out.Suspend == nil {
		halt := out.Halt
		out.Suspend = halt
	}
	if out.Resume == nil {
		out.Resume = out.Init
	}
	return out
}

// Registry maps a Kind to its HandlerSet. The zero value is not usable;
// use NewRegistry.
type Registry struct {
	sets map[Kind]HandlerSet
}

// NewRegistry builds a Registry with the built-in identity Kind
// pre-registered: its init-node returns the config unchanged (minus
// transient fields, which Node never carries into Config in the first
// place).
func NewRegistry() *Registry {
	r := &Registry{sets: map[Kind]HandlerSet{}}
	r.Register(IdentityKind, HandlerSet{
		Init: func(_ context.Context, node *Node) (any, error) {
			return node.Config, nil
		},
	})
	return r
}

// Register adds or replaces the HandlerSet for kind.
func (r *Registry) Register(kind Kind, hs HandlerSet) {
	r.sets[kind] = hs
}

// Lookup returns the fully-defaulted HandlerSet for kind, or
// MissingHandler if kind has no registered Init operation.
func (r *Registry) Lookup(kind Kind) (HandlerSet, error) {
	hs, ok := r.sets[kind]
	if !ok || hs.Init == nil {
		return HandlerSet{}, MissingHandler{Kind: kind}
	}
	return hs.withDefaults(), nil
}

// operationFor returns the HandlerOp a Transition dispatches to.
func (hs HandlerSet) operationFor(t Transition) HandlerOp {
	switch t {
	case TransitionInit:
		return hs.Init
	case TransitionHalt:
		return hs.Halt
	case TransitionSuspend:
		return hs.Suspend
	case TransitionResume:
		return hs.Resume
	default:
		return nil
	}
}
