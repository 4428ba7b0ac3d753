package system

import "strings"

// Path is an ordered sequence of keys locating a Component in the tree.
// The empty Path is the root; a one-element Path is a top-level
// Component.
type Path []string

// Child returns a new Path with key appended. Path is never mutated in
// place so callers can safely share a prefix across siblings.
func (p Path) Child(key string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = key
	return out
}

// Append returns a new Path with the given keys appended.
func (p Path) Append(keys ...string) Path {
	out := make(Path, len(p)+len(keys))
	copy(out, p)
	copy(out[len(p):], keys)
	return out
}

// String renders the canonical, order-preserving form of the Path used
// as the dependency graph's vertex identity.
func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	return strings.Join(p, "/")
}

// Equal reports whether p and other name the same location.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Kind is a namespaced symbolic identifier, e.g. "svc/http-server", used
// to dispatch to a registered HandlerSet.
type Kind string

// IdentityKind is the built-in Kind whose init transition returns the
// component's own (transient-field-stripped) config, making inert data
// composable as a component whenever that's convenient.
const IdentityKind Kind = "system/identity"

// namespaced reports whether s looks like "namespace/name", the shape
// used to recognize a map key as a Component location and an auto-wrap
// candidate.
func namespaced(s string) bool {
	slash := strings.IndexByte(s, '/')
	return slash > 0 && slash < len(s)-1
}

// Status is a Component's lifecycle state. The zero value, StatusAbsent,
// means the Component has never been transitioned.
type Status string

const (
	StatusAbsent  Status = ""
	StatusInit    Status = "init"
	StatusHalt    Status = "halt"
	StatusSuspend Status = "suspend"
	StatusResume  Status = "resume"
)

// Transition is one of the four public lifecycle operations. It also
// names the target Status a successful run leaves a Component in,
// except for Halt which leaves status halt regardless of its own label.
type Transition string

const (
	TransitionInit    Transition = "init"
	TransitionHalt    Transition = "halt"
	TransitionSuspend Transition = "suspend"
	TransitionResume  Transition = "resume"
)

// Ref is a lexically-scoped symbolic pointer to another location in the
// tree: "the value of the component found by resolving this
// key-sequence against the current scope".
type Ref struct {
	Keys Path
}

// NewRef builds a Ref from one or more keys.
func NewRef(keys ...string) Ref {
	return Ref{Keys: Path(keys)}
}

// Component is a record embedded in the tree. Transient is populated
// only for the duration of a transition call and is never persisted
// between calls.
type Component struct {
	Kind   Kind
	Config map[string]any
	Status Status
	Value  any

	// Transient is set only while a handler runs; it carries the two
	// call-scoped fields: the full system tree and this component's
	// own path.
	Transient *TransientFields
}

// TransientFields are the two fields present on a Component only during
// a transition call: the enclosing System and the Component's own
// Path.
type TransientFields struct {
	System *System
	Path   Path
}

// clone returns a shallow copy of c suitable for storing back into the
// tree after a transition; Config is not deep-copied since the engine
// never mutates it in place (resolution produces a new map).
func (c Component) clone() Component {
	return c
}

// asComponent reports whether v is a Component value (expansion always
// stores *Component in the tree so pointer identity is stable across
// lookups within a single System).
func asComponent(v any) (*Component, bool) {
	c, ok := v.(*Component)
	return c, ok
}
