package system

import (
	"fmt"

	"github.com/gruntwork-io/go-commons/errors"
)

// InvalidConfig means a map or sequence in the configuration tree does
// not describe a well-formed Component or Ref literal.
type InvalidConfig struct {
	Path Path
	Reason string
}

func (e InvalidConfig) Error() string {
	return fmt.Sprintf("invalid config at %q: %s", e.Path, e.Reason)
}

// MissingDependency means a Ref inside a Component's config could not
// be resolved to any existing path by walking up the lexical scope.
type MissingDependency struct {
	From Path
	Ref Path
}

func (e MissingDependency) Error() string {
	return fmt.Sprintf("component %q references %q, which does not resolve to any component in scope", e.From, e.Ref)
}

// CyclicDependency means the dependency graph built from the
// configuration tree contains a cycle.
type CyclicDependency struct {
	Cycle []Path
}

func (e CyclicDependency) Error() string {
	names := make([]string, len(e.Cycle))
	for i, p := range e.Cycle {
		names[i] = p.String()
	}
	return fmt.Sprintf("cyclic dependency: %v", names)
}

// UnknownComponent means a target path passed to a lifecycle call does
// not name a node in the graph.
type UnknownComponent struct {
	Path Path
}

func (e UnknownComponent) Error() string {
	return fmt.Sprintf("unknown component: %q", e.Path)
}

// Direction names which side of the graph a neighbor-status
// precondition inspects.
type Direction string

const (
	Dependencies Direction = "dependencies"
	Dependents Direction = "dependents"
)

// WrongNeighborStatus means a transition's required-neighbor-status
// precondition was violated: a dependency or dependent was
// not in one of the statuses the transition requires.
type WrongNeighborStatus struct {
	Path Path
	Direction Direction
	Neighbor Path
	Status Status
	Required []Status
}

func (e WrongNeighborStatus) Error() string {
	return fmt.Sprintf(
		"%s: %s %q has status %q, but %q requires one of %v",
		e.Path, e.Direction, e.Neighbor, e.Status, e.Direction, e.Required,
	)
}

// ActionException wraps any error raised by a handler. Cause carries a
// stack trace via github.com/gruntwork-io/go-commons/errors so the
// exception-handler hook can log the original failure site.
type ActionException struct {
	Action Transition
	Path Path
	Cause error
}

func (e ActionException) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Action, e.Path, e.Cause)
}

func (e ActionException) Unwrap() error {
	return e.Cause
}

func newActionException(action Transition, path Path, cause error) ActionException {
	return ActionException{Action: action, Path: path, Cause: errors.WithStackTrace(cause)}
}

// MissingHandler is a fatal configuration error: a Kind was referenced
// by a component but has no registered init-node operation.
type MissingHandler struct {
	Kind Kind
}

func (e MissingHandler) Error() string {
	return fmt.Sprintf("no handler registered for kind %q", e.Kind)
}
