package restrec

import (
	"errors"
	"fmt"
)

// ErrNoConnection is returned when a record or query has no connection to
// operate through. Bind one on the Type or override it per record.
var ErrNoConnection = errors.New("restrec: no connection bound")

// CancelledError is returned by Save when a vetoable lifecycle handler
// returned false. The operation was cancelled before any network call.
type CancelledError struct {
	Type  string
	Event Event
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("restrec: %s %s cancelled by hook", e.Type, e.Event)
}

// UnknownTypeError is returned when resolving a type name that was never
// defined in the registry.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("restrec: cannot construct type %q: not defined", e.Name)
}

// UnknownRelationError is returned by Load for a relation name the type does
// not declare.
type UnknownRelationError struct {
	Type     string
	Relation string
}

func (e *UnknownRelationError) Error() string {
	return fmt.Sprintf("restrec: unknown relation %q on type %q", e.Relation, e.Type)
}
