package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidDefinition signals an invalid index or policy definition.
	ErrInvalidDefinition = errors.New("invalid definition")
	// ErrDuplicateLogicalID signals a logical ID collision within a stack.
	ErrDuplicateLogicalID = errors.New("duplicate logical id")
	// ErrUnknownResource signals a dependency edge to an undeclared resource.
	ErrUnknownResource = errors.New("unknown resource")
	// ErrDependencyCycle signals a cycle in the resource dependency graph.
	ErrDependencyCycle = errors.New("dependency cycle")

	// ErrRevisionConflict signals an optimistic locking conflict.
	ErrRevisionConflict = errors.New("revision conflict")
)

// RevisionConflictError wraps ErrRevisionConflict with the current stack revision.
type RevisionConflictError struct {
	CurrentRevision int
}

func (e *RevisionConflictError) Error() string {
	return fmt.Sprintf("%s: current revision is %d", ErrRevisionConflict.Error(), e.CurrentRevision)
}

func (e *RevisionConflictError) Unwrap() error { return ErrRevisionConflict }

// NewRevisionConflict creates a revision conflict error.
func NewRevisionConflict(currentRevision int) error {
	return &RevisionConflictError{CurrentRevision: currentRevision}
}
