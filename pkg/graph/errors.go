package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrBuilderFinalized = errors.New("builder already finalized")
	ErrVertexOutOfRange = errors.New("vertex id out of range")
)

// GraphError provides structured error information for builder and graph operations.
type GraphError struct {
	Op     string // Operation that failed (e.g., "AddEdge", "Finalize")
	Key    string // Vertex key (if applicable)
	Vertex int    // Vertex id, -1 when not applicable
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.Vertex >= 0 {
		return fmt.Sprintf("%s vertex %d: %v", e.Op, e.Vertex, e.Cause)
	}
	if e.Key != "" {
		return fmt.Sprintf("%s key %q: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func finalizedError(op, key string) error {
	return &GraphError{Op: op, Key: key, Vertex: -1, Cause: ErrBuilderFinalized}
}

func outOfRangeError(op string, v int) error {
	return &GraphError{Op: op, Vertex: v, Cause: ErrVertexOutOfRange}
}
