package service

import (
	"errors"
	"fmt"

	"github.com/faizan/catalog/repository"
)

// ErrEmptyPopulation is returned by the featured selector when no artist exists.
var ErrEmptyPopulation = errors.New("no artists available")

// ValidationError reports malformed or missing input. Nothing has been written.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// NotFoundError names the referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return repository.ErrNotFound }

// ConsistencyError reports a multi-row write that failed after it started.
// RollbackErr is set when undoing the partial write failed as well; the
// stored data may then be inconsistent.
type ConsistencyError struct {
	Op          string
	Err         error
	RollbackErr error
}

func (e *ConsistencyError) Error() string {
	if e.RollbackErr != nil {
		return fmt.Sprintf("%s: %v; rollback failed: %v", e.Op, e.Err, e.RollbackErr)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConsistencyError) Unwrap() []error {
	if e.RollbackErr != nil {
		return []error{e.Err, e.RollbackErr}
	}
	return []error{e.Err}
}

// Irrecoverable reports whether the rollback itself failed.
func (e *ConsistencyError) Irrecoverable() bool {
	return e.RollbackErr != nil
}
