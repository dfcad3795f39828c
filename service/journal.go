package service

import (
	"context"
	"errors"
)

// journal records how to undo each completed write of an operation running
// without a storage transaction. A nil journal records nothing.
type journal struct {
	undo []func(context.Context) error
}

func (j *journal) record(fn func(context.Context) error) {
	if j == nil {
		return
	}
	j.undo = append(j.undo, fn)
}

// rollback runs every recorded undo step, newest first, and keeps going past
// failures so that as much as possible is reverted.
func (j *journal) rollback(ctx context.Context) error {
	if j == nil {
		return nil
	}
	var errs []error
	for i := len(j.undo) - 1; i >= 0; i-- {
		if err := j.undo[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	j.undo = nil
	return errors.Join(errs...)
}
