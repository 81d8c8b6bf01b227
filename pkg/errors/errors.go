package errors

import "errors"

// ErrOptimisticLock signals that a row was modified by a concurrent
// operation between read and write; the caller should reload and retry.
var ErrOptimisticLock = errors.New("record was modified by another operation, reload and retry")
