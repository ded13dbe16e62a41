package utils

import (
	"errors"
	"fmt"
)

// Service-level error taxonomy. Validation errors live in the validators
// package; everything else the core can fail with is here.
var (
	// ErrNotFound marks an unknown id. Never retried.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict marks a lost assignment race: the conditional write found
	// the booking no longer in its expected status. The caller must re-fetch,
	// not blindly retry.
	ErrConflict = errors.New("booking state conflict")

	// ErrNoMatch is the valid "nothing available" outcome of matching. The
	// booking stays pending for manual intervention.
	ErrNoMatch = errors.New("no suitable transporter available")

	// ErrMatchTimeout is surfaced when a directory read or persistence write
	// exceeds its bounded timeout during matching.
	ErrMatchTimeout = errors.New("matching timed out")

	// ErrInvalidDurationUnit marks an unrecognized recurrence duration unit.
	ErrInvalidDurationUnit = errors.New("invalid duration unit")
)

// DownstreamError wraps a persistence or directory failure. Safe to retry
// with backoff since all core writes are idempotent or conditional.
type DownstreamError struct {
	Op  string
	Err error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("downstream failure during %s: %v", e.Op, e.Err)
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}

// Downstream wraps err as a DownstreamError, passing nil through.
func Downstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DownstreamError{Op: op, Err: err}
}

// IsDownstream reports whether err is (or wraps) a DownstreamError.
func IsDownstream(err error) bool {
	var de *DownstreamError
	return errors.As(err, &de)
}
