package types

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every component. Callers match them with
// errors.Is; concrete errors wrap them with context.
var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidRange    = errors.New("invalid range")
	ErrSyntax          = errors.New("syntax error")
	ErrSearch          = errors.New("search error")
	ErrIO              = errors.New("io error")
	ErrOperationFailed = errors.New("operation failed")
	ErrReadOnly        = errors.New("editor is read-only")
)

// PositionError reports a position that does not exist in the document.
type PositionError struct {
	Pos       Position
	LineCount int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("invalid position %s (document has %d lines)", e.Pos, e.LineCount)
}

func (e *PositionError) Unwrap() error { return ErrInvalidPosition }

// RangeError reports a range that is inverted, out of bounds or overlaps
// another edit in the same batch. Cause, when set, is the error of the
// offending end position and is matched by errors.Is as well.
type RangeError struct {
	Range  Range
	Reason string
	Cause  error
}

func (e *RangeError) Error() string {
	reason := e.Reason
	if reason == "" && e.Cause != nil {
		reason = e.Cause.Error()
	}
	return fmt.Sprintf("invalid range %s: %s", e.Range, reason)
}

func (e *RangeError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrInvalidRange}
	}
	return []error{ErrInvalidRange, e.Cause}
}
