package core

import (
	"fmt"
	"strings"
)

// DecodeError is returned when no encoding candidate could decode a file.
// It wraps the failure of the last candidate tried.
type DecodeError struct {
	Path  string
	Tried []string // candidate names, in the order tried
	Guess string   // detected charset hint, empty when unknown
	Err   error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("encoding error: %s could not be decoded as any of [%s]",
		e.Path, strings.Join(e.Tried, ", "))
	if e.Guess != "" {
		msg += fmt.Sprintf(" (looks like %s)", e.Guess)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// SourceReadError is returned when a file matched for merging cannot be read
// or parsed. The whole merge is aborted.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("source read failed: %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error {
	return e.Err
}

// WriteError is returned when the merged output cannot be persisted.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("output write failed: %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
