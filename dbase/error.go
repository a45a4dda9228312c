package dbase

import (
	"errors"
	"fmt"
	"strings"
)

// Error wraps an error with the trail of places it passed through,
// e.g. "dbase-reader-next-1". The trail is outermost first.
type Error struct {
	context []string
	err     error
}

func newError(context string, err error) Error {
	if inner, ok := err.(Error); ok {
		return Error{
			context: append([]string{context}, inner.context...),
			err:     inner.err,
		}
	}
	return Error{
		context: []string{context},
		err:     err,
	}
}

func (e Error) Error() string {
	return e.err.Error()
}

func (e Error) Unwrap() error {
	return e.err
}

// Context returns the trail of the error, outermost first.
func (e Error) Context() []string {
	return e.context
}

func (e Error) trace() string {
	return strings.Join(append(append([]string{}, e.context...), e.err.Error()), ":")
}

// GetErrorTrace returns the error prefixed with its context trail.
func GetErrorTrace(err error) error {
	var e Error
	if errors.As(err, &e) {
		return errors.New(e.trace())
	}
	return err
}

// FieldError reports a failure to decode or encode a single field.
type FieldError struct {
	Column string
	Type   DataType
	Err    error
}

func newFieldError(column *Column, err error) *FieldError {
	return &FieldError{Column: column.Name(), Type: column.Type(), Err: err}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("column %s (%s): %v", e.Column, e.Type, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
