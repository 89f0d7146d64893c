package server

import (
	"errors"

	"github.com/crmarques/soldo/faults"
)

// PayloadShapeError marks responses whose JSON shape does not match what the
// calling operation expects, e.g. a list call answered with a bare array.
type PayloadShapeError struct {
	err error
}

func (e *PayloadShapeError) Error() string {
	if e == nil || e.err == nil {
		return "<nil>"
	}
	return e.err.Error()
}

func (e *PayloadShapeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

func NewPayloadShapeError(message string, cause error) error {
	return &PayloadShapeError{
		err: faults.NewTypedError(faults.MalformedInputError, message, cause),
	}
}

func IsPayloadShapeError(err error) bool {
	var target *PayloadShapeError
	return errors.As(err, &target)
}
