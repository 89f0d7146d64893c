package faults

import "errors"

type ErrorCategory string

const (
	ValidationError ErrorCategory = "ValidationError"
	NotFoundError   ErrorCategory = "NotFoundError"
	ConflictError   ErrorCategory = "ConflictError"
	AuthError       ErrorCategory = "AuthError"
	TransportError  ErrorCategory = "TransportError"
	InternalError   ErrorCategory = "InternalError"

	MalformedInputError      ErrorCategory = "MalformedInputError"
	InvalidPathError         ErrorCategory = "InvalidPathError"
	InvalidRelationshipError ErrorCategory = "InvalidRelationshipError"
	InvalidClassError        ErrorCategory = "InvalidClassError"
	CastError                ErrorCategory = "CastError"
	InvalidCollectionError   ErrorCategory = "InvalidCollectionError"
	InvalidEventError        ErrorCategory = "InvalidEventError"
)

type TypedError struct {
	Category ErrorCategory
	Message  string
	Cause    error
}

func (e *TypedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Category)
}

func (e *TypedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewTypedError(category ErrorCategory, message string, cause error) *TypedError {
	return &TypedError{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

func IsCategory(err error, category ErrorCategory) bool {
	if err == nil {
		return false
	}

	var typedErr *TypedError
	if !errors.As(err, &typedErr) {
		return false
	}
	return typedErr.Category == category
}

// CategoryOf returns the category of the first typed error in the chain.
func CategoryOf(err error) (ErrorCategory, bool) {
	var typedErr *TypedError
	if err == nil || !errors.As(err, &typedErr) {
		return "", false
	}
	return typedErr.Category, true
}

// IsDomainError reports whether err belongs to a local, non-retryable data error
// category raised by the resource model.
func IsDomainError(err error) bool {
	category, ok := CategoryOf(err)
	if !ok {
		return false
	}
	switch category {
	case MalformedInputError, InvalidPathError, InvalidRelationshipError,
		InvalidClassError, CastError, InvalidCollectionError, InvalidEventError:
		return true
	default:
		return false
	}
}
