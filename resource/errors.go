package resource

import "github.com/crmarques/soldo/faults"

func malformedInputError(message string, cause error) error {
	return faults.NewTypedError(faults.MalformedInputError, message, cause)
}

func invalidPathError(message string) error {
	return faults.NewTypedError(faults.InvalidPathError, message, nil)
}

func invalidRelationshipError(message string, cause error) error {
	return faults.NewTypedError(faults.InvalidRelationshipError, message, cause)
}

func invalidClassError(message string) error {
	return faults.NewTypedError(faults.InvalidClassError, message, nil)
}

func castError(message string, cause error) error {
	return faults.NewTypedError(faults.CastError, message, cause)
}

func invalidCollectionError(message string, cause error) error {
	return faults.NewTypedError(faults.InvalidCollectionError, message, cause)
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}
