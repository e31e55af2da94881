package services

import (
	"errors"
	"fmt"
)

// InvalidInputError rejects a malformed request before the store is touched.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageUnavailableError wraps a persistence failure. The operation it
// surfaced from left the store unchanged.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}

func IsStorageUnavailable(err error) bool {
	var se *StorageUnavailableError
	return errors.As(err, &se)
}
