package records

import "errors"

var ErrRepositoryNotConfigured = errors.New("records: repository not configured")

// ValidationError reports required create fields that were missing or empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string { return "Missing required fields" }

// StorageError wraps a persistence fault. Its message is the underlying message, unchanged.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
