package recommender

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCatalog       = errors.New("catalog has no records")
	ErrEmptyVocabulary    = errors.New("catalog text has no indexable terms")
	ErrDuplicateID        = errors.New("duplicate internship id")
	ErrInternshipNotFound = errors.New("internship not found")
	ErrNotLoaded          = errors.New("catalog index not loaded")
)

// DataError reports a problem with catalog contents or a catalog lookup.
type DataError struct {
	Op     string
	Detail string
	Err    error
}

func (e *DataError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// StateError reports an operation invoked before the index was loaded.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}
