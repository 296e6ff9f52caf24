package types

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCatalog is returned when a random pick is attempted on zero entries.
	ErrEmptyCatalog = errors.New("no entries to pick from")
	// ErrEntryNotFound is returned when an id or name matches no entry.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrDuplicateID is returned when a loaded entry set reuses an id.
	ErrDuplicateID = errors.New("duplicate entry id")
)

// FetchError reports a failure reaching or decoding the data source.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Op + ": fetch failed"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps err as a FetchError for op. A nil err stays nil.
func NewFetchError(op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Op: op, Err: err}
}
