package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a failed product resolution. Never fatal; the
	// rendering layer turns it into a not-found page.
	ErrNotFound = errors.New("product not found")

	// ErrKeyNotFound is returned by KVClient.Get for an absent key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrStoreUnavailable wraps network or credential failures reaching
	// the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidRecord is the base error for record validation failures.
	ErrInvalidRecord = errors.New("invalid product record")

	// ErrInvalidEvent rejects tracking messages with missing or unknown
	// fields before they reach the buffer.
	ErrInvalidEvent = errors.New("invalid tracking event")
)

// InvalidRecordError carries the field and reason a record was rejected.
type InvalidRecordError struct {
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid product record: %s: %s", e.Field, e.Reason)
}

func (e *InvalidRecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}
