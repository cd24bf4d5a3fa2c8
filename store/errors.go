// file: store/errors.go
package store

import "errors"

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConcurrentEdit is returned when a reorder lost a race with another writer.
	ErrConcurrentEdit = errors.New("collection changed since it was loaded")
	// ErrNoEditableFields is returned when an update names no editable column.
	ErrNoEditableFields = errors.New("no editable fields in update")
	// ErrInvalidStatus is returned for a status outside pending/approved/rejected.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrScopeRequired is returned when a year-scoped collection is used without a year.
	ErrScopeRequired = errors.New("collection requires a year")
	// ErrInvalidValue is returned when a field value has the wrong type.
	ErrInvalidValue = errors.New("invalid field value")
)
