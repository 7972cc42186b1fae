package types

import "errors"

// Record operation errors. Store and facade errors wrap one of these so
// callers can branch with errors.Is.
var (
	ErrNotFound     = errors.New("record not found")
	ErrConflict     = errors.New("record conflicts with an existing record")
	ErrValidation   = errors.New("invalid record data")
	ErrInvalidState = errors.New("invalid state transition")
	ErrInvalidID    = errors.New("invalid record ID")
)

// Storage errors.
var (
	ErrKeyNotFound = errors.New("storage key not found")
	ErrTransientIO = errors.New("transient storage or fixture failure")
)

// Query errors.
var (
	ErrUnknownField       = errors.New("unknown field")
	ErrDuplicateSortField = errors.New("sort field appears more than once")
	ErrInvalidSortOrder   = errors.New("invalid sort order")
)
