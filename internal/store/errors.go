package store

import (
	"errors"
	"strings"
)

var (
	// ErrDuplicateKey means a unique constraint (student code, admin
	// username) was violated.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCategory means a button type other than bonus/penalty.
	ErrInvalidCategory = errors.New("invalid button category")
	// ErrNotSupported marks operations a backend deliberately lacks,
	// like the active-week flag on the document store.
	ErrNotSupported = errors.New("not supported by this backend")
)

// asConstraintErr collapses driver-specific unique violation errors into
// ErrDuplicateKey. Matches both the sqlite and postgres wording.
func asConstraintErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "constraint failed: UNIQUE") {
		return ErrDuplicateKey
	}
	return err
}
