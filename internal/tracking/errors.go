package tracking

import (
	"errors"
	"fmt"
)

// ConflictError reports that the document changed between read and write.
type ConflictError struct {
	Version string
	Err     error
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tracking document changed since version %q: %v", e.Version, e.Err)
	}
	return fmt.Sprintf("tracking document changed since version %q", e.Version)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// DuplicateIDError reports an external ID already claimed by another record.
type DuplicateIDError struct {
	Kind       ExternalKind
	ExternalID string
	Existing   Key
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s %s is already tracked as %s", e.Kind, e.ExternalID, e.Existing)
}
