package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/tracking"
)

// Reasons carried by permanent errors. They end up as condition reasons.
const (
	ReasonImmutableFieldChanged = "ImmutableFieldChanged"
	ReasonInvalidFederationRef  = "InvalidFederationRef"
	ReasonInvalidReference      = "InvalidReference"
	ReasonInvalidSpec           = "InvalidSpec"
	ReasonRejected              = "Rejected"
	ReasonImportFailed          = "ImportFailed"
	ReasonAlreadyOwned          = "AlreadyOwned"
	ReasonQuotaBelowUsage       = "QuotaBelowUsage"
)

// TransientError is a failure that may go away on its own.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError is a failure that needs a spec change or an operator.
type PermanentError struct {
	Reason  string
	Message string
	Err     error
}

func (e *PermanentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent builds a PermanentError with a formatted message.
func Permanent(reason, format string, args ...any) *PermanentError {
	return &PermanentError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func immutable(field string, from, to any) *PermanentError {
	return Permanent(ReasonImmutableFieldChanged, "%s cannot change from %v to %v", field, from, to)
}

// AsPermanent unwraps a PermanentError.
func AsPermanent(err error) (*PermanentError, bool) {
	var perm *PermanentError
	if errors.As(err, &perm) {
		return perm, true
	}
	return nil, false
}

// IsPermanent reports whether err must not be retried.
func IsPermanent(err error) bool {
	_, ok := AsPermanent(err)
	return ok
}

// classify sorts an error from the cloud or the tracking store into the
// driver taxonomy. Unknown errors are transient.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		perm  *PermanentError
		trans *TransientError
		dup   *tracking.DuplicateIDError
		api   *openstack.APIError
	)
	switch {
	case errors.As(err, &perm), errors.As(err, &trans):
		return err
	case errors.Is(err, context.Canceled):
		return err
	case errors.As(err, &dup):
		return &PermanentError{Reason: ReasonAlreadyOwned, Message: op, Err: err}
	case errors.Is(err, openstack.ErrAmbiguous):
		return &PermanentError{Reason: ReasonInvalidReference, Message: op, Err: err}
	case tracking.IsConflict(err), openstack.IsTransient(err):
		return &TransientError{Op: op, Err: err}
	case errors.As(err, &api):
		return &PermanentError{Reason: ReasonRejected, Message: op, Err: err}
	}
	return &TransientError{Op: op, Err: err}
}
