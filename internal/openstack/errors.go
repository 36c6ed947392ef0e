package openstack

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gophercloud/gophercloud/v2"
)

// ErrNotFound is returned when the addressed resource does not exist.
var ErrNotFound = errors.New("openstack: resource not found")

// ErrAmbiguous is returned when a name lookup matches more than one resource.
var ErrAmbiguous = errors.New("openstack: name is ambiguous")

// APIError is a failed OpenStack call.
type APIError struct {
	Service    string
	Operation  string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Service, e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Service, e.Operation, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Temporary reports whether retrying the call may succeed.
func (e *APIError) Temporary() bool {
	switch {
	case e.StatusCode == 0:
		return true
	case e.StatusCode == http.StatusRequestTimeout,
		e.StatusCode == http.StatusConflict,
		e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	}
	return false
}

// IsNotFound reports whether err means the resource is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransient reports whether err is worth retrying later: throttling,
// server errors, timeouts and network failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Classify wraps a gophercloud error. 404 becomes ErrNotFound; other
// status codes are kept on the APIError so IsTransient can judge them.
func Classify(service, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if gophercloud.ResponseCodeIs(err, http.StatusNotFound) {
		return fmt.Errorf("%s %s: %w", service, operation, ErrNotFound)
	}
	apiErr := &APIError{Service: service, Operation: operation, Err: err}
	var unexpected gophercloud.ErrUnexpectedResponseCode
	if errors.As(err, &unexpected) {
		apiErr.StatusCode = unexpected.Actual
	}
	return apiErr
}
