// Package errs defines the typed failures the order service forwards to its
// callers: not-found lookups, structured errors relayed from remote services,
// and unstructured remote failures wrapped as an unknown error. Each type
// carries an HTTP-ish status so the transport layer can map it outward.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is the sentinel for lookups that match no record.
	ErrNotFound = errors.New("not found")

	// ErrRemote is the sentinel for failures originating in a remote service,
	// structured or not.
	ErrRemote = errors.New("remote service error")
)

// NotFoundError reports that a lookup by identifier matched nothing.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id #%s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// RemoteError is a failure relayed from a remote service. When the remote
// side replied with a structured error payload, Status and Message carry that
// payload unchanged; otherwise the error is the generic unknown failure and
// Cause holds whatever went wrong locally.
type RemoteError struct {
	Status  int
	Message string
	Cause   error
}

func NewRemoteError(status int, message string) *RemoteError {
	return &RemoteError{Status: status, Message: message}
}

// NewUnknownRemoteError wraps an unstructured remote failure. The message is
// deliberately opaque: the caller learns nothing beyond "the call failed".
func NewUnknownRemoteError(cause error) *RemoteError {
	return &RemoteError{Status: http.StatusInternalServerError, Message: "Unknown error", Cause: cause}
}

func (e *RemoteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return ErrRemote
}

// StatusOf maps err to the HTTP status the transport layer should answer
// with. Unrecognized errors map to 500.
func StatusOf(err error) int {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Status != 0 {
		return remote.Status
	}
	return http.StatusInternalServerError
}
