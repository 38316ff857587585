package service

import (
	"errors"
	"fmt"

	"github.com/kingwell47/blogfront/internal/gateway"
)

var (
	// ErrNotFound reports that a single-post fetch matched no row.
	ErrNotFound = errors.New("post not found")
	// ErrAuthRequired reports that an action needing a session was
	// attempted without one.
	ErrAuthRequired = errors.New("authentication required")
)

// RemoteError is a gateway-reported failure, normalized so pages never
// inspect gateway-specific error shapes.
type RemoteError struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// ValidationError is a client-side rejection (for example a password
// confirmation mismatch). It is never sent to the gateway.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// remoteErr wraps a gateway failure into a RemoteError for the given
// operation.
func remoteErr(op string, err error) error {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return &RemoteError{Op: op, Status: apiErr.Status, Message: apiErr.Message}
	}
	return &RemoteError{Op: op, Message: err.Error()}
}
