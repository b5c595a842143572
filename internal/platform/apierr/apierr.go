package apierr

import (
	"errors"
	"fmt"
)

// ErrNoResponse marks a provider that could not be reached at all: a
// transport-level failure with no HTTP response to propagate.
var ErrNoResponse = errors.New("no response from provider")

// Error is an upstream provider failure that did produce an HTTP response.
// Status and Body are propagated to the client unchanged.
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	if e == nil {
		return "api error"
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Body)
}

func New(status int, body string) *Error {
	return &Error{Status: status, Body: body}
}

// Unreachable wraps a transport error so callers can classify it with
// errors.Is(err, ErrNoResponse).
func Unreachable(err error) error {
	return fmt.Errorf("%w: %v", ErrNoResponse, err)
}
