package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotLoggedIn   = errors.New("apiclient: not logged in")
	ErrMissingEntry  = errors.New("apiclient: action needs a timesheet id")
	ErrUnknownAction = errors.New("apiclient: unknown action")
)

// APIError is a response the server answered with ok=false.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Status, e.Code)
	}
	return e.Message
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
