package amiapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrEmptyResponse = errors.New("empty response body")
)

// APIError is returned for every non-2xx backend response.
type APIError struct {
	StatusCode int
	Errors     []string
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("backend responded %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, strings.Join(e.Errors, ", "))
}

// Messages returns the backend supplied error messages of err joined with ", ",
// or fallback when err carries none.
func Messages(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && len(apiErr.Errors) > 0 {
		return strings.Join(apiErr.Errors, ", ")
	}
	return fallback
}

type errorBody struct {
	Errors []string `json:"errors"`
}
