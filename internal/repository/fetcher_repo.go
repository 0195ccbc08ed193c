package repository

import (
	"context"
	"errors"
	"fmt"
)

// ErrPageUnavailable covers every non-success status and transport failure.
// Callers never distinguish further.
var ErrPageUnavailable = errors.New("page unavailable")

// Page is a successfully fetched source page.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Fetcher defines the contract for retrieving one source page.
type Fetcher interface {
	// Fetch returns the page, or an error for which
	// errors.Is(err, ErrPageUnavailable) holds.
	Fetch(ctx context.Context, url string) (*Page, error)
}

// StatusError carries the HTTP status of an unavailable page.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: received status code %d", ErrPageUnavailable, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrPageUnavailable
}

// StatusCodeOf returns the HTTP status carried by err, or 0 for transport failures.
func StatusCodeOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
