package crawler

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for pages answering 404. It ends the task only.
var ErrNotFound = errors.New("page not found")

// ErrNoSeeds is returned by Scheduler.Run when there is nothing to crawl.
var ErrNoSeeds = errors.New("no seeds to crawl")

// FetchError describes a failed fetch: a transport error or an unexpected
// status code.
type FetchError struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the response status, zero for transport errors.
	StatusCode int

	// Err is the underlying error.
	Err error
}

// Error implements error.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}
