package goodreads

import (
	"errors"
	"fmt"
)

// ErrInvalidFeedURL indicates the configured feed URL is empty or not an absolute URL
var ErrInvalidFeedURL = errors.New("invalid Goodreads feed URL")

// ErrUnsupportedScheme indicates the feed URL is neither http nor https
var ErrUnsupportedScheme = errors.New("feed URL scheme must be http or https")

// ErrForeignOrigin indicates the feed URL points outside the allowed hosts
var ErrForeignOrigin = errors.New("feed URL host is not an allowed Goodreads origin")

// StatusError represents a non-200 response from the feed endpoint
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Goodreads feed error: HTTP %d", e.StatusCode)
}
