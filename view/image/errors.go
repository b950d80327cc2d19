package image

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidContentType is returned when no media type can be determined
	// for an image, either from the hint or from the source's file extension.
	ErrInvalidContentType = errors.New("invalid image content type")

	// ErrResourceFetchFailed is returned when a remote image cannot be fetched.
	ErrResourceFetchFailed = errors.New("image fetch failed")
)

// ResourceError names the image source that could not be referenced.
type ResourceError struct {
	Source string
	Err    error
}

// Error returns the error message.
func (e *ResourceError) Error() string {
	return fmt.Sprintf("image %q: %v", e.Source, e.Err)
}

// Unwrap returns the nested error.
func (e *ResourceError) Unwrap() error {
	return e.Err
}
