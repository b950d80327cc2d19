package view

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the rendered text is blank.
	ErrEmptyInput = errors.New("rendered template is empty")

	// ErrMalformedHeader is returned for a line in the header block that is
	// not a header.
	ErrMalformedHeader = errors.New("malformed header line")

	// ErrInvalidPriority is returned when a priority is not one of the known
	// priority names.
	ErrInvalidPriority = errors.New("invalid priority, it must be high, normal, or low")

	// ErrAddressParse is returned when an address header cannot be parsed.
	ErrAddressParse = errors.New("cannot parse address")

	// ErrUnknownAlternativeViewContentType is returned when an alternative
	// view declares no Content-Type and its name does not imply one.
	ErrUnknownAlternativeViewContentType = errors.New("the Content-Type header is missing from the alternative view")

	// ErrUnsupportedAlternativeViewContentType is returned when an alternative
	// view declares a Content-Type other than text/plain or text/html.
	ErrUnsupportedAlternativeViewContentType = errors.New("the Content-Type of the alternative view is not text/plain or text/html")

	// ErrDuplicateAlternativeView is returned when two alternative views
	// supply the same kind of body.
	ErrDuplicateAlternativeView = errors.New("another alternative view already supplied this content type")

	// ErrNoRenderer is returned when alternative views are named, but the
	// Parser has no Renderer to render them with.
	ErrNoRenderer = errors.New("no renderer is available for alternative views")
)

// HeaderError names the header that could not be processed.
type HeaderError struct {
	Name  string
	Value string
	Err   error
}

// Error returns the error message.
func (e *HeaderError) Error() string {
	return fmt.Sprintf("header %q with value %q: %v", e.Name, e.Value, e.Err)
}

// Unwrap returns the nested error.
func (e *HeaderError) Unwrap() error {
	return e.Err
}

// ViewError names the alternative view that could not be composed.
type ViewError struct {
	View string
	Err  error
}

// Error returns the error message.
func (e *ViewError) Error() string {
	return fmt.Sprintf("alternative view %q: %v", e.View, e.Err)
}

// Unwrap returns the nested error.
func (e *ViewError) Unwrap() error {
	return e.Err
}
