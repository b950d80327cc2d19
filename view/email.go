package view

import (
	"github.com/zostay/go-postal/view/image"
)

// Attachment is a file attached to a message. Content holds the file's bytes.
// When Content is nil the file is read from Path as the message is written.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
	Path        string
}

// Email describes one message to render: the view that renders it, the data
// the view renders with, and what should accompany it.
type Email struct {
	// ViewName names the view that renders the message. Alternative views are
	// named after it.
	ViewName string

	// ViewData is available to the template and supplies defaults for message
	// properties the template leaves unset.
	ViewData ViewData

	// Model is passed to the template as is.
	Model any

	// Attachments are added to the message unchanged.
	Attachments []Attachment

	// Images collects the inline images referenced while rendering. Use
	// ImageEmbedder() rather than reading this directly.
	Images *image.Embedder
}

// NewEmail returns an Email for the named view with empty view data.
func NewEmail(viewName string) *Email {
	return &Email{
		ViewName: viewName,
		ViewData: ViewData{},
	}
}

// ImageEmbedder returns the Embedder for this message, creating one with the
// given options on first use.
func (e *Email) ImageEmbedder(opts ...image.Option) *image.Embedder {
	if e.Images == nil {
		e.Images = image.NewEmbedder(opts...)
	}
	return e.Images
}

// Attach adds an attachment read from disk when the message is written.
func (e *Email) Attach(path, contentType string) {
	e.Attachments = append(e.Attachments, Attachment{
		ContentType: contentType,
		Path:        path,
	})
}

// AttachBytes adds an attachment held in memory.
func (e *Email) AttachBytes(filename, contentType string, content []byte) {
	e.Attachments = append(e.Attachments, Attachment{
		Filename:    filename,
		ContentType: contentType,
		Content:     content,
	})
}
