package image

import (
	"os"
	"path"
)

// Resource is an image linked into a message by content id.
type Resource struct {
	// Source is the path or URL the image was referenced by. It is unique
	// within an Embedder.
	Source string

	// ContentID identifies the image within the message, without angle
	// brackets.
	ContentID string

	// ContentType is the media type of the image.
	ContentType string

	// Content holds the image bytes for remote images. It is nil for local
	// images, which are read from Path when the message is written.
	Content []byte

	// Path is the local file holding the image. It is empty for remote
	// images.
	Path string
}

// Filename returns the base name of the image source.
func (r *Resource) Filename() string {
	return path.Base(sourcePath(r.Source))
}

// Bytes returns the image content, reading it from Path if needed.
func (r *Resource) Bytes() ([]byte, error) {
	if r.Content != nil || r.Path == "" {
		return r.Content, nil
	}

	b, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, &ResourceError{Source: r.Source, Err: err}
	}
	return b, nil
}

// URL returns the cid: URL an HTML body uses to show this image.
func (r *Resource) URL() string {
	return "cid:" + r.ContentID
}
