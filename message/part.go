package message

import (
	"io"

	"github.com/zostay/go-postal/message/header"
)

// Part is a part of a message. Each Part is either a branch or a leaf.
//
// A branch Part has sub-parts. IsMultipart() returns true, GetParts() returns
// the sub-parts, and GetReader() returns nil.
//
// A leaf Part has content. IsMultipart() returns false, GetReader() returns
// the content, and GetParts() returns nil.
type Part interface {
	io.WriterTo

	// IsMultipart returns true if this Part is a branch.
	IsMultipart() bool

	// GetHeader is available on all Part objects.
	GetHeader() *header.Header

	// GetReader provides the content of a leaf. It returns nil for a branch.
	GetReader() io.Reader

	// GetParts provides the sub-parts of a branch. It returns nil for a leaf.
	GetParts() []Part
}

// Generic is an alias for Part used for a whole message rather than a
// sub-part. A Generic is always either a *Opaque or a *Multipart.
type Generic = Part

// countWriter counts the bytes that pass through it.
type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
