package message

import (
	"fmt"
	"io"

	"github.com/zostay/go-postal/message/header"
	"github.com/zostay/go-postal/message/header/param"
)

// Multipart media types used when assembling a message.
const (
	MultipartAlternativeType = "multipart/alternative"
	MultipartMixedType       = "multipart/mixed"
	MultipartRelatedType     = "multipart/related"
)

// Multipart is a branch part. Its Content-type must be one of the multipart/*
// types and must carry a boundary parameter.
type Multipart struct {
	header.Header

	parts []Part
}

// NewMultipart returns a Multipart with the given media type, a freshly
// generated boundary, and the given parts attached.
func NewMultipart(mt string, parts ...Part) *Multipart {
	m := &Multipart{parts: parts}
	m.SetContentType(param.NewWithParams(mt, map[string]string{
		param.Boundary: GenerateBoundary(),
	}))
	return m
}

// MultipartAlternative returns a multipart/alternative of the given parts. List
// the parts from the plainest to the richest.
func MultipartAlternative(parts ...Part) *Multipart {
	return NewMultipart(MultipartAlternativeType, parts...)
}

// MultipartRelated returns a multipart/related of the given parts. The first
// part is the root and the rest are resources it refers to.
func MultipartRelated(parts ...Part) *Multipart {
	return NewMultipart(MultipartRelatedType, parts...)
}

// MultipartMixed returns a multipart/mixed of the given parts.
func MultipartMixed(parts ...Part) *Multipart {
	return NewMultipart(MultipartMixedType, parts...)
}

// Add appends parts to the Multipart.
func (mm *Multipart) Add(parts ...Part) {
	mm.parts = append(mm.parts, parts...)
}

// WriteTo writes the header and every part, separated by the boundary, to w.
// It fails if the Content-type has no boundary.
//
// This may only be safely called one time because it consumes the readers of
// every part within.
func (mm *Multipart) WriteTo(w io.Writer) (int64, error) {
	boundary, err := mm.GetBoundary()
	if err != nil {
		return 0, err
	}

	br := mm.Break()
	cw := &countWriter{w: w}

	if _, err := mm.Header.WriteTo(cw); err != nil {
		return cw.n, err
	}

	for _, part := range mm.parts {
		if _, err := fmt.Fprintf(cw, "--%s%s", boundary, br); err != nil {
			return cw.n, err
		}

		if _, err := part.WriteTo(cw); err != nil {
			return cw.n, err
		}

		if _, err := fmt.Fprint(cw, br); err != nil {
			return cw.n, err
		}
	}

	_, err = fmt.Fprintf(cw, "--%s--%s", boundary, br)
	return cw.n, err
}

// IsMultipart always returns true.
func (mm *Multipart) IsMultipart() bool {
	return true
}

// GetHeader returns the header for the part.
func (mm *Multipart) GetHeader() *header.Header {
	return &mm.Header
}

// GetReader always returns nil.
func (mm *Multipart) GetReader() io.Reader {
	return nil
}

// GetParts returns the sub-parts of this part.
func (mm *Multipart) GetParts() []Part {
	return mm.parts
}
