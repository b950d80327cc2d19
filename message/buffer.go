package message

import (
	"bytes"
	"errors"

	"github.com/zostay/go-postal/message/header"
	"github.com/zostay/go-postal/message/header/param"
)

// DefaultMultipartContentType is the Content-type used for a multipart Buffer
// when no explicit Content-type has been set.
const DefaultMultipartContentType = MultipartMixedType

// BufferMode tells whether a Buffer is building a leaf or a branch.
type BufferMode int

const (
	// ModeUnset indicates that the Buffer has not yet been modified.
	ModeUnset BufferMode = iota

	// ModeSingle indicates that the Buffer has been used as an io.Writer.
	ModeSingle

	// ModeMultipart indicates that the Buffer has had parts added.
	ModeMultipart
)

var (
	// ErrPartsBuffer is returned when writing content to a Buffer that
	// already has parts.
	ErrPartsBuffer = errors.New("message buffer is in parts mode")

	// ErrSingleBuffer is returned when adding parts to a Buffer that already
	// has content.
	ErrSingleBuffer = errors.New("message buffer is in single mode")

	// ErrModeUnset is returned by Opaque() and Multipart() when they are called
	// before anything has been written to the buffer.
	ErrModeUnset = errors.New("no message has been built")
)

// Buffer constructs a message part in one of two modes.
//
// * Single mode. Writing to the Buffer with Write() treats the part as a leaf
// holding the written bytes. Finish with Opaque().
//
// * Multipart mode. Calling Add() treats the part as a branch. Finish with
// Multipart().
//
// A Buffer may not be used in both modes.
type Buffer struct {
	header.Header
	parts []Part
	buf   *bytes.Buffer
}

// Mode returns the mode of the Buffer.
func (b *Buffer) Mode() BufferMode {
	switch {
	case b.parts != nil:
		return ModeMultipart
	case b.buf != nil:
		return ModeSingle
	default:
		return ModeUnset
	}
}

// SetSingle puts the buffer in ModeSingle even if nothing is ever written,
// which is how an empty leaf is built.
func (b *Buffer) SetSingle() error {
	if b.parts != nil {
		return ErrPartsBuffer
	}
	if b.buf == nil {
		b.buf = &bytes.Buffer{}
	}
	return nil
}

// Add adds one or more parts to the Buffer. It fails with ErrSingleBuffer
// if content has already been written.
func (b *Buffer) Add(parts ...Part) error {
	if b.buf != nil {
		return ErrSingleBuffer
	}
	if b.parts == nil {
		b.parts = make([]Part, 0, len(parts))
	}
	b.parts = append(b.parts, parts...)
	return nil
}

// Write implements io.Writer. It fails with ErrPartsBuffer if parts have
// already been added.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.SetSingle(); err != nil {
		return 0, err
	}
	return b.buf.Write(p)
}

// WriteString writes a string as content.
func (b *Buffer) WriteString(s string) (int, error) {
	if err := b.SetSingle(); err != nil {
		return 0, err
	}
	return b.buf.WriteString(s)
}

// Opaque returns the leaf built by the Buffer. It fails with ErrPartsBuffer in
// ModeMultipart and with ErrModeUnset if nothing has been written.
func (b *Buffer) Opaque() (*Opaque, error) {
	switch b.Mode() {
	case ModeSingle:
		return &Opaque{Header: b.Header, Reader: b.buf}, nil
	case ModeMultipart:
		return nil, ErrPartsBuffer
	default:
		return nil, ErrModeUnset
	}
}

// Multipart returns the branch built by the Buffer. A missing Content-type is
// set to DefaultMultipartContentType and a missing boundary is generated.
// It fails with ErrSingleBuffer in ModeSingle and with ErrModeUnset if no parts
// have been added.
func (b *Buffer) Multipart() (*Multipart, error) {
	switch b.Mode() {
	case ModeMultipart:
	case ModeSingle:
		return nil, ErrSingleBuffer
	default:
		return nil, ErrModeUnset
	}

	if _, err := b.GetMediaType(); errors.Is(err, header.ErrNoSuchField) {
		b.SetMediaType(DefaultMultipartContentType)
	}

	if _, err := b.GetBoundary(); errors.Is(err, header.ErrNoSuchFieldParameter) {
		ct, _ := b.GetContentType()
		b.SetContentType(param.Modify(ct, param.Set(param.Boundary, GenerateBoundary())))
	}

	return &Multipart{Header: b.Header, parts: b.parts}, nil
}
