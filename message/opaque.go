package message

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/zostay/go-postal/message/header"
	"github.com/zostay/go-postal/message/header/param"
	"github.com/zostay/go-postal/message/transfer"
)

// Opaque is a leaf part: a header and a body. The body held by the Reader is
// decoded content. The Content-transfer-encoding named in the header is
// applied as the part is written.
type Opaque struct {
	header.Header

	// Reader holds the content of the part. It may be nil for an empty part.
	io.Reader
}

// WriteTo writes the header and the transfer encoded body to w. It returns
// the number of bytes written to w.
//
// This can only be safely called once as it will consume the io.Reader.
func (m *Opaque) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}

	if _, err := m.Header.WriteTo(cw); err != nil {
		return cw.n, err
	}

	if m.Reader == nil {
		return cw.n, nil
	}

	tw := transfer.ApplyTransferEncoding(&m.Header, cw)
	if _, err := io.Copy(tw, m.Reader); err != nil {
		_ = tw.Close()
		return cw.n, err
	}

	err := tw.Close()
	return cw.n, err
}

// IsMultipart always returns false.
func (m *Opaque) IsMultipart() bool {
	return false
}

// GetHeader returns the header for the part.
func (m *Opaque) GetHeader() *header.Header {
	return &m.Header
}

// GetReader returns the reader containing the content of the part.
func (m *Opaque) GetReader() io.Reader {
	return m.Reader
}

// GetParts always returns nil.
func (m *Opaque) GetParts() []Part {
	return nil
}

// AttachmentFile reads the named file from disk and returns it as an
// attachment part named after the file's base name. Pass transfer.None as te
// to leave the Content-transfer-encoding unset.
func AttachmentFile(fn, mt, te string) (*Opaque, error) {
	content, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	return AttachmentBytes(filepath.Base(fn), mt, te, content), nil
}

// AttachmentBytes returns an attachment part with the given file name, media
// type, transfer encoding, and content.
func AttachmentBytes(fn, mt, te string, content []byte) *Opaque {
	m := &Opaque{Reader: bytes.NewReader(content)}
	m.SetContentType(param.NewWithParams(mt, map[string]string{param.Name: fn}))
	m.SetParamValue(header.ContentDisposition,
		param.NewWithParams("attachment", map[string]string{param.Filename: fn}))

	if te != transfer.None {
		m.SetTransferEncoding(te)
	}

	return m
}

// InlineBytes returns an inline part identified by the given content id so
// that an HTML part of the same message can refer to it with a cid: URL.
func InlineBytes(cid, fn, mt, te string, content []byte) *Opaque {
	m := &Opaque{Reader: bytes.NewReader(content)}
	m.SetMediaType(mt)
	m.SetContentID(cid)

	disp := param.New("inline")
	if fn != "" {
		disp = param.NewWithParams("inline", map[string]string{param.Filename: fn})
	}
	m.SetParamValue(header.ContentDisposition, disp)

	if te != transfer.None {
		m.SetTransferEncoding(te)
	}

	return m
}
