package transfer

import (
	"bytes"
	"io"
	"mime/quotedprintable"
)

var crlf = []byte("\r\n")

// closers closes each in order, stopping at the first error.
type closers []io.Closer

func (cs closers) Close() error {
	for _, c := range cs {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return nil
}

// breakWriter rewrites CRLF written to it as lbr.
type breakWriter struct {
	w   io.Writer
	lbr []byte
	cr  bool
}

func (bw *breakWriter) Write(b []byte) (int, error) {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if bw.cr {
			bw.cr = false
			if c == '\n' {
				out = append(out, bw.lbr...)
				continue
			}
			out = append(out, '\r')
		}

		if c == '\r' {
			bw.cr = true
			continue
		}
		out = append(out, c)
	}

	if _, err := bw.w.Write(out); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Close writes a trailing CR held back waiting for LF.
func (bw *breakWriter) Close() error {
	if !bw.cr {
		return nil
	}
	bw.cr = false
	_, err := bw.w.Write([]byte{'\r'})
	return err
}

// NewAsIsEncoder returns an io.WriteCloser that writes bytes unchanged.
func NewAsIsEncoder(w io.Writer, _ []byte) io.WriteCloser {
	return &writer{w, nil}
}

// NewAsIsDecoder returns r.
func NewAsIsDecoder(r io.Reader) io.Reader {
	return r
}

// NewQuotedPrintableEncoder encodes everything written to it as
// quoted-printable. Encoded lines, including soft breaks, end with lbr. A nil
// lbr means CRLF.
func NewQuotedPrintableEncoder(w io.Writer, lbr []byte) io.WriteCloser {
	if len(lbr) == 0 || bytes.Equal(lbr, crlf) {
		qpw := quotedprintable.NewWriter(w)
		return &writer{qpw, qpw}
	}

	bw := &breakWriter{w: w, lbr: lbr}
	qpw := quotedprintable.NewWriter(bw)
	return &writer{qpw, closers{qpw, bw}}
}

// NewQuotedPrintableDecoder decodes quoted-printable data read from r.
func NewQuotedPrintableDecoder(r io.Reader) io.Reader {
	return quotedprintable.NewReader(r)
}
