package transfer

import (
	"encoding/base64"
	"io"
)

const base64LineLength = 76

// lineWriter inserts a line break after every so many bytes written.
type lineWriter struct {
	every int
	acc   int
	lbr   []byte
	w     io.Writer
}

func (lw *lineWriter) Write(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if lw.acc == lw.every {
			if _, err := lw.w.Write(lw.lbr); err != nil {
				return n, err
			}
			lw.acc = 0
		}

		room := lw.every - lw.acc
		if room > len(b) {
			room = len(b)
		}

		wn, err := lw.w.Write(b[:room])
		n += wn
		if err != nil {
			return n, err
		}

		b = b[room:]
		lw.acc += room
	}

	return n, nil
}

// base64Writer flushes the encoder and then ends the last line.
type base64Writer struct {
	enc io.WriteCloser
	lw  *lineWriter
}

func (bw *base64Writer) Write(b []byte) (int, error) {
	return bw.enc.Write(b)
}

func (bw *base64Writer) Close() error {
	if err := bw.enc.Close(); err != nil {
		return err
	}

	if bw.lw.acc > 0 {
		_, err := bw.lw.w.Write(bw.lw.lbr)
		return err
	}
	return nil
}

// NewBase64Encoder translates all bytes written to the returned io.WriteCloser
// into base64, broken into 76 character lines ending with lbr.
func NewBase64Encoder(w io.Writer, lbr []byte) io.WriteCloser {
	lw := &lineWriter{
		every: base64LineLength,
		lbr:   lbr,
		w:     w,
	}
	return &base64Writer{base64.NewEncoder(base64.StdEncoding, lw), lw}
}

// NewBase64Decoder will translate all bytes read from the given io.Reader as
// base64 and return the binary data to the returned io.Reader.
func NewBase64Decoder(r io.Reader) io.Reader {
	return base64.NewDecoder(base64.StdEncoding, r)
}
