package transfer

import (
	"io"

	"github.com/zostay/go-postal/message/header"
)

const (
	None            = ""                 // bytes will be left as-is
	Bit7            = "7bit"             // bytes will be left as-is
	Bit8            = "8bit"             // bytes will be left as-is
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // bytes will be transformed between quoted-printable and binary data
	Base64          = "base64"           // bytes will be transformed between base64 and binary data
)

// writer pairs a writer with the closer, if any, that flushes it.
type writer struct {
	io.Writer
	io.Closer
}

// Close calls the nested closer if there is one.
func (w *writer) Close() error {
	if w.Closer != nil {
		return w.Closer.Close()
	}
	return nil
}

// Transcoding is a pair of functions that can be used to transform to and from
// a transfer encoding.
type Transcoding struct {
	// Encoder returns an io.WriteCloser, which will encode binary data and
	// write the encoded form to the given io.Writer, ending encoded lines with
	// lbr. You must call Close() on the returned io.WriteCloser when you are
	// finished.
	Encoder func(w io.Writer, lbr []byte) io.WriteCloser

	// Decoder returns an io.Reader, which will read from the given io.Reader
	// and decode the encoded data back into binary form.
	Decoder func(io.Reader) io.Reader
}

// AsIsTranscoder is just a shortcut to a no-op encoder/decoder.
var AsIsTranscoder = Transcoding{NewAsIsEncoder, NewAsIsDecoder}

// Transcodings defines the supported Content-transfer-encodings and how to
// handle them.
var Transcodings = map[string]Transcoding{
	None:            AsIsTranscoder,
	Bit7:            AsIsTranscoder,
	Bit8:            AsIsTranscoder,
	Binary:          AsIsTranscoder,
	QuotedPrintable: {NewQuotedPrintableEncoder, NewQuotedPrintableDecoder},
	Base64:          {NewBase64Encoder, NewBase64Decoder},
}

// ApplyTransferEncoding checks the header for a Content-transfer-encoding and
// returns an io.WriteCloser that encodes accordingly, using the header's line
// break. Data passes through untouched when no encoding applies.
//
// You must call Close() on the returned io.WriteCloser when you are finished
// writing.
func ApplyTransferEncoding(h *header.Header, w io.Writer) io.WriteCloser {
	cte, err := h.GetTransferEncoding()
	if err != nil {
		return &writer{w, nil}
	}

	if tc, hasCode := Transcodings[cte]; hasCode {
		return tc.Encoder(w, h.Break().Bytes())
	}

	return &writer{w, nil}
}

// ApplyTransferDecoding returns an io.Reader that decodes incoming bytes
// according to the transfer encoding in the given header. Multipart content
// and unknown encodings are passed through.
func ApplyTransferDecoding(h *header.Header, r io.Reader) io.Reader {
	ct, err := h.GetContentType()
	if err == nil && ct.Type() == "multipart" {
		return r
	}

	cte, err := h.GetTransferEncoding()
	if err != nil {
		return r
	}

	if tc, hasCode := Transcodings[cte]; hasCode {
		return tc.Decoder(r)
	}

	return r
}
