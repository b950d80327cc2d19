package field

import (
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/zostay/go-postal/message/charset"
)

// Field is a single email header field. The name and body held here are the
// logical, decoded values. Encoding for the wire happens in String() and
// Bytes().
type Field struct {
	name string
	body string
}

// New constructs a new field.
func New(name, body string) *Field {
	return &Field{name, body}
}

// Name returns the name of the header field.
func (f *Field) Name() string {
	return f.name
}

// SetName updates the name of the header field.
func (f *Field) SetName(name string) {
	f.name = name
}

// Body returns the value of the header field.
func (f *Field) Body() string {
	return f.body
}

// SetBody updates the body of the header field.
func (f *Field) SetBody(body string) {
	f.body = body
}

// String returns the complete header field as it should appear on the wire,
// without folding or a trailing line break.
func (f *Field) String() string {
	return f.name + ": " + Encode(f.body)
}

// Bytes returns the complete header field as a slice of bytes.
func (f *Field) Bytes() []byte {
	return []byte(f.String())
}

// Encode transforms a header field body for output. Bodies that are plain
// printable ASCII are returned as-is. Anything else is MIME word encoded using
// UTF-8 as the character set.
func Encode(body string) string {
	if isPlainASCII(body) {
		return body
	}
	return mime.QEncoding.Encode("utf-8", body)
}

// Decode looks for MIME encoded words in the body and decodes them.
func Decode(body string) (string, error) {
	if !strings.Contains(body, "=?") {
		return body, nil
	}

	dec := &mime.WordDecoder{CharsetReader: charset.NewReader}
	return dec.DecodeHeader(body)
}

func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf || (c < ' ' && c != '\t') {
			return false
		}
	}
	return true
}
