package header

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/zostay/go-postal/message/header/field"
)

// ErrIndexOutOfRange is returned when a header field index is too large or
// too small.
var ErrIndexOutOfRange = errors.New("header field index is out of range")

// Base is the low-level storage for a header: an ordered list of fields plus
// the line break and fold encoding used when writing them out.
type Base struct {
	lbr    Break
	vf     *field.FoldEncoding
	fields []*field.Field
}

// Clone returns a deep copy of the fields.
func (h *Base) Clone() *Base {
	fs := make([]*field.Field, len(h.fields))
	for i, f := range h.fields {
		fs[i] = field.New(f.Name(), f.Body())
	}
	return &Base{h.lbr, h.vf, fs}
}

// FoldEncoding returns the fold encoding used when the header is written.
func (h *Base) FoldEncoding() *field.FoldEncoding {
	if h.vf == nil {
		return field.DefaultFoldEncoding
	}
	return h.vf
}

// SetFoldEncoding changes the fold encoding used when the header is written.
func (h *Base) SetFoldEncoding(vf *field.FoldEncoding) {
	h.vf = vf
}

// Break returns the line break used to separate header fields. It defaults
// to CRLF.
func (h *Base) Break() Break {
	if h.lbr == "" {
		return CRLF
	}
	return h.lbr
}

// SetBreak changes the line break to use with this header.
func (h *Base) SetBreak(lbr Break) {
	h.lbr = lbr
}

// Len returns the number of fields in the header.
func (h *Base) Len() int {
	return len(h.fields)
}

// GetField returns the nth field or nil.
func (h *Base) GetField(n int) *field.Field {
	if n < 0 || n >= len(h.fields) {
		return nil
	}
	return h.fields[n]
}

// GetIndexesNamed returns the indexes of the fields with the given name,
// compared case-insensitively.
func (h *Base) GetIndexesNamed(name string) []int {
	var is []int
	for i, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			is = append(is, i)
		}
	}
	return is
}

// GetAllFieldsNamed returns all the fields with the given name.
func (h *Base) GetAllFieldsNamed(name string) []*field.Field {
	var fs []*field.Field
	for _, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			fs = append(fs, f)
		}
	}
	return fs
}

// ListFields returns a copy of the list of fields in the header.
func (h *Base) ListFields() []*field.Field {
	fs := make([]*field.Field, len(h.fields))
	copy(fs, h.fields)
	return fs
}

// InsertBeforeField inserts a new field at index n. Indexes outside the
// header are clamped, so passing Len() appends.
func (h *Base) InsertBeforeField(n int, name, body string) {
	if n < 0 {
		n = 0
	}
	if n > len(h.fields) {
		n = len(h.fields)
	}

	h.fields = append(h.fields, nil)
	copy(h.fields[n+1:], h.fields[n:])
	h.fields[n] = field.New(name, body)
}

// DeleteField removes the nth field.
func (h *Base) DeleteField(n int) error {
	if n < 0 || n >= len(h.fields) {
		return ErrIndexOutOfRange
	}

	copy(h.fields[n:], h.fields[n+1:])
	h.fields = h.fields[:len(h.fields)-1]
	return nil
}

// ClearFields removes all fields from the header.
func (h *Base) ClearFields() {
	h.fields = h.fields[:0]
}

// WriteTo writes the folded fields followed by the blank line that ends the
// header.
func (h *Base) WriteTo(w io.Writer) (int64, error) {
	lb := h.Break().Bytes()
	vf := h.FoldEncoding()

	var total int64
	for _, f := range h.fields {
		n, err := vf.Fold(w, f.Bytes(), lb)
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err := w.Write(lb)
	total += int64(n)
	return total, err
}

// Bytes returns the header as it would be written by WriteTo.
func (h *Base) Bytes() []byte {
	buf := &bytes.Buffer{}
	_, _ = h.WriteTo(buf)
	return buf.Bytes()
}

// String returns the header as it would be written by WriteTo.
func (h *Base) String() string {
	return string(h.Bytes())
}
