package param

import (
	"mime"
	"strings"
)

// Parameter names commonly found on parameterized header fields.
const (
	Charset  = "charset"
	Boundary = "boundary"
	Filename = "filename"
	Name     = "name"
)

// Value is a parsed parameterized header field body. It is immutable. Use
// Modify() to derive a changed copy.
type Value struct {
	v  string
	ps map[string]string
}

// Parse parses a header field body such as "text/html; charset=utf-8". The
// primary value is lower-cased, as are the parameter names.
func Parse(v string) (*Value, error) {
	mt, ps, err := mime.ParseMediaType(v)
	if err != nil {
		return nil, err
	}

	return &Value{mt, ps}, nil
}

// New creates a new Value with no parameters.
func New(v string) *Value {
	return &Value{v, map[string]string{}}
}

// NewWithParams creates a new Value with the given parameters.
func NewWithParams(v string, ps map[string]string) *Value {
	cps := make(map[string]string, len(ps))
	for k, pv := range ps {
		cps[strings.ToLower(k)] = pv
	}
	return &Value{v, cps}
}

// Modifier is a change applied by Modify().
type Modifier func(*Value)

// Change replaces the primary value.
func Change(value string) Modifier {
	return func(pv *Value) {
		pv.v = value
	}
}

// Set sets the named parameter.
func Set(name, value string) Modifier {
	return func(pv *Value) {
		pv.ps[strings.ToLower(name)] = value
	}
}

// Delete removes the named parameter.
func Delete(name string) Modifier {
	return func(pv *Value) {
		delete(pv.ps, strings.ToLower(name))
	}
}

// Modify clones the Value, applies the changes in order, and returns the copy.
func Modify(pv *Value, changes ...Modifier) *Value {
	c := pv.Clone()
	for _, change := range changes {
		change(c)
	}
	return c
}

// Value returns the primary value, the part before the first semicolon.
func (pv *Value) Value() string {
	return pv.v
}

// MediaType is a synonym for Value() for use with Content-type.
func (pv *Value) MediaType() string {
	return pv.v
}

// Disposition is a synonym for Value() for use with Content-disposition.
func (pv *Value) Disposition() string {
	return pv.v
}

// Type returns the part of the media type before the slash, e.g. "image" for
// "image/png". It returns an empty string if there is no slash.
func (pv *Value) Type() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[:ix]
	}
	return ""
}

// Subtype returns the part of the media type after the slash.
func (pv *Value) Subtype() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[ix+1:]
	}
	return ""
}

// Parameter returns the value of the named parameter or an empty string.
func (pv *Value) Parameter(k string) string {
	return pv.ps[strings.ToLower(k)]
}

// Parameters returns a copy of the parameters.
func (pv *Value) Parameters() map[string]string {
	ps := make(map[string]string, len(pv.ps))
	for k, v := range pv.ps {
		ps[k] = v
	}
	return ps
}

// Charset returns the charset parameter.
func (pv *Value) Charset() string {
	return pv.ps[Charset]
}

// Boundary returns the boundary parameter.
func (pv *Value) Boundary() string {
	return pv.ps[Boundary]
}

// Filename returns the filename parameter.
func (pv *Value) Filename() string {
	return pv.ps[Filename]
}

// String serializes the Value. Parameters are written in sorted order and
// quoted when required.
func (pv *Value) String() string {
	if len(pv.ps) == 0 {
		return pv.v
	}

	s := mime.FormatMediaType(pv.v, pv.ps)
	if s == "" {
		// FormatMediaType refuses values that are not type/subtype shaped,
		// such as a bare disposition, so retry with a placeholder
		s = mime.FormatMediaType("x/"+pv.v, pv.ps)
		return strings.TrimPrefix(s, "x/")
	}
	return s
}

// Clone returns a deep copy of the Value.
func (pv *Value) Clone() *Value {
	return NewWithParams(pv.v, pv.ps)
}
