// Package charset converts between UTF-8 and the character sets a message
// body or header may be written in. Every encoding known to
// golang.org/x/text/encoding/ianaindex is available.
package charset

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Default is the charset used when none is named.
const Default = "utf-8"

func lookup(cs string) (encoding.Encoding, error) {
	e, err := ianaindex.MIME.Encoding(cs)
	if err != nil {
		return nil, err
	}

	if e == nil {
		return nil, fmt.Errorf("no encoding found for charset %q", cs)
	}

	return e, nil
}

// IsUTF8 returns true if the named charset is UTF-8 or blank.
func IsUTF8(cs string) bool {
	cs = strings.ToLower(strings.TrimSpace(cs))
	return cs == "" || cs == "utf-8" || cs == "utf8"
}

// Canonical returns the preferred MIME name of the given charset, or an error
// if the charset is not known.
func Canonical(cs string) (string, error) {
	if IsUTF8(cs) {
		return Default, nil
	}

	e, err := lookup(cs)
	if err != nil {
		return "", err
	}

	name, err := ianaindex.MIME.Name(e)
	if err != nil {
		return "", err
	}
	return strings.ToLower(name), nil
}

// Encode converts the UTF-8 string s into the named charset.
func Encode(cs, s string) ([]byte, error) {
	if IsUTF8(cs) {
		return []byte(s), nil
	}

	e, err := lookup(cs)
	if err != nil {
		return nil, err
	}

	es, err := e.NewEncoder().String(s)
	if err != nil {
		return nil, err
	}

	return []byte(es), nil
}

// Decode converts bytes in the named charset into a UTF-8 string.
func Decode(cs string, b []byte) (string, error) {
	if IsUTF8(cs) {
		return string(b), nil
	}

	e, err := lookup(cs)
	if err != nil {
		return "", err
	}

	db, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(db), nil
}

// NewReader returns a reader that decodes input in the named charset into
// UTF-8. Its signature matches mime.WordDecoder.CharsetReader.
func NewReader(cs string, input io.Reader) (io.Reader, error) {
	if IsUTF8(cs) {
		return input, nil
	}

	e, err := lookup(cs)
	if err != nil {
		return nil, err
	}

	return e.NewDecoder().Reader(input), nil
}
