package header

// Break is the line break used when a header is written.
type Break string

// Line breaks a header may be written with. Messages bound for a mail server
// must use CRLF, which is also the default.
const (
	CRLF Break = "\x0d\x0a" // \r\n - network line break
	LF   Break = "\x0a"     // \n - Unix line break, handy for files and tests
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}
