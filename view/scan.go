package view

import (
	"strings"
)

// HeaderLine is one line of the header block.
type HeaderLine struct {
	// Key is the header name as written. Compare it case-insensitively.
	Key string

	// Value is the trimmed header value. It may be empty.
	Value string
}

// ScanHeaders splits rendered text into its header lines and the body that
// follows them.
//
// Blank lines before the header block are skipped. The header block ends at
// the first blank line, and everything after that line is returned as the
// remainder without change. If the first line with content is not a header,
// there is no header block and the remainder starts with that line.
//
// It fails with ErrEmptyInput if the text is blank and with ErrMalformedHeader
// if a line inside the header block is not a header.
func ScanHeaders(text string) ([]HeaderLine, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", ErrEmptyInput
	}

	rest := text
	for {
		line, after, _ := strings.Cut(rest, "\n")
		if strings.TrimSpace(line) != "" {
			break
		}
		rest = after
	}

	first, _, _ := strings.Cut(rest, "\n")
	if _, _, ok := splitHeader(first); !ok {
		return nil, rest, nil
	}

	var lines []HeaderLine
	for rest != "" {
		line, after, _ := strings.Cut(rest, "\n")
		rest = after

		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			return lines, rest, nil
		}

		key, value, ok := splitHeader(line)
		if !ok {
			return nil, "", &HeaderError{Name: line, Err: ErrMalformedHeader}
		}

		lines = append(lines, HeaderLine{Key: key, Value: value})
	}

	return lines, "", nil
}

// splitHeader splits a header line on its first colon. The key must be made
// of letters, digits, and dashes.
func splitHeader(line string) (string, string, bool) {
	key, value, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}

	for _, c := range key {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return "", "", false
		}
	}

	return key, strings.TrimSpace(value), true
}
