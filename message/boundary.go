package message

import (
	"math/rand"
	"strings"
)

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// GenerateBoundary will generate a random MIME boundary that is probably unique
// in most circumstances.
func GenerateBoundary() string {
	s := make([]rune, 30)
	for i := range s {
		s[i] = letters[rand.Intn(len(letters))] //nolint:gosec // uniqueness, not secrecy
	}
	return string(s)
}

// GenerateSafeBoundary will generate a random MIME boundary that does not
// appear anywhere in the given contents.
func GenerateSafeBoundary(contents string) string {
	for {
		boundary := GenerateBoundary()
		if !strings.Contains(contents, boundary) {
			return boundary
		}
	}
}
