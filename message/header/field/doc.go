// Package field holds the low-level representation of a single header field
// along with the encoding and folding rules applied when a field is written.
package field
