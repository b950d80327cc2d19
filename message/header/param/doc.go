// Package param provides a tool for dealing with parameterized headers, such
// as Content-type and Content-disposition.
package param
