// Package header provides the header of a generated email message: an ordered
// list of fields with typed accessors for addresses, dates, and parameterized
// fields like Content-Type and Content-Disposition.
package header
