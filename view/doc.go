// Package view compiles the rendered output of a message template into a
// Message ready for delivery.
//
// Rendered output starts with a block of header lines, ends the block with a
// blank line, and continues with the body:
//
//	To: jane@example.com
//	Subject: Welcome
//	Views: Text, Html
//
//	This body is used only when no alternative views are named.
//
// A few headers are interpreted. To, From, Cc, Bcc, Reply-To, and Sender hold
// addresses. Subject and Priority set those properties. Content-Type may name
// a charset for the body. Views names alternative views, which are rendered
// separately to supply the plain text and HTML bodies. Every other header is
// copied to the message as-is.
package view
