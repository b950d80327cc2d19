package view

import (
	"bytes"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-postal/message"
	"github.com/zostay/go-postal/message/charset"
	"github.com/zostay/go-postal/message/header"
	"github.com/zostay/go-postal/message/header/param"
	"github.com/zostay/go-postal/message/transfer"
	"github.com/zostay/go-postal/message/walker"
	"github.com/zostay/go-postal/view/image"
)

// PlainTextNotAvailable is the plain text body of a message that embeds images
// but was given no alternative views.
const PlainTextNotAvailable = "Plain text not available."

// Message is a compiled message. Build it with a Parser and write it out with
// WriteTo.
type Message struct {
	To      addr.AddressList
	From    addr.AddressList
	Cc      addr.AddressList
	Bcc     addr.AddressList
	ReplyTo addr.AddressList
	Sender  addr.Address

	Subject  string
	Priority Priority

	// Headers holds every other header of the message, including those the
	// template passed through.
	Headers header.Header

	// Charset is the character set the bodies are written in. Blank means
	// UTF-8.
	Charset string

	TextBody string
	HTMLBody string

	LinkedResources []*image.Resource
	Attachments     []Attachment
}

// Recipients returns the address of every To, Cc, and Bcc recipient, without
// duplicates.
func (m *Message) Recipients() []string {
	seen := map[string]struct{}{}
	var rcpts []string
	for _, al := range []addr.AddressList{m.To, m.Cc, m.Bcc} {
		for _, a := range al {
			email := a.Address()
			key := strings.ToLower(email)
			if _, dup := seen[key]; dup || email == "" {
				continue
			}
			seen[key] = struct{}{}
			rcpts = append(rcpts, email)
		}
	}
	return rcpts
}

// EnvelopeFrom returns the address to use as the envelope sender: the Sender
// if there is one, or else the first From address.
func (m *Message) EnvelopeFrom() string {
	if m.Sender != nil {
		return m.Sender.Address()
	}
	if len(m.From) > 0 {
		return m.From[0].Address()
	}
	return ""
}

// Generic builds the MIME structure of the message. The bodies form a
// multipart/alternative, which is wrapped with the linked resources in a
// multipart/related, which is wrapped with the attachments in a
// multipart/mixed. A level with nothing to add is left out. Bcc is not
// written.
func (m *Message) Generic() (message.Generic, error) {
	cs, err := charset.Canonical(m.Charset)
	if err != nil {
		return nil, err
	}

	var bodies []message.Part
	if m.TextBody != "" || m.HTMLBody == "" {
		p, err := textPart("text/plain", cs, m.TextBody)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, p)
	}
	if m.HTMLBody != "" {
		p, err := textPart("text/html", cs, m.HTMLBody)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, p)
	}

	root := bodies[0]
	if len(bodies) > 1 {
		root = message.MultipartAlternative(bodies...)
	}

	if len(m.LinkedResources) > 0 {
		related := message.MultipartRelated(root)
		for _, r := range m.LinkedResources {
			b, err := r.Bytes()
			if err != nil {
				return nil, err
			}
			related.Add(message.InlineBytes(r.ContentID, r.Filename(), r.ContentType, transfer.Base64, b))
		}
		root = related
	}

	if len(m.Attachments) > 0 {
		mixed := message.MultipartMixed(root)
		for _, a := range m.Attachments {
			p, err := attachmentPart(a)
			if err != nil {
				return nil, err
			}
			mixed.Add(p)
		}
		root = mixed
	}

	if err := m.setBoundaries(root); err != nil {
		return nil, err
	}

	h := m.header()
	for _, f := range root.GetHeader().ListFields() {
		h.Add(f.Name(), f.Body())
	}
	*root.GetHeader() = *h

	return root, nil
}

// setBoundaries gives every multipart level a boundary found in neither the
// bodies nor the boundaries of the other levels.
func (m *Message) setBoundaries(root message.Part) error {
	seen := m.TextBody + m.HTMLBody
	var w walker.PartWalker = func(_, _ int, p message.Part) error {
		b := message.GenerateSafeBoundary(seen)
		seen += "\n" + b
		return p.GetHeader().SetBoundary(b)
	}
	return w.WalkMultipart(root)
}

// header returns the top-level header fields that precede the MIME fields.
func (m *Message) header() *header.Header {
	h := &header.Header{}
	h.SetBreak(m.Headers.Break())

	h.SetFrom(m.From)
	if m.Sender != nil {
		h.SetSender(addr.AddressList{m.Sender})
	}
	h.SetTo(m.To)
	h.SetCc(m.Cc)
	h.SetReplyTo(m.ReplyTo)
	if m.Subject != "" {
		h.SetSubject(m.Subject)
	}

	for _, f := range m.Headers.ListFields() {
		h.Set(f.Name(), f.Body())
	}

	m.Priority.apply(h)

	return h
}

// WriteTo writes the message in MIME format.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	g, err := m.Generic()
	if err != nil {
		return 0, err
	}
	return g.WriteTo(w)
}

// Bytes returns the message in MIME format.
func (m *Message) Bytes() ([]byte, error) {
	buf := &bytes.Buffer{}
	if _, err := m.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func textPart(mt, cs, body string) (message.Part, error) {
	b, err := charset.Encode(cs, body)
	if err != nil {
		return nil, err
	}

	buf := &message.Buffer{}
	buf.SetContentType(param.NewWithParams(mt, map[string]string{param.Charset: cs}))
	buf.SetTransferEncoding(transfer.QuotedPrintable)
	if _, err := buf.Write(b); err != nil {
		return nil, err
	}

	op, err := buf.Opaque()
	if err != nil {
		return nil, err
	}
	return op, nil
}

func attachmentPart(a Attachment) (message.Part, error) {
	fn := a.Filename
	if fn == "" {
		fn = filepath.Base(a.Path)
	}

	ct := a.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(filepath.Ext(fn))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}

	if a.Content == nil && a.Path != "" {
		p, err := message.AttachmentFile(a.Path, ct, transfer.Base64)
		if err != nil {
			return nil, err
		}
		if a.Filename != "" {
			_ = p.SetFilename(a.Filename)
		}
		return p, nil
	}

	return message.AttachmentBytes(fn, ct, transfer.Base64, a.Content), nil
}
