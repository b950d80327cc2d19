package view

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zostay/go-postal/message/header"
)

// assemble finishes the message. When no alternative view supplied a body,
// the remainder of the rendered text becomes the body.
func (s *session) assemble(remainder string) *Message {
	m := s.msg

	if len(s.composed) == 0 {
		body := strings.TrimSpace(remainder)
		switch {
		case s.email.Images != nil && s.email.Images.HasImages():
			m.TextBody = PlainTextNotAvailable
			m.HTMLBody = body
			s.mergeResources()
		case strings.HasPrefix(body, "<"):
			m.HTMLBody = body
		default:
			m.TextBody = body
		}
	}

	m.Attachments = append(m.Attachments, s.email.Attachments...)

	if !m.Headers.Has(header.Date) {
		m.Headers.SetDate(s.p.now())
	}

	if !m.Headers.Has(header.MessageID) {
		m.Headers.SetMessageID(s.messageID())
	}

	if !m.Headers.Has(header.MIMEVersion) {
		m.Headers.Set(header.MIMEVersion, "1.0")
	}

	return m
}

// messageID generates a unique Message-Id in the domain of the sender.
func (s *session) messageID() string {
	domain := s.p.hostname
	from := s.msg.EnvelopeFrom()
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}

	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
