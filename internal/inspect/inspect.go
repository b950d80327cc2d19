// Package inspect summarizes a written message by reading it back with an
// independent MIME reader.
package inspect

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"golang.org/x/text/encoding/charmap"
)

func init() {
	charset.RegisterEncoding("windows-1252", charmap.Windows1252)
	charset.RegisterEncoding("iso-8859-1", charmap.ISO8859_1)
	charset.RegisterEncoding("iso-8859-15", charmap.ISO8859_15)
}

// Part describes one leaf part of the message.
type Part struct {
	ContentType string
	Charset     string
	Filename    string
	ContentID   string
	Attachment  bool
	Size        int
	Text        string
}

// Summary describes a message.
type Summary struct {
	Subject   string
	From      []string
	To        []string
	Cc        []string
	ReplyTo   []string
	Date      time.Time
	MessageID string
	Priority  string
	Parts     []Part
}

// Read parses a message and summarizes it. The text of text/plain and
// text/html parts is decoded into Part.Text.
func Read(r io.Reader) (*Summary, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail reader: %w", err)
	}

	h := mr.Header
	s := &Summary{
		Priority: h.Get("Importance"),
	}

	if s.Subject, err = h.Subject(); err != nil {
		s.Subject = h.Get("Subject")
	}

	s.From = addresses(h, "From")
	s.To = addresses(h, "To")
	s.Cc = addresses(h, "Cc")
	s.ReplyTo = addresses(h, "Reply-To")

	if d, err := h.Date(); err == nil {
		s.Date = d
	}

	if id, err := h.MessageID(); err == nil {
		s.MessageID = id
	}

	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read part: %w", err)
		}

		body, err := io.ReadAll(p.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read part body: %w", err)
		}

		var sp Part
		sp.Size = len(body)

		switch ph := p.Header.(type) {
		case *mail.InlineHeader:
			ct, params, _ := ph.ContentType()
			sp.ContentType = ct
			sp.Charset = params["charset"]
			sp.ContentID = strings.Trim(ph.Get("Content-Id"), "<>")
			if strings.HasPrefix(ct, "text/") {
				sp.Text = string(body)
			}
		case *mail.AttachmentHeader:
			ct, _, _ := ph.ContentType()
			sp.ContentType = ct
			sp.Attachment = true
			sp.Filename, _ = ph.Filename()
		}

		s.Parts = append(s.Parts, sp)
	}

	return s, nil
}

func addresses(h mail.Header, key string) []string {
	al, err := h.AddressList(key)
	if err != nil {
		return nil
	}

	strs := make([]string, len(al))
	for i, a := range al {
		strs[i] = a.String()
	}
	return strs
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	partStyle  = lipgloss.NewStyle().Faint(true)
)

// Print writes a readable report of the summary.
func (s *Summary) Print(w io.Writer) error {
	line := func(label, value string) error {
		if value == "" {
			return nil
		}
		_, err := fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), value)
		return err
	}

	fields := []struct{ label, value string }{
		{"Subject", s.Subject},
		{"From", strings.Join(s.From, ", ")},
		{"To", strings.Join(s.To, ", ")},
		{"Cc", strings.Join(s.Cc, ", ")},
		{"Reply-To", strings.Join(s.ReplyTo, ", ")},
		{"Message-Id", s.MessageID},
		{"Importance", s.Priority},
	}
	if !s.Date.IsZero() {
		fields = append(fields, struct{ label, value string }{"Date", s.Date.Format(time.RFC1123Z)})
	}

	for _, f := range fields {
		if err := line(f.label, f.value); err != nil {
			return err
		}
	}

	for i, p := range s.Parts {
		desc := p.ContentType
		switch {
		case p.Attachment:
			desc += " attachment " + p.Filename
		case p.ContentID != "":
			desc += " inline cid:" + p.ContentID
		case p.Charset != "":
			desc += " charset=" + p.Charset
		}

		_, err := fmt.Fprintf(w, "%s %s %s\n",
			labelStyle.Render(fmt.Sprintf("Part %d:", i+1)),
			desc,
			partStyle.Render("("+humanize.Bytes(uint64(p.Size))+")"))
		if err != nil {
			return err
		}
	}

	return nil
}
