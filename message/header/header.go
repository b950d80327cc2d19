package header

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-postal/message/header/param"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned when the named field is not set.
	ErrNoSuchField = errors.New("no such header field")

	// ErrNoSuchFieldParameter is returned when the field is set, but the
	// requested parameter of the field is not.
	ErrNoSuchFieldParameter = errors.New("no such header field parameter")

	// ErrManyFields is returned when a single value was asked for, but the
	// field is set more than once.
	ErrManyFields = errors.New("many header fields found")
)

// Standard header field names.
const (
	Bcc                     = "Bcc"
	Cc                      = "Cc"
	ContentDisposition      = "Content-Disposition"
	ContentID               = "Content-Id"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	From                    = "From"
	Importance              = "Importance"
	MessageID               = "Message-Id"
	MIMEVersion             = "Mime-Version"
	Priority                = "Priority"
	ReplyTo                 = "Reply-To"
	Sender                  = "Sender"
	Subject                 = "Subject"
	To                      = "To"
	XMSMailPriority         = "X-Msmail-Priority"
	XPriority               = "X-Priority"
)

// Header wraps a Base with typed getters and setters for the fields a
// generated message cares about.
//
// Getters return ErrNoSuchField when the field is not present.
type Header struct {
	Base
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() *Header {
	return &Header{Base: *h.Base.Clone()}
}

// Get returns the body of the named field. If the field is set more than once,
// the first body is returned along with ErrManyFields.
func (h *Header) Get(name string) (string, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return "", ErrNoSuchField
	}

	b := h.GetField(ixs[0]).Body()
	if len(ixs) > 1 {
		return b, ErrManyFields
	}

	return b, nil
}

// GetAll returns the bodies of every field with the given name.
func (h *Header) GetAll(name string) ([]string, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	bs := make([]string, len(fs))
	for i, f := range fs {
		bs[i] = f.Body()
	}
	return bs, nil
}

// Set replaces every field with the given name with a single field. The first
// existing occurrence keeps its place in the header; otherwise the field is
// appended.
func (h *Header) Set(name, body string) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		h.InsertBeforeField(h.Len(), name, body)
		return
	}

	for i := len(ixs) - 1; i > 0; i-- {
		_ = h.DeleteField(ixs[i])
	}

	f := h.GetField(ixs[0])
	f.SetName(name)
	f.SetBody(body)
}

// Add appends a field without touching existing fields of the same name.
func (h *Header) Add(name, body string) {
	h.InsertBeforeField(h.Len(), name, body)
}

// Delete removes every field with the given name.
func (h *Header) Delete(name string) {
	ixs := h.GetIndexesNamed(name)
	for i := len(ixs) - 1; i >= 0; i-- {
		_ = h.DeleteField(ixs[i])
	}
}

// Has returns true if at least one field with the given name is present.
func (h *Header) Has(name string) bool {
	return len(h.GetIndexesNamed(name)) > 0
}

// ParseTime parses a date field body, first as RFC 5322 and then in whatever
// format dateparse can make sense of.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetTime parses the named field as a date.
func (h *Header) GetTime(name string) (time.Time, error) {
	body, err := h.Get(name)
	if err != nil {
		return time.Time{}, err
	}
	return ParseTime(body)
}

// SetTime sets the named field to the given time formatted per RFC 5322.
func (h *Header) SetTime(name string, body time.Time) {
	h.Set(name, body.Format(time.RFC1123Z))
}

// GetDate returns the Date field as a time.Time.
func (h *Header) GetDate() (time.Time, error) {
	return h.GetTime(Date)
}

// SetDate sets the Date field.
func (h *Header) SetDate(d time.Time) {
	h.SetTime(Date, d)
}

// ParseAddressList parses an address list. It tries the strict RFC 5322
// parser first and falls back to a forgiving parser that always produces
// something, even if that something is odd.
func ParseAddressList(body string) addr.AddressList {
	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		al = parseEmailAddressList(body)
	}
	return al
}

// GetAddressList parses the named field as an address list. When the field is
// repeated, the addresses of every occurrence are returned in order.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	bs, err := h.GetAll(name)
	if err != nil {
		return nil, err
	}

	var al addr.AddressList
	for _, b := range bs {
		al = append(al, ParseAddressList(b)...)
	}
	return al, nil
}

// SetAddressList replaces the named field with the given addresses. An empty
// list removes the field.
func (h *Header) SetAddressList(name string, al addr.AddressList) {
	if len(al) == 0 {
		h.Delete(name)
		return
	}

	h.Set(name, al.String())
}

// GetParamValue parses the named field as a param.Value.
func (h *Header) GetParamValue(name string) (*param.Value, error) {
	body, err := h.Get(name)
	if err != nil {
		return nil, err
	}
	return param.Parse(body)
}

// SetParamValue replaces the named field with the given param.Value.
func (h *Header) SetParamValue(name string, v *param.Value) {
	h.Set(name, v.String())
}

// setParamValueValue sets the primary value of a parameterized field while
// keeping any parameters it already has.
func (h *Header) setParamValueValue(name, v string) {
	pv, err := h.GetParamValue(name)
	if err != nil {
		pv = param.New(v)
	} else {
		pv = param.Modify(pv, param.Change(v))
	}
	h.SetParamValue(name, pv)
}

func (h *Header) getParamValueParam(name, p string) (string, error) {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return "", err
	}

	if v := pv.Parameter(p); v != "" {
		return v, nil
	}
	return "", ErrNoSuchFieldParameter
}

// setParamValueParam sets a parameter on an existing parameterized field.
func (h *Header) setParamValueParam(name, p, v string) error {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return err
	}

	h.SetParamValue(name, param.Modify(pv, param.Set(p, v)))
	return nil
}

// GetContentType returns the Content-Type field as a param.Value.
func (h *Header) GetContentType() (*param.Value, error) {
	return h.GetParamValue(ContentType)
}

// SetContentType replaces the Content-Type field.
func (h *Header) SetContentType(v *param.Value) {
	h.SetParamValue(ContentType, v)
}

// GetMediaType returns the media type of the Content-Type field.
func (h *Header) GetMediaType() (string, error) {
	pv, err := h.GetContentType()
	if err != nil {
		return "", err
	}
	return pv.MediaType(), nil
}

// SetMediaType sets the media type of the Content-Type field, creating the
// field if needed and preserving its parameters otherwise.
func (h *Header) SetMediaType(mt string) {
	h.setParamValueValue(ContentType, mt)
}

// GetCharset returns the charset parameter of the Content-Type field.
func (h *Header) GetCharset() (string, error) {
	return h.getParamValueParam(ContentType, param.Charset)
}

// SetCharset sets the charset parameter of an existing Content-Type field.
func (h *Header) SetCharset(c string) error {
	return h.setParamValueParam(ContentType, param.Charset, c)
}

// GetBoundary returns the boundary parameter of the Content-Type field.
func (h *Header) GetBoundary() (string, error) {
	return h.getParamValueParam(ContentType, param.Boundary)
}

// SetBoundary sets the boundary parameter of an existing Content-Type field.
func (h *Header) SetBoundary(b string) error {
	return h.setParamValueParam(ContentType, param.Boundary, b)
}

// GetPresentation returns the disposition of the Content-Disposition field,
// e.g. "inline" or "attachment".
func (h *Header) GetPresentation() (string, error) {
	pv, err := h.GetParamValue(ContentDisposition)
	if err != nil {
		return "", err
	}
	return pv.Disposition(), nil
}

// SetPresentation sets the disposition of the Content-Disposition field.
func (h *Header) SetPresentation(d string) {
	h.setParamValueValue(ContentDisposition, d)
}

// GetFilename returns the filename parameter of Content-Disposition.
func (h *Header) GetFilename() (string, error) {
	return h.getParamValueParam(ContentDisposition, param.Filename)
}

// SetFilename sets the filename parameter of an existing Content-Disposition
// field.
func (h *Header) SetFilename(f string) error {
	return h.setParamValueParam(ContentDisposition, param.Filename, f)
}

// GetSubject returns the Subject field.
func (h *Header) GetSubject() (string, error) {
	return h.Get(Subject)
}

// SetSubject replaces the Subject field.
func (h *Header) SetSubject(s string) {
	h.Set(Subject, s)
}

// GetTo returns the To field as an address list.
func (h *Header) GetTo() (addr.AddressList, error) { return h.GetAddressList(To) }

// SetTo replaces the To field.
func (h *Header) SetTo(al addr.AddressList) { h.SetAddressList(To, al) }

// GetCc returns the Cc field as an address list.
func (h *Header) GetCc() (addr.AddressList, error) { return h.GetAddressList(Cc) }

// SetCc replaces the Cc field.
func (h *Header) SetCc(al addr.AddressList) { h.SetAddressList(Cc, al) }

// GetBcc returns the Bcc field as an address list.
func (h *Header) GetBcc() (addr.AddressList, error) { return h.GetAddressList(Bcc) }

// SetBcc replaces the Bcc field.
func (h *Header) SetBcc(al addr.AddressList) { h.SetAddressList(Bcc, al) }

// GetFrom returns the From field as an address list.
func (h *Header) GetFrom() (addr.AddressList, error) { return h.GetAddressList(From) }

// SetFrom replaces the From field.
func (h *Header) SetFrom(al addr.AddressList) { h.SetAddressList(From, al) }

// GetReplyTo returns the Reply-To field as an address list.
func (h *Header) GetReplyTo() (addr.AddressList, error) { return h.GetAddressList(ReplyTo) }

// SetReplyTo replaces the Reply-To field.
func (h *Header) SetReplyTo(al addr.AddressList) { h.SetAddressList(ReplyTo, al) }

// GetSender returns the Sender field as an address list.
func (h *Header) GetSender() (addr.AddressList, error) { return h.GetAddressList(Sender) }

// SetSender replaces the Sender field.
func (h *Header) SetSender(al addr.AddressList) { h.SetAddressList(Sender, al) }

// GetMessageID returns the Message-Id field.
func (h *Header) GetMessageID() (string, error) {
	return h.Get(MessageID)
}

// SetMessageID sets the Message-Id field. Angle brackets are added if the
// given id lacks them.
func (h *Header) SetMessageID(id string) {
	h.Set(MessageID, bracket(id))
}

// GetContentID returns the Content-Id field without its angle brackets.
func (h *Header) GetContentID() (string, error) {
	id, err := h.Get(ContentID)
	return strings.TrimSuffix(strings.TrimPrefix(id, "<"), ">"), err
}

// SetContentID sets the Content-Id field used to reference an inline part
// from an HTML body via a cid: URL.
func (h *Header) SetContentID(id string) {
	h.Set(ContentID, bracket(id))
}

// GetTransferEncoding returns the Content-Transfer-Encoding field.
func (h *Header) GetTransferEncoding() (string, error) {
	return h.Get(ContentTransferEncoding)
}

// SetTransferEncoding replaces the Content-Transfer-Encoding field.
func (h *Header) SetTransferEncoding(b string) {
	h.Set(ContentTransferEncoding, b)
}

func bracket(id string) string {
	if strings.HasPrefix(id, "<") {
		return id
	}
	return "<" + id + ">"
}

// parseEmailAddressList is the forgiving fallback for ParseAddressList. It:
//
// 1. Splits the string on commas.
// 2. Strips parenthesized comments from each piece and keeps them.
// 3. Treats the last word as the address and any words before it as the
// display name, after removing angle brackets and quotes.
//
// Pieces that end up empty are dropped. Groups are never produced.
func parseEmailAddressList(v string) addr.AddressList {
	extractComments := func(s string) (string, string) {
		var clean, comment strings.Builder
		nestLevel := 0
		for _, c := range s {
			switch {
			case c == '(':
				nestLevel++
				if nestLevel > 1 {
					comment.WriteRune(c)
				}
			case c == ')':
				nestLevel--
				switch {
				case nestLevel == 0:
				case nestLevel < 0:
					nestLevel = 0
					clean.WriteRune(c)
				default:
					comment.WriteRune(c)
				}
			case nestLevel > 0:
				comment.WriteRune(c)
			default:
				clean.WriteRune(c)
			}
		}

		return clean.String(), comment.String()
	}

	mbs := strings.Split(v, ",")
	as := make(addr.AddressList, 0, len(mbs))
	for _, orig := range mbs {
		mb, com := extractComments(orig)
		com = strings.TrimSpace(com)

		parts := strings.Fields(mb)
		if len(parts) == 0 {
			continue
		}

		email := strings.Trim(parts[len(parts)-1], "<>")
		dn := strings.Trim(strings.Join(parts[:len(parts)-1], " "), `"`)
		if email == "" {
			continue
		}

		var addrSpec *addr.AddrSpec
		if i := strings.LastIndex(email, "@"); i > -1 {
			addrSpec = addr.NewAddrSpecParsed(email[:i], email[i+1:], email)
		} else {
			addrSpec = addr.NewAddrSpecParsed(email, "", email)
		}

		mailbox, err := addr.NewMailboxParsed(dn, addrSpec, com, strings.TrimSpace(orig))
		if err != nil {
			mailbox, _ = addr.NewMailboxParsed(dn, addrSpec, "", strings.TrimSpace(orig))
		}

		as = append(as, mailbox)
	}

	return as
}
