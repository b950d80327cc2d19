package view

import (
	"context"
	"regexp"
	"strings"

	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-postal/message/header"
)

// EmptyHeaderValue replaces the value of a passed-through header that was left
// blank, so the header is still written.
const EmptyHeaderValue = "   (empty)"

// HeaderKind tells how a header of the rendered template is interpreted.
type HeaderKind int

const (
	KindUnrecognized HeaderKind = iota // copied to the message as-is
	KindTo
	KindFrom
	KindCc
	KindBcc
	KindReplyTo
	KindSender
	KindSubject
	KindPriority
	KindContentType
	KindViews
)

var kindNames = map[HeaderKind]string{
	KindUnrecognized: "unrecognized",
	KindTo:           "to",
	KindFrom:         "from",
	KindCc:           "cc",
	KindBcc:          "bcc",
	KindReplyTo:      "reply-to",
	KindSender:       "sender",
	KindSubject:      "subject",
	KindPriority:     "priority",
	KindContentType:  "content-type",
	KindViews:        "views",
}

var kindsByName = func() map[string]HeaderKind {
	m := make(map[string]HeaderKind, len(kindNames))
	for k, n := range kindNames {
		if k != KindUnrecognized {
			m[n] = k
		}
	}
	return m
}()

// ClassifyHeader returns the kind of the named header.
func ClassifyHeader(key string) HeaderKind {
	return kindsByName[strings.ToLower(strings.TrimSpace(key))]
}

// String returns the lower-case header name of the kind.
func (k HeaderKind) String() string {
	return kindNames[k]
}

var charsetPattern = regexp.MustCompile(`(?i)\bcharset\s*=\s*(.*)$`)

// charsetParam finds the charset parameter of a Content-Type value.
func charsetParam(value string) string {
	m := charsetPattern.FindStringSubmatch(value)
	if m == nil {
		return ""
	}

	cs, _, _ := strings.Cut(m[1], ";")
	return strings.Trim(strings.TrimSpace(cs), `"'`)
}

// parseAddresses parses the value of an address header, which may hold a
// comma separated list. A blank value holds no addresses.
func parseAddresses(value string) (addr.AddressList, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	al := header.ParseAddressList(value)
	for _, a := range al {
		email := a.Address()
		at := strings.LastIndex(email, "@")
		if at <= 0 || at == len(email)-1 {
			return nil, ErrAddressParse
		}
	}

	return al, nil
}

// dispatch applies one header line to the message.
func (s *session) dispatch(ctx context.Context, line HeaderLine) error {
	kind := ClassifyHeader(line.Key)
	s.p.logger.Debug("dispatching header", "header", line.Key, "kind", kind)

	switch kind {
	case KindTo, KindFrom, KindCc, KindBcc, KindReplyTo:
		al, err := parseAddresses(line.Value)
		if err != nil {
			return &HeaderError{Name: line.Key, Value: line.Value, Err: err}
		}
		if len(al) > 0 {
			s.addAddresses(kind, al)
			s.explicit[kind] = true
		}

	case KindSender:
		al, err := parseAddresses(line.Value)
		if err == nil && len(al) > 1 {
			err = ErrAddressParse
		}
		if err != nil {
			return &HeaderError{Name: line.Key, Value: line.Value, Err: err}
		}
		if len(al) > 0 && !s.explicit[KindSender] {
			s.msg.Sender = al[0]
			s.explicit[KindSender] = true
		}

	case KindSubject:
		if line.Value != "" && !s.explicit[KindSubject] {
			s.msg.Subject = line.Value
			s.explicit[KindSubject] = true
		}

	case KindPriority:
		p, err := ParsePriority(line.Value)
		if err != nil {
			return &HeaderError{Name: line.Key, Value: line.Value, Err: err}
		}
		s.msg.Priority = p
		s.explicit[KindPriority] = true

	case KindContentType:
		if cs := charsetParam(line.Value); cs != "" {
			s.msg.Charset = cs
		}

	case KindViews:
		return s.compose(ctx, line.Value)

	default:
		value := line.Value
		if strings.TrimSpace(value) == "" {
			value = EmptyHeaderValue
		}
		s.msg.Headers.Set(line.Key, value)
	}

	return nil
}

func (s *session) addAddresses(kind HeaderKind, al addr.AddressList) {
	switch kind {
	case KindTo:
		s.msg.To = append(s.msg.To, al...)
	case KindFrom:
		s.msg.From = append(s.msg.From, al...)
	case KindCc:
		s.msg.Cc = append(s.msg.Cc, al...)
	case KindBcc:
		s.msg.Bcc = append(s.msg.Bcc, al...)
	case KindReplyTo:
		s.msg.ReplyTo = append(s.msg.ReplyTo, al...)
	}
}
