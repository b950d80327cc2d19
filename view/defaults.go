package view

import (
	"fmt"

	"github.com/zostay/go-addr/pkg/addr"
)

// defaultKeys lists, for each property that may be defaulted, the view data
// keys consulted in order.
var defaultKeys = []struct {
	kind HeaderKind
	keys []string
}{
	{KindTo, []string{"to"}},
	{KindFrom, []string{"from"}},
	{KindCc, []string{"cc"}},
	{KindBcc, []string{"bcc"}},
	{KindReplyTo, []string{"reply-to", "replyto"}},
	{KindSender, []string{"sender"}},
	{KindSubject, []string{"subject"}},
	{KindPriority, []string{"priority"}},
}

// addressExtractor pulls addresses out of one view data value. It reports
// false when the value is not of the type it handles.
type addressExtractor func(v any) (addr.AddressList, bool, error)

// addressExtractors are tried in order: the string form first, then the
// already parsed form.
var addressExtractors = []addressExtractor{
	func(v any) (addr.AddressList, bool, error) {
		s, ok := v.(string)
		if !ok {
			return nil, false, nil
		}
		al, err := parseAddresses(s)
		return al, len(al) > 0, err
	},
	func(v any) (addr.AddressList, bool, error) {
		al, ok := addressValue(v)
		return al, ok, nil
	},
}

// applyDefaults fills the properties the template left unset from the view
// data. List properties collect addresses from every matching entry. Single
// valued properties take the first match.
func (s *session) applyDefaults() error {
	for _, d := range defaultKeys {
		if s.explicit[d.kind] {
			continue
		}

		for _, key := range d.keys {
			v, ok := s.email.ViewData.Get(key)
			if !ok {
				continue
			}

			applied, err := s.applyDefault(d.kind, v)
			if err != nil {
				return &HeaderError{Name: key, Value: fmt.Sprint(v), Err: err}
			}

			if applied {
				s.p.logger.Debug("applied default", "key", key, "kind", d.kind)
			}
		}
	}

	return nil
}

func (s *session) applyDefault(kind HeaderKind, v any) (bool, error) {
	switch kind {
	case KindSubject:
		if s.explicit[kind] {
			return false, nil
		}
		if subj, ok := v.(string); ok {
			s.msg.Subject = subj
			s.explicit[kind] = true
			return true, nil
		}

	case KindPriority:
		if s.explicit[kind] {
			return false, nil
		}
		switch p := v.(type) {
		case string:
			pr, err := ParsePriority(p)
			if err != nil {
				return false, err
			}
			s.msg.Priority = pr
		case Priority:
			s.msg.Priority = p
		default:
			return false, nil
		}
		s.explicit[kind] = true
		return true, nil

	case KindSender:
		for _, extract := range addressExtractors {
			if s.explicit[kind] {
				break
			}

			al, ok, err := extract(v)
			if err == nil && ok && len(al) > 1 {
				err = ErrAddressParse
			}
			if err != nil {
				return false, err
			}
			if ok {
				s.msg.Sender = al[0]
				s.explicit[kind] = true
				return true, nil
			}
		}

	default:
		applied := false
		for _, extract := range addressExtractors {
			al, ok, err := extract(v)
			if err != nil {
				return false, err
			}
			if ok {
				s.addAddresses(kind, al)
				applied = true
			}
		}
		return applied, nil
	}

	return false, nil
}
