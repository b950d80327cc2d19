package view

import (
	"strings"

	"github.com/zostay/go-addr/pkg/addr"
)

// ViewData holds values made available to the template as it renders. Some
// keys double as defaults for message properties the template leaves unset:
// to, from, cc, bcc, reply-to (or replyto), sender, subject, and priority.
// Each may be given as a string or as a parsed value, such as an
// addr.Address, an addr.AddressList, or a Priority.
type ViewData map[string]any

// Get returns the value stored under key. Keys are compared
// case-insensitively.
func (vd ViewData) Get(key string) (any, bool) {
	if v, ok := vd[key]; ok {
		return v, true
	}

	for k, v := range vd {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}

	return nil, false
}

// String returns the value stored under key if it is a string.
func (vd ViewData) String(key string) (string, bool) {
	v, ok := vd.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// addressValue extracts addresses from a value that is already parsed.
func addressValue(v any) (addr.AddressList, bool) {
	switch a := v.(type) {
	case addr.AddressList:
		return a, len(a) > 0
	case []addr.Address:
		return a, len(a) > 0
	case addr.Address:
		if a == nil {
			return nil, false
		}
		return addr.AddressList{a}, true
	}
	return nil, false
}
