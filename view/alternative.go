package view

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/zostay/go-postal/message/header/param"
)

// SplitViewNames splits the value of a Views header into view name suffixes.
// Commas, semicolons, and whitespace all separate names.
func SplitViewNames(value string) []string {
	return strings.FieldsFunc(value, func(c rune) bool {
		return c == ',' || c == ';' || c == ' ' || c == '\t'
	})
}

// AlternativeViewName derives the name of an alternative view from the name
// of the base view. A base name starting with "~" is a path, and the suffix
// goes before its extension: "~/Emails/Welcome.tmpl" with suffix "Html" is
// "~/Emails/Welcome.Html.tmpl". Any other base name gets the suffix appended:
// "Welcome" becomes "Welcome.Html".
func AlternativeViewName(base, suffix string) string {
	if strings.HasPrefix(base, "~") {
		if ext := path.Ext(base); ext != "" {
			return strings.TrimSuffix(base, ext) + "." + suffix + ext
		}
	}
	return base + "." + suffix
}

// compose renders every alternative view named in the value of a Views
// header and assigns each result to the matching body.
func (s *session) compose(ctx context.Context, value string) error {
	suffixes := SplitViewNames(value)
	if len(suffixes) == 0 {
		return nil
	}

	if s.p.renderer == nil {
		return &ViewError{View: value, Err: ErrNoRenderer}
	}

	for _, suffix := range suffixes {
		if err := s.composeView(ctx, suffix); err != nil {
			return err
		}
	}

	return nil
}

func (s *session) composeView(ctx context.Context, suffix string) error {
	name := AlternativeViewName(s.email.ViewName, suffix)

	out, err := s.p.renderer.Render(ctx, s.email, name)
	if err != nil {
		return &ViewError{View: name, Err: err}
	}

	lines, body, err := ScanHeaders(out)
	if err != nil {
		return &ViewError{View: name, Err: err}
	}

	mt, cs, err := alternativeContentType(suffix, lines)
	if err != nil {
		return &ViewError{View: name, Err: err}
	}

	if prev, dup := s.composed[mt]; dup {
		return &ViewError{
			View: name,
			Err:  fmt.Errorf("%w: %s came from %q", ErrDuplicateAlternativeView, mt, prev),
		}
	}

	switch mt {
	case "text/plain":
		s.msg.TextBody = body
	case "text/html":
		s.msg.HTMLBody = body
	}

	if cs != "" && s.msg.Charset == "" {
		s.msg.Charset = cs
	}

	s.composed[mt] = name
	s.mergeResources()

	s.p.logger.Debug("composed alternative view", "view", name, "type", mt)

	return nil
}

// alternativeContentType returns the media type and charset declared by an
// alternative view, or infers the media type from the view's suffix.
func alternativeContentType(suffix string, lines []HeaderLine) (string, string, error) {
	for _, line := range lines {
		if ClassifyHeader(line.Key) != KindContentType || line.Value == "" {
			continue
		}

		pv, err := param.Parse(line.Value)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrUnsupportedAlternativeViewContentType, err)
		}

		switch mt := pv.MediaType(); mt {
		case "text/plain", "text/html":
			return mt, pv.Charset(), nil
		default:
			return "", "", fmt.Errorf("%w: %s", ErrUnsupportedAlternativeViewContentType, mt)
		}
	}

	switch strings.ToLower(suffix) {
	case "text":
		return "text/plain", "", nil
	case "html":
		return "text/html", "", nil
	}

	return "", "", ErrUnknownAlternativeViewContentType
}

// mergeResources adds every image referenced so far to the message, skipping
// those already added.
func (s *session) mergeResources() {
	if s.email.Images == nil {
		return
	}

	have := make(map[string]struct{}, len(s.msg.LinkedResources))
	for _, r := range s.msg.LinkedResources {
		have[r.ContentID] = struct{}{}
	}

	for _, r := range s.email.Images.Resources() {
		if _, ok := have[r.ContentID]; ok {
			continue
		}
		have[r.ContentID] = struct{}{}
		s.msg.LinkedResources = append(s.msg.LinkedResources, r)
	}
}
