package view

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Renderer renders a named view of an email into text. The Parser calls it to
// render alternative views.
type Renderer interface {
	Render(ctx context.Context, email *Email, viewName string) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, email *Email, viewName string) (string, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, email *Email, viewName string) (string, error) {
	return f(ctx, email, viewName)
}

// Parser compiles rendered templates into messages.
type Parser struct {
	renderer Renderer
	logger   *log.Logger
	now      func() time.Time
	hostname string
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger the Parser reports its progress to.
func WithLogger(l *log.Logger) Option {
	return func(p *Parser) {
		p.logger = l
	}
}

// WithClock sets the function used to date messages.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// WithHostname sets the domain used in a generated Message-Id when the
// message has no From address to take one from.
func WithHostname(h string) Option {
	return func(p *Parser) {
		p.hostname = h
	}
}

// NewParser returns a Parser that renders alternative views with r. The
// renderer may be nil if templates never name alternative views.
func NewParser(r Renderer, opts ...Option) *Parser {
	p := &Parser{
		renderer: r,
		logger:   log.New(io.Discard),
		now:      time.Now,
		hostname: "localhost",
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse compiles text, the rendered output of email's view, into a Message.
// Any failure aborts the whole message.
func (p *Parser) Parse(ctx context.Context, text string, email *Email) (*Message, error) {
	if email == nil {
		email = NewEmail("")
	}

	lines, remainder, err := ScanHeaders(text)
	if err != nil {
		return nil, err
	}

	s := newSession(p, email)
	for _, line := range lines {
		if err := s.dispatch(ctx, line); err != nil {
			return nil, err
		}
	}

	if err := s.applyDefaults(); err != nil {
		return nil, err
	}

	msg := s.assemble(remainder)

	p.logger.Debug("parsed message",
		"view", email.ViewName,
		"subject", msg.Subject,
		"recipients", len(msg.Recipients()),
		"resources", len(msg.LinkedResources),
		"attachments", len(msg.Attachments))

	return msg, nil
}

// session holds the state of one Parse call.
type session struct {
	p     *Parser
	email *Email
	msg   *Message

	// explicit records the properties set by the template itself.
	explicit map[HeaderKind]bool

	// composed maps each body media type to the alternative view that
	// supplied it.
	composed map[string]string
}

func newSession(p *Parser, email *Email) *session {
	return &session{
		p:        p,
		email:    email,
		msg:      &Message{},
		explicit: map[HeaderKind]bool{},
		composed: map[string]string{},
	}
}
