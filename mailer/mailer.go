// Package mailer turns an Email into a message and hands it to a Sender.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/zostay/go-postal/view"
)

// ErrNoRecipients is returned when a message has nobody to deliver to.
var ErrNoRecipients = errors.New("message has no recipients")

// Sender delivers a finished message.
type Sender interface {
	// Send delivers msg.
	Send(ctx context.Context, msg *view.Message) error

	// Name identifies the delivery mechanism in logs.
	Name() string
}

// Service renders, parses, and sends messages.
type Service struct {
	renderer view.Renderer
	parser   *view.Parser
	sender   Sender
	logger   *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithParserOptions passes options to the Parser the Service creates.
func WithParserOptions(opts ...view.Option) Option {
	return func(s *Service) {
		s.parser = view.NewParser(s.renderer, opts...)
	}
}

// New returns a Service that renders with r and delivers with sender. The
// sender may be nil if the Service is only used to create messages.
func New(r view.Renderer, sender Sender, opts ...Option) *Service {
	s := &Service{
		renderer: r,
		sender:   sender,
		logger:   log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.parser == nil {
		s.parser = view.NewParser(r, view.WithLogger(s.logger))
	}

	return s
}

// CreateMessage renders the email's view and parses the result.
func (s *Service) CreateMessage(ctx context.Context, email *view.Email) (*view.Message, error) {
	text, err := s.renderer.Render(ctx, email, email.ViewName)
	if err != nil {
		return nil, fmt.Errorf("rendering %q: %w", email.ViewName, err)
	}

	msg, err := s.parser.Parse(ctx, text, email)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", email.ViewName, err)
	}

	return msg, nil
}

// Send creates the message and delivers it.
func (s *Service) Send(ctx context.Context, email *view.Email) (*view.Message, error) {
	msg, err := s.CreateMessage(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.Deliver(ctx, msg); err != nil {
		return msg, err
	}

	return msg, nil
}

// Deliver hands an already created message to the Sender.
func (s *Service) Deliver(ctx context.Context, msg *view.Message) error {
	if s.sender == nil {
		return errors.New("no sender configured")
	}

	if len(msg.Recipients()) == 0 {
		return ErrNoRecipients
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending with %s: %w", s.sender.Name(), err)
	}

	s.logger.Info("message sent",
		"sender", s.sender.Name(),
		"subject", msg.Subject,
		"recipients", len(msg.Recipients()))

	return nil
}
