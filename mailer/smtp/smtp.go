// Package smtp delivers messages to an SMTP server.
package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/zostay/go-postal/view"
)

// Security selects how the connection to the server is protected.
type Security string

const (
	SecurityNone     Security = "none"
	SecurityStartTLS Security = "starttls"
	SecurityTLS      Security = "tls"
)

// ErrUnknownSecurity is returned for a Security value that is not one of the
// constants above.
var ErrUnknownSecurity = errors.New("unknown smtp security")

// ParseSecurity returns the Security named by s. Blank means none.
func ParseSecurity(s string) (Security, error) {
	switch sec := Security(s); sec {
	case "":
		return SecurityNone, nil
	case SecurityNone, SecurityStartTLS, SecurityTLS:
		return sec, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSecurity, s)
	}
}

// Config describes the server to deliver to.
type Config struct {
	Host     string
	Port     int
	Security Security

	// Username and Password enable PLAIN authentication when both are set.
	Username string
	Password string

	// LocalName is sent with EHLO. Blank lets the client pick.
	LocalName string

	TLSConfig *tls.Config
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Sender delivers messages over SMTP, one connection per message.
type Sender struct {
	cfg    Config
	logger *log.Logger
}

// New returns a Sender for the server described by cfg.
func New(cfg Config, logger *log.Logger) *Sender {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Sender{cfg: cfg, logger: logger}
}

// Name returns "smtp".
func (s *Sender) Name() string {
	return "smtp"
}

func (s *Sender) tlsConfig() *tls.Config {
	if s.cfg.TLSConfig != nil {
		return s.cfg.TLSConfig
	}
	return &tls.Config{ServerName: s.cfg.Host}
}

func (s *Sender) dial() (*smtp.Client, error) {
	addr := s.cfg.Addr()
	switch s.cfg.Security {
	case SecurityTLS:
		return smtp.DialTLS(addr, s.tlsConfig())
	case SecurityStartTLS:
		return smtp.DialStartTLS(addr, s.tlsConfig())
	case SecurityNone, "":
		return smtp.Dial(addr)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSecurity, s.cfg.Security)
	}
}

// Send delivers msg to every To, Cc, and Bcc recipient.
func (s *Sender) Send(ctx context.Context, msg *view.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := msg.Bytes()
	if err != nil {
		return fmt.Errorf("writing message: %w", err)
	}

	c, err := s.dial()
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", s.cfg.Addr(), err)
	}
	defer c.Close()

	if s.cfg.LocalName != "" {
		if err := c.Hello(s.cfg.LocalName); err != nil {
			return err
		}
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth := sasl.NewPlainClient("", s.cfg.Username, s.cfg.Password)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("authenticating as %s: %w", s.cfg.Username, err)
		}
	}

	from := msg.EnvelopeFrom()
	rcpts := msg.Recipients()
	if err := c.SendMail(from, rcpts, bytes.NewReader(raw)); err != nil {
		return err
	}

	s.logger.Debug("delivered over smtp",
		"server", s.cfg.Addr(),
		"from", from,
		"recipients", rcpts,
		"bytes", len(raw))

	return c.Quit()
}
