package smtp_test

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-postal/mailer/smtp"
	"github.com/zostay/go-postal/view"
)

type received struct {
	user  string
	from  string
	rcpts []string
	data  string
}

type backend struct {
	mu   sync.Mutex
	msgs []*received
}

func (b *backend) NewSession(*gosmtp.Conn) (gosmtp.Session, error) {
	return &session{b: b, r: &received{}}, nil
}

type session struct {
	b *backend
	r *received
}

func (s *session) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *session) Auth(string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(_, username, password string) error {
		if username != "alice" || password != "secret" {
			return errors.New("bad credentials")
		}
		s.r.user = username
		return nil
	}), nil
}

func (s *session) Mail(from string, _ *gosmtp.MailOptions) error {
	s.r.from = from
	return nil
}

func (s *session) Rcpt(to string, _ *gosmtp.RcptOptions) error {
	s.r.rcpts = append(s.r.rcpts, to)
	return nil
}

func (s *session) Data(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.r.data = string(b)

	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	s.b.msgs = append(s.b.msgs, s.r)
	s.r = &received{user: s.r.user}
	return nil
}

func (s *session) Reset()        {}
func (s *session) Logout() error { return nil }

func startServer(t *testing.T) (*backend, string, int) {
	t.Helper()

	be := &backend{}
	srv := gosmtp.NewServer(be)
	srv.Domain = "localhost"
	srv.AllowInsecureAuth = true

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	tcp := l.Addr().(*net.TCPAddr)
	return be, "127.0.0.1", tcp.Port
}

func testMessage(t *testing.T) *view.Message {
	t.Helper()

	from, err := addr.ParseEmailAddressList("sender@example.com")
	require.NoError(t, err)
	to, err := addr.ParseEmailAddressList("to@example.com, other@example.com")
	require.NoError(t, err)
	bcc, err := addr.ParseEmailAddressList("hidden@example.com")
	require.NoError(t, err)

	return &view.Message{
		From:     from,
		To:       to,
		Bcc:      bcc,
		Subject:  "Hello",
		TextBody: "Hi there.",
	}
}

func TestParseSecurity(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]smtp.Security{
		"":         smtp.SecurityNone,
		"none":     smtp.SecurityNone,
		"starttls": smtp.SecurityStartTLS,
		"tls":      smtp.SecurityTLS,
	} {
		got, err := smtp.ParseSecurity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := smtp.ParseSecurity("ssl")
	assert.ErrorIs(t, err, smtp.ErrUnknownSecurity)
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	be, host, port := startServer(t)
	s := smtp.New(smtp.Config{Host: host, Port: port}, nil)
	assert.Equal(t, "smtp", s.Name())

	err := s.Send(context.Background(), testMessage(t))
	require.NoError(t, err)

	be.mu.Lock()
	defer be.mu.Unlock()
	require.Len(t, be.msgs, 1)

	got := be.msgs[0]
	assert.Equal(t, "", got.user)
	assert.Equal(t, "sender@example.com", got.from)
	assert.Equal(t, []string{"to@example.com", "other@example.com", "hidden@example.com"}, got.rcpts)
	assert.Contains(t, got.data, "Subject: Hello")
	assert.Contains(t, got.data, "Hi there.")
	assert.NotContains(t, got.data, "hidden@example.com")
}

func TestSender_SendAuth(t *testing.T) {
	t.Parallel()

	be, host, port := startServer(t)
	s := smtp.New(smtp.Config{
		Host:      host,
		Port:      port,
		Security:  smtp.SecurityNone,
		Username:  "alice",
		Password:  "secret",
		LocalName: "client.example.com",
	}, nil)

	require.NoError(t, s.Send(context.Background(), testMessage(t)))

	be.mu.Lock()
	defer be.mu.Unlock()
	require.Len(t, be.msgs, 1)
	assert.Equal(t, "alice", be.msgs[0].user)
}

func TestSender_SendBadAuth(t *testing.T) {
	t.Parallel()

	_, host, port := startServer(t)
	s := smtp.New(smtp.Config{
		Host:     host,
		Port:     port,
		Username: "alice",
		Password: "wrong",
	}, nil)

	err := s.Send(context.Background(), testMessage(t))
	require.Error(t, err)
	assert.ErrorContains(t, err, "authenticating as alice")
}

func TestSender_SendErrors(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := smtp.New(smtp.Config{Host: "127.0.0.1", Port: 1}, nil)
	assert.ErrorIs(t, s.Send(ctx, testMessage(t)), context.Canceled)

	s = smtp.New(smtp.Config{Host: "127.0.0.1", Port: 1, Security: "ssl"}, nil)
	assert.ErrorIs(t, s.Send(context.Background(), testMessage(t)), smtp.ErrUnknownSecurity)
}
