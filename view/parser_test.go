package view_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-postal/message/header"
	"github.com/zostay/go-postal/view"
	"github.com/zostay/go-postal/view/image"
)

func parse(t *testing.T, text string, email *view.Email) *view.Message {
	t.Helper()

	msg, err := view.NewParser(nil).Parse(context.Background(), text, email)
	require.NoError(t, err)
	return msg
}

func addresses(al addr.AddressList) []string {
	out := make([]string, len(al))
	for i, a := range al {
		out[i] = a.Address()
	}
	return out
}

func TestParse_SingleAddresses(t *testing.T) {
	t.Parallel()

	msg := parse(t, `To: to@example.com
From: from@example.com
Cc: cc@example.com
Bcc: bcc@example.com
Reply-To: reply@example.com
Sender: sender@example.com

Hello`, nil)

	assert.Equal(t, []string{"to@example.com"}, addresses(msg.To))
	assert.Equal(t, []string{"from@example.com"}, addresses(msg.From))
	assert.Equal(t, []string{"cc@example.com"}, addresses(msg.Cc))
	assert.Equal(t, []string{"bcc@example.com"}, addresses(msg.Bcc))
	assert.Equal(t, []string{"reply@example.com"}, addresses(msg.ReplyTo))
	require.NotNil(t, msg.Sender)
	assert.Equal(t, "sender@example.com", msg.Sender.Address())
}

func TestParse_RepeatedAddresses(t *testing.T) {
	t.Parallel()

	msg := parse(t, "Cc: a@x.com\ncc: b@x.com\nCC: c@x.com\n\nHello", nil)
	assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, addresses(msg.Cc))

	msg = parse(t, "CC: a@x.com, b@x.com, c@x.com\n\nHello", nil)
	assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, addresses(msg.Cc))
}

func TestParse_BlankAddresses(t *testing.T) {
	t.Parallel()

	msg := parse(t, "To: a@x.com\nCc:\nBcc:\nReply-To: \nSender:\n\nHello", nil)
	assert.Len(t, msg.To, 1)
	assert.Empty(t, msg.Cc)
	assert.Empty(t, msg.Bcc)
	assert.Empty(t, msg.ReplyTo)
	assert.Nil(t, msg.Sender)
}

func TestParse_DisplayNames(t *testing.T) {
	t.Parallel()

	msg := parse(t, "To: \"John Smith\" <test@test.com>\nCc: John H Smith test1@test.com\n\nHello", nil)

	require.Len(t, msg.To, 1)
	assert.Equal(t, "John Smith", msg.To[0].DisplayName())
	assert.Equal(t, "test@test.com", msg.To[0].Address())

	require.Len(t, msg.Cc, 1)
	assert.Equal(t, "test1@test.com", msg.Cc[0].Address())
}

func TestParse_AddressErrors(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"To: nobody\n\nHello",
		"From: @example.com\n\nHello",
		"Sender: a@x.com, b@x.com\n\nHello",
	} {
		_, err := view.NewParser(nil).Parse(context.Background(), text, nil)
		assert.ErrorIs(t, err, view.ErrAddressParse, text)

		var herr *view.HeaderError
		assert.ErrorAs(t, err, &herr, text)
	}
}

func TestParse_SubjectAndPriority(t *testing.T) {
	t.Parallel()

	msg := parse(t, "Subject: First\nSubject: Second\nPriority: Urgent\n\nHello", nil)
	assert.Equal(t, "First", msg.Subject)
	assert.Equal(t, view.PriorityHigh, msg.Priority)

	_, err := view.NewParser(nil).Parse(context.Background(), "Priority: soonish\n\nHello", nil)
	assert.ErrorIs(t, err, view.ErrInvalidPriority)

	var herr *view.HeaderError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, "Priority", herr.Name)
	assert.Equal(t, "soonish", herr.Value)
}

func TestParse_ContentTypeCharset(t *testing.T) {
	t.Parallel()

	msg := parse(t, "Content-Type: text/plain; charset=\"iso-8859-1\"\n\nHello", nil)
	assert.Equal(t, "iso-8859-1", msg.Charset)
	assert.False(t, msg.Headers.Has(header.ContentType))

	msg = parse(t, "Content-Type: text/plain\n\nHello", nil)
	assert.Empty(t, msg.Charset)
}

func TestParse_UnrecognizedHeaders(t *testing.T) {
	t.Parallel()

	msg := parse(t, "X-Campaign: spring\nX-Campaign: summer\nX-Empty:\n\nHello", nil)

	v, err := msg.Headers.Get("x-campaign")
	require.NoError(t, err)
	assert.Equal(t, "summer", v)

	v, err = msg.Headers.Get("X-Empty")
	require.NoError(t, err)
	assert.Equal(t, view.EmptyHeaderValue, v)
}

func TestParse_BodyDetection(t *testing.T) {
	t.Parallel()

	msg := parse(t, "To: a@x.com\n\n  <p>Hello</p>\n\n", nil)
	assert.Equal(t, "<p>Hello</p>", msg.HTMLBody)
	assert.Empty(t, msg.TextBody)

	msg = parse(t, "To: a@x.com\n\n  Hello <b>you</b>\n", nil)
	assert.Equal(t, "Hello <b>you</b>", msg.TextBody)
	assert.Empty(t, msg.HTMLBody)

	msg = parse(t, "Just a body with no headers at all", nil)
	assert.Equal(t, "Just a body with no headers at all", msg.TextBody)
}

func TestParse_BodyWithImages(t *testing.T) {
	t.Parallel()

	email := view.NewEmail("Test")
	r, err := email.ImageEmbedder().Reference(context.Background(), "images/logo.png", "")
	require.NoError(t, err)

	msg := parse(t, "To: a@x.com\n\n<img src=\""+r.URL()+"\">", email)
	assert.Equal(t, view.PlainTextNotAvailable, msg.TextBody)
	assert.Equal(t, "<img src=\""+r.URL()+"\">", msg.HTMLBody)
	require.Len(t, msg.LinkedResources, 1)
	assert.Same(t, r, msg.LinkedResources[0])
}

func TestParse_Attachments(t *testing.T) {
	t.Parallel()

	email := view.NewEmail("Test")
	email.AttachBytes("report.csv", "text/csv", []byte("a,b\n1,2\n"))
	email.Attach("/tmp/does-not-matter.pdf", "")

	msg := parse(t, "To: a@x.com\n\nSee attached.", email)
	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "report.csv", msg.Attachments[0].Filename)
	assert.Equal(t, "/tmp/does-not-matter.pdf", msg.Attachments[1].Path)
}

func TestParse_Stamps(t *testing.T) {
	t.Parallel()

	when := time.Date(2023, time.May, 6, 7, 8, 9, 0, time.UTC)
	p := view.NewParser(nil, view.WithClock(func() time.Time { return when }))

	msg, err := p.Parse(context.Background(), "From: me@example.org\n\nHi", nil)
	require.NoError(t, err)

	d, err := msg.Headers.GetDate()
	require.NoError(t, err)
	assert.True(t, when.Equal(d))

	id, err := msg.Headers.GetMessageID()
	require.NoError(t, err)
	assert.Regexp(t, `^<[0-9a-f-]{36}@example\.org>$`, id)

	v, err := msg.Headers.Get(header.MIMEVersion)
	require.NoError(t, err)
	assert.Equal(t, "1.0", v)

	msg, err = p.Parse(context.Background(), "Message-Id: <fixed@example.com>\n\nHi", nil)
	require.NoError(t, err)
	id, err = msg.Headers.GetMessageID()
	require.NoError(t, err)
	assert.Equal(t, "<fixed@example.com>", id)
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := view.NewParser(nil).Parse(context.Background(), "\n \n", nil)
	assert.ErrorIs(t, err, view.ErrEmptyInput)
}

func TestParse_ImageErrorsAbort(t *testing.T) {
	t.Parallel()

	r := view.RendererFunc(func(ctx context.Context, e *view.Email, _ string) (string, error) {
		if _, err := e.ImageEmbedder().Reference(ctx, "images/logo.nosuchext", ""); err != nil {
			return "", err
		}
		return "<p>never</p>", nil
	})

	msg, err := view.NewParser(r).Parse(context.Background(), "Views: Html\n\n", view.NewEmail("Test"))
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, image.ErrInvalidContentType)
}
