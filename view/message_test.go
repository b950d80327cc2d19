package view_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-postal/message"
	"github.com/zostay/go-postal/message/transfer"
	"github.com/zostay/go-postal/message/walker"
	"github.com/zostay/go-postal/view"
	"github.com/zostay/go-postal/view/image"
)

// outline lists the media type of every part, indented by depth.
func outline(t *testing.T, g message.Generic) []string {
	t.Helper()

	var out []string
	var w walker.PartWalker = func(depth, _ int, p message.Part) error {
		mt, err := p.GetHeader().GetMediaType()
		require.NoError(t, err)
		out = append(out, strings.Repeat(" ", depth)+mt)
		return nil
	}
	require.NoError(t, w.Walk(g))
	return out
}

func TestMessage_GenericShapes(t *testing.T) {
	t.Parallel()

	png := &image.Resource{Source: "logo.png", ContentID: "logo", ContentType: "image/png", Content: []byte("PNG")}
	pdf := view.Attachment{Filename: "a.pdf", ContentType: "application/pdf", Content: []byte("%PDF")}

	tests := []struct {
		name string
		msg  *view.Message
		want []string
	}{
		{
			name: "text only",
			msg:  &view.Message{TextBody: "hi"},
			want: []string{"text/plain"},
		},
		{
			name: "empty",
			msg:  &view.Message{},
			want: []string{"text/plain"},
		},
		{
			name: "html only",
			msg:  &view.Message{HTMLBody: "<p>hi</p>"},
			want: []string{"text/html"},
		},
		{
			name: "both",
			msg:  &view.Message{TextBody: "hi", HTMLBody: "<p>hi</p>"},
			want: []string{"multipart/alternative", " text/plain", " text/html"},
		},
		{
			name: "everything",
			msg: &view.Message{
				TextBody:        "hi",
				HTMLBody:        `<img src="cid:logo">`,
				LinkedResources: []*image.Resource{png},
				Attachments:     []view.Attachment{pdf},
			},
			want: []string{
				"multipart/mixed",
				" multipart/related",
				"  multipart/alternative",
				"   text/plain",
				"   text/html",
				"  image/png",
				" application/pdf",
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			g, err := tc.msg.Generic()
			require.NoError(t, err)
			assert.Equal(t, tc.want, outline(t, g))
		})
	}
}

func TestMessage_WriteTo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	attPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(attPath, []byte("some notes"), 0o600))

	r := view.RendererFunc(func(ctx context.Context, e *view.Email, name string) (string, error) {
		switch name {
		case "Welcome.Html":
			img, err := e.ImageEmbedder().Reference(ctx, "https://example.com/logo.png", "")
			if err != nil {
				return "", err
			}
			return "Content-Type: text/html\n\n<p>Welcome <img src=\"" + img.URL() + "\"></p>", nil
		case "Welcome.Text":
			return "Welcome", nil
		}
		return "", io.EOF
	})

	email := view.NewEmail("Welcome")
	email.ImageEmbedder(image.WithFetcher(image.FetcherFunc(
		func(context.Context, string) ([]byte, error) { return []byte("PNG"), nil },
	)))
	email.Attach(attPath, "text/plain")

	msg, err := view.NewParser(r).Parse(context.Background(), `To: "Jane Doe" <jane@example.com>
From: shop@example.com
Cc: a@example.com, b@example.com
Bcc: hidden@example.com
Subject: Welcome aboard ☺
Priority: high
X-Campaign: spring
Views: Text, Html

`, email)
	require.NoError(t, err)

	raw, err := msg.Bytes()
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hidden@example.com")

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)

	subj, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Welcome aboard ☺", subj)

	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "Jane Doe", to[0].Name)
	assert.Equal(t, "jane@example.com", to[0].Address)

	cc, err := mr.Header.AddressList("Cc")
	require.NoError(t, err)
	assert.Len(t, cc, 2)

	assert.Equal(t, "spring", mr.Header.Get("X-Campaign"))
	assert.Equal(t, "high", mr.Header.Get("Importance"))
	assert.Equal(t, "1.0", mr.Header.Get("Mime-Version"))
	assert.NotEmpty(t, mr.Header.Get("Message-Id"))

	var texts, htmls, images, attachments []string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		body, err := io.ReadAll(p.Body)
		require.NoError(t, err)

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			ct, _, err := h.ContentType()
			require.NoError(t, err)
			switch {
			case ct == "text/plain":
				texts = append(texts, string(body))
			case ct == "text/html":
				htmls = append(htmls, string(body))
			case strings.HasPrefix(ct, "image/"):
				images = append(images, string(body))
			}
		case *mail.AttachmentHeader:
			fn, err := h.Filename()
			require.NoError(t, err)
			attachments = append(attachments, fn+"="+string(body))
		}
	}

	assert.Equal(t, []string{"Welcome"}, texts)
	require.Len(t, htmls, 1)
	assert.Contains(t, htmls[0], "cid:"+msg.LinkedResources[0].ContentID)
	assert.Equal(t, []string{"PNG"}, images)
	assert.Equal(t, []string{"notes.txt=some notes"}, attachments)

	assert.Equal(t, []string{"jane@example.com", "a@example.com", "b@example.com", "hidden@example.com"}, msg.Recipients())
	assert.Equal(t, "shop@example.com", msg.EnvelopeFrom())
}

func TestMessage_Charset(t *testing.T) {
	t.Parallel()

	msg := &view.Message{TextBody: "café", Charset: "ISO-8859-1"}
	raw, err := msg.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(raw), "charset=iso-8859-1")
	assert.Contains(t, string(raw), "caf=E9")

	msg = &view.Message{TextBody: "café", Charset: "x-unheard-of"}
	_, err = msg.Bytes()
	assert.Error(t, err)
}

func TestMessage_MissingAttachment(t *testing.T) {
	t.Parallel()

	msg := &view.Message{
		TextBody:    "hi",
		Attachments: []view.Attachment{{Path: filepath.Join(t.TempDir(), "gone.pdf")}},
	}
	_, err := msg.Bytes()
	assert.Error(t, err)
}

func TestMessage_GenericDecodesBack(t *testing.T) {
	t.Parallel()

	content := bytes.Repeat([]byte{0x00, 0x7f, 0xfe, 0xff}, 100)
	msg := &view.Message{
		TextBody:    "Total = 5 €\nSee you",
		HTMLBody:    "<p>Total = 5 €</p>",
		Attachments: []view.Attachment{{Filename: "blob.bin", ContentType: "application/octet-stream", Content: content}},
	}

	g, err := msg.Generic()
	require.NoError(t, err)

	decoded := map[string]string{}
	var w walker.PartWalker = func(_, _ int, p message.Part) error {
		buf := &bytes.Buffer{}
		if _, err := p.WriteTo(buf); err != nil {
			return err
		}
		_, body, found := strings.Cut(buf.String(), "\r\n\r\n")
		require.True(t, found)

		out, err := io.ReadAll(transfer.ApplyTransferDecoding(p.GetHeader(), strings.NewReader(body)))
		if err != nil {
			return err
		}

		mt, err := p.GetHeader().GetMediaType()
		require.NoError(t, err)
		decoded[mt] = strings.ReplaceAll(string(out), "\r\n", "\n")
		return nil
	}
	require.NoError(t, w.WalkOpaque(g))

	assert.Equal(t, msg.TextBody, decoded["text/plain"])
	assert.Equal(t, msg.HTMLBody, decoded["text/html"])
	assert.Equal(t, string(content), decoded["application/octet-stream"])
}

func TestMessage_GenericBoundaries(t *testing.T) {
	t.Parallel()

	msg := &view.Message{
		TextBody:    "plain",
		HTMLBody:    "<p>html</p>",
		Attachments: []view.Attachment{{Filename: "a.txt", Content: []byte("a")}},
	}

	g, err := msg.Generic()
	require.NoError(t, err)

	var boundaries []string
	var w walker.PartWalker = func(_, _ int, p message.Part) error {
		b, err := p.GetHeader().GetBoundary()
		if err != nil {
			return err
		}
		boundaries = append(boundaries, b)
		return nil
	}
	require.NoError(t, w.WalkMultipart(g))

	require.Len(t, boundaries, 2)
	assert.NotEqual(t, boundaries[0], boundaries[1])
	for _, b := range boundaries {
		assert.NotEmpty(t, b)
		assert.NotContains(t, msg.TextBody+msg.HTMLBody, b)
	}
}
