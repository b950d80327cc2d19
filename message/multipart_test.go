package message_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-postal/message"
	"github.com/zostay/go-postal/message/header"
)

func TestMultipart_Nested(t *testing.T) {
	t.Parallel()

	alt := message.MultipartAlternative(makePart())
	alt.SetBreak(header.LF)
	require.NoError(t, alt.SetBoundary("inner"))

	mixed := message.MultipartMixed(alt)
	mixed.SetBreak(header.LF)
	require.NoError(t, mixed.SetBoundary("outer"))

	const expect = `Content-Type: multipart/mixed; boundary=outer

--outer
Content-Type: multipart/alternative; boundary=inner

--inner
Content-Type: text/html

Test message.
--inner--

--outer--
`

	out := &bytes.Buffer{}
	n, err := mixed.WriteTo(out)
	require.NoError(t, err)
	assert.Equal(t, int64(len(expect)), n)
	assert.Equal(t, expect, out.String())
}

func TestNewMultipart(t *testing.T) {
	t.Parallel()

	rel := message.MultipartRelated(makePart())
	rel.Add(makePart())

	mt, err := rel.GetMediaType()
	require.NoError(t, err)
	assert.Equal(t, message.MultipartRelatedType, mt)

	b, err := rel.GetBoundary()
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	assert.Len(t, rel.GetParts(), 2)
}

func TestMultipart_MissingBoundary(t *testing.T) {
	t.Parallel()

	m := &message.Multipart{}
	m.SetMediaType("multipart/mixed")

	_, err := m.WriteTo(&bytes.Buffer{})
	assert.ErrorIs(t, err, header.ErrNoSuchFieldParameter)
}

func TestGenerateSafeBoundary(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("abc", 100)
	b := message.GenerateSafeBoundary(content)
	assert.Len(t, b, 30)
	assert.NotContains(t, content, b)
}
