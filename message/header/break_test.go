package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-postal/message/header"
)

func TestBreak_Bytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte{0x0d, 0x0a}, header.CRLF.Bytes())
	assert.Equal(t, []byte{0x0a}, header.LF.Bytes())
}

func TestBreak_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\r\n", header.CRLF.String())
	assert.Equal(t, "\n", header.LF.String())
}
