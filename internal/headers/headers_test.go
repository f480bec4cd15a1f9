package headers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlockSingleHeader(t *testing.T) {
	data := []byte("Content-Type: text/html\r\n\r\nbody here")
	hdrs, bodyStart, done, err := ParseBlock(data)
	require.NoError(t, err)
	require.True(t, done)
	require.Len(t, hdrs, 1)
	assert.Equal(t, "Content-Type", hdrs[0].Name)
	assert.Equal(t, "text/html", hdrs[0].Value)
	assert.Equal(t, "body here", string(data[bodyStart:]))
}

func TestParseBlockPreservesOrderAndDuplicates(t *testing.T) {
	data := []byte("Status: 302 Found\r\nLocation: /new\r\nSet-Cookie: a=1\r\nSet-Cookie: b=2\r\n\r\n")
	hdrs, _, done, err := ParseBlock(data)
	require.NoError(t, err)
	require.True(t, done)
	require.Len(t, hdrs, 4)
	assert.Equal(t, []Header{
		{Name: "Status", Value: "302 Found"},
		{Name: "Location", Value: "/new"},
		{Name: "Set-Cookie", Value: "a=1"},
		{Name: "Set-Cookie", Value: "b=2"},
	}, hdrs)
}

func TestParseBlockAcceptsBareLF(t *testing.T) {
	data := []byte("Content-Type: text/plain\n\nbody")
	hdrs, bodyStart, done, err := ParseBlock(data)
	require.NoError(t, err)
	require.True(t, done)
	require.Len(t, hdrs, 1)
	assert.Equal(t, "body", string(data[bodyStart:]))
}

func TestParseBlockIncompleteReturnsNotDone(t *testing.T) {
	data := []byte("Content-Type: text/plain\r\n")
	hdrs, _, done, err := ParseBlock(data)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Empty(t, hdrs)
}

func TestParseBlockMalformedLineRejected(t *testing.T) {
	_, _, _, err := ParseBlock([]byte("not a header line\r\n\r\n"))
	require.ErrorIs(t, err, ErrMalformedHeaderLine)
}

func TestParseBlockLineTooLong(t *testing.T) {
	big := bytes.Repeat([]byte("A"), maxHeaderLine+1)
	line := append([]byte("X-Big: "), big...)
	_, _, _, err := ParseBlock(line)
	require.ErrorIs(t, err, ErrHeaderLineTooLong)
}

func TestGetIsCaseInsensitive(t *testing.T) {
	hdrs := []Header{{Name: "Content-Type", Value: "text/html"}}
	v, ok := Get(hdrs, "content-type")
	require.True(t, ok)
	assert.Equal(t, "text/html", v)

	_, ok = Get(hdrs, "location")
	assert.False(t, ok)
}
