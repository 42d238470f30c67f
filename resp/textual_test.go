package resp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleString(t *testing.T) {
	v, rest, err := ParseSimpleString([]byte("+hello world\r\n+next\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", v.Value)
	assert.Equal(t, []byte("+next\r\n"), rest)

	_, _, err = ParseSimpleString([]byte("+\r\n"))
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	_, _, err = ParseSimpleString([]byte("+\xff\xfe\r\n"))
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	_, _, err = ParseSimpleString([]byte("+a\rb\r\n"))
	assert.ErrorIs(t, err, ErrMissingDelimiter)

	_, _, err = ParseSimpleString([]byte("+OK"))
	assert.ErrorIs(t, err, ErrTruncatedInput)
}

func TestSimpleError(t *testing.T) {
	v, _, err := ParseSimpleError([]byte("-WRONGTYPE Operation against a key holding the wrong kind of value\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "WRONGTYPE", v.Code)
	assert.Equal(t, "Operation against a key holding the wrong kind of value", v.Message)
	assert.Equal(t, "WRONGTYPE Operation against a key holding the wrong kind of value", v.Error())

	for _, raw := range []string{"-err reason\r\n", "-ERR\r\n", "- reason\r\n", "-Error message\r\n"} {
		_, _, err = ParseSimpleError([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidCodeFormat, raw)
	}

	_, _, err = ParseSimpleError([]byte("-ERR \r\n"))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestBlobString(t *testing.T) {
	v, rest, err := ParseBlobString([]byte("$11\r\nhello world\r\n"))
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, BlobString{Value: "hello world"}, v)

	v, _, err = ParseBlobString([]byte("$4\r\na\r\nb\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "a\r\nb", v.Value)

	v, _, err = ParseBlobString([]byte("$0\r\n\r\n"))
	require.NoError(t, err)
	assert.Empty(t, v.Value)
}

// A declared length shorter than the payload leaves the extra bytes where the
// trailing CRLF should be, which is a delimiter error rather than a silent
// truncation.
func TestBlobStringShortLength(t *testing.T) {
	data := []byte("$5\r\nhello world\r\n")
	_, rest, err := ParseBlobString(data)
	assert.ErrorIs(t, err, ErrMissingDelimiter)
	assert.Equal(t, data, rest)
}

func TestBlobStringTrailingInputIsUnconsumed(t *testing.T) {
	v, rest, err := ParseBlobString([]byte("$2\r\nhi\r\n+OK\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "hi", v.Value)
	assert.Equal(t, []byte("+OK\r\n"), rest)
}

func TestBlobStringErrors(t *testing.T) {
	_, _, err := ParseBlobString([]byte("$20\r\nshort\r\n"))
	assert.ErrorIs(t, err, ErrTruncatedInput)

	for _, raw := range []string{"$x\r\n\r\n", "$-1\r\n", "$\r\n\r\n", "$99999999999999999999999\r\nx\r\n"} {
		_, _, err = ParseBlobString([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidLength, raw)
	}

	_, _, err = ParseBlobString([]byte("$3\r\nabc"))
	assert.ErrorIs(t, err, ErrTruncatedInput)
}

func TestBlobError(t *testing.T) {
	v, rest, err := ParseBlobError([]byte("!10\r\nERR reason\r\n"))
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, "ERR", v.Code)
	assert.Equal(t, "reason", v.Message)
	assert.Equal(t, "!10\r\nERR reason\r\n", string(AppendValue(nil, v)))

	v, _, err = ParseBlobError([]byte("!22\r\nSYNTAX invalid\r\nsyntax\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "SYNTAX", v.Code)
	assert.Equal(t, "invalid\r\nsyntax", v.Message)

	v, _, err = ParseBlobError([]byte("!4\r\nERR \r\n"))
	require.NoError(t, err)
	assert.Empty(t, v.Message)

	for _, raw := range []string{"!6\r\nreason\r\n", "!3\r\nERR\r\n", "!7\r\nerr bad\r\n"} {
		_, _, err = ParseBlobError([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidCodeFormat, raw)
	}
}

func TestVerbatimString(t *testing.T) {
	v, _, err := ParseVerbatimString([]byte("=8\r\ntxt:test\r\n"))
	require.NoError(t, err)
	assert.Equal(t, VerbatimString{Format: FormatText, Value: "test"}, v)

	v, _, err = ParseVerbatimString([]byte("=11\r\nmkd:# title\r\n"))
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, v.Format)
	assert.Equal(t, "# title", v.Value)
	assert.Equal(t, "=11\r\nmkd:# title\r\n", string(AppendValue(nil, v)))

	v, _, err = ParseVerbatimString([]byte("=4\r\ntxt:\r\n"))
	require.NoError(t, err)
	assert.Empty(t, v.Value)
}

func TestVerbatimStringErrors(t *testing.T) {
	for _, raw := range []string{"=8\r\nhtm:test\r\n", "=8\r\ntxt-test\r\n", "=8\r\nTXT:test\r\n"} {
		_, _, err := ParseVerbatimString([]byte(raw))
		assert.ErrorIs(t, err, ErrUnknownSubtype, raw)
	}

	_, _, err := ParseVerbatimString([]byte("=3\r\ntxt\r\n"))
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestTextualConstructors(t *testing.T) {
	s, err := NewSimpleString("PONG")
	require.NoError(t, err)
	assert.Equal(t, "+PONG\r\n", string(AppendValue(nil, s)))

	_, err = NewSimpleString("a\r\nb")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = NewSimpleString("\xff")
	assert.ErrorIs(t, err, ErrInvalidValue)

	e, err := NewSimpleError("ERR", "unknown command")
	require.NoError(t, err)
	assert.Equal(t, "-ERR unknown command\r\n", string(AppendValue(nil, e)))

	_, err = NewSimpleError("Err", "x")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = NewBlobError("ERR ", "x")
	assert.ErrorIs(t, err, ErrInvalidValue)

	b, err := NewBlobError("ERR", "")
	require.NoError(t, err)
	assert.Equal(t, "!4\r\nERR \r\n", string(AppendValue(nil, b)))

	_, err = NewVerbatimString("md", "x")
	assert.ErrorIs(t, err, ErrInvalidValue)
}
