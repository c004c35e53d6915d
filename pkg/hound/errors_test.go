package hound

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoundErrorDetails(t *testing.T) {
	err := NewHoundError("dial failed", ErrCodeTransport).AddDetail("path", "/v1/text")
	assert.Equal(t, "dial failed", err.Error())

	v, ok := err.GetDetail("path")
	require.True(t, ok)
	assert.Equal(t, "/v1/text", v)

	_, ok = err.GetDetail("missing")
	assert.False(t, ok)
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrCodeTransport))

	cause := errors.New("connection reset")
	err := WrapError(cause, ErrCodeTransport)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsErrorCode(err, ErrCodeTransport))
	assert.False(t, IsErrorCode(err, ErrCodeAudioDevice))

	wrapped := fmt.Errorf("text query: %w", err)
	assert.True(t, IsErrorCode(wrapped, ErrCodeTransport))
}

func TestErrorPredicates(t *testing.T) {
	vErr := &ValidationError{Field: "Latitude", Value: 91, Reason: "value 91 out of range"}
	assert.Equal(t, `invalid request info field "Latitude": value 91 out of range`, vErr.Error())
	assert.True(t, IsValidationError(fmt.Errorf("wrap: %w", vErr)))
	assert.False(t, IsAPIError(vErr))

	aErr := &APIError{Message: "bad query", StatusCode: 200}
	assert.True(t, IsAPIError(aErr))
	assert.False(t, IsValidationError(aErr))

	_, ok := AsHTTPError(aErr)
	assert.False(t, ok)
}

func TestHTTPErrorTruncatesBody(t *testing.T) {
	err := &HTTPError{StatusCode: 502, Status: "502 Bad Gateway", Body: []byte(strings.Repeat("x", 1000))}
	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "hound: unexpected status 502 Bad Gateway: "))
	assert.True(t, strings.HasSuffix(msg, "..."))
	assert.Less(t, len(msg), 300)

	empty := &HTTPError{StatusCode: 500, Status: "500 Internal Server Error"}
	assert.Equal(t, "hound: unexpected status 500 Internal Server Error", empty.Error())
}
