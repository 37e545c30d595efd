package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrorTypeSelection, "no suitable image found")
	assert.Equal(t, "selection error: no suitable image found", err.Error())

	withCode := NewWithCode(ErrorTypeServer, "bad gateway", 502)
	assert.Equal(t, "server_error error (code 502): bad gateway", withCode.Error())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrorTypeNetwork))
	assert.True(t, IsRetryable(ErrorTypeServer))

	assert.False(t, IsRetryable(ErrorTypeValidation))
	assert.False(t, IsRetryable(ErrorTypeNavigation))
	assert.False(t, IsRetryable(ErrorTypeSelection))
	assert.False(t, IsRetryable(ErrorTypeAuth))
	assert.False(t, IsRetryable(ErrorTypeUnknown))
}

func TestIsRetryableStatusCode(t *testing.T) {
	assert.True(t, IsRetryableStatusCode(0))
	assert.True(t, IsRetryableStatusCode(429))
	assert.True(t, IsRetryableStatusCode(500))
	assert.True(t, IsRetryableStatusCode(503))

	assert.False(t, IsRetryableStatusCode(401))
	assert.False(t, IsRetryableStatusCode(403))
	assert.False(t, IsRetryableStatusCode(404))
	assert.False(t, IsRetryableStatusCode(200))
}
