// internal/utils/crypto_test.go
package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(32)
	assert.NoError(t, err)
	assert.Len(t, s, 32)

	other, err := GenerateRandomString(32)
	assert.NoError(t, err)
	assert.NotEqual(t, s, other)
}

func TestHashStringIsDeterministic(t *testing.T) {
	h := HashString("some-token")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashString("some-token"))
	assert.NotEqual(t, h, HashString("other-token"))
}

func TestBlacklistKey(t *testing.T) {
	key := BlacklistKey("some-token")
	assert.True(t, strings.HasPrefix(key, "bl_"))
	assert.NotContains(t, key, "some-token")
	assert.Equal(t, key, BlacklistKey("some-token"))
}
