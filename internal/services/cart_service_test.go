// internal/services/cart_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEqualVariant(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	aCopy := a

	assert.True(t, equalVariant(nil, nil))
	assert.True(t, equalVariant(&a, &aCopy))
	assert.False(t, equalVariant(&a, &b))
	assert.False(t, equalVariant(&a, nil))
	assert.False(t, equalVariant(nil, &b))
}

func TestCartKeys(t *testing.T) {
	userID := uuid.MustParse("6f1c1d1e-0000-0000-0000-000000000001")

	assert.Equal(t, "user:6f1c1d1e-0000-0000-0000-000000000001:cart", cartKey(userID))
	assert.Equal(t, "user:6f1c1d1e-0000-0000-0000-000000000001:recent_views", recentViewsKey(userID))
	assert.Equal(t, "session:abc123", sessionKey("abc123"))
}
