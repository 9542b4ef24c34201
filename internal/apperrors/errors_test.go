// internal/apperrors/errors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, KindUnauthorized, KindOf(Unauthorized("nope")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("nope")))
	assert.Equal(t, KindGateway, KindOf(Gateway("down", errors.New("dial"))))
	assert.Equal(t, KindInternal, KindOf(Internal("oops", nil)))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestKindOfWrappedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("order not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("pq: deadlock detected")
	err := Internal("failed to update stock", cause)

	assert.Contains(t, err.Error(), "failed to update stock")
	assert.Contains(t, err.Error(), "deadlock")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "failed to update stock", MessageOf(Internal("failed to update stock", errors.New("pq: boom"))))
	assert.Equal(t, "plain", MessageOf(errors.New("plain")))
}
