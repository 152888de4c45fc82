package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := Conflict("already favorited")
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "already favorited", err.Error())
}

func TestWrappedKindMatching(t *testing.T) {
	err := fmt.Errorf("add favorite: %w", NotFound("event %d", 42))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRetryableWrapsCause(t *testing.T) {
	cause := errors.New("SQLSTATE 40001")
	err := Retryable(cause)
	assert.True(t, errors.Is(err, ErrRetryable))
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, Retryable(nil))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}
