package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityNotFoundError(t *testing.T) {
	err := fmt.Errorf("favourite.FindByID: %w", NewEntityNotFoundError("favourite", "userId=5,productId=7"))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "favourite with key [userId=5,productId=7] not found")

	code, ok := ErrorCode(err)
	assert.True(t, ok)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestRemoteError(t *testing.T) {
	err := NewRemoteError(ErrRemoteUnavailable, "product-service", "7", context.DeadlineExceeded)

	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrRemoteRecordMissing)
	assert.Contains(t, err.Error(), "product-service/7")

	var remoteErr *RemoteError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &remoteErr))
	assert.Equal(t, "product-service", remoteErr.Service)

	code, ok := ErrorCode(err)
	assert.True(t, ok)
	assert.Equal(t, "REMOTE_UNAVAILABLE", code)
}

func TestRemoteError_WithoutCause(t *testing.T) {
	err := NewRemoteError(ErrRemoteRecordMissing, "user-service", "5", nil)

	assert.ErrorIs(t, err, ErrRemoteRecordMissing)
	assert.Equal(t, "Referenced remote record does not exist: user-service/5", err.Error())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("likeDate", "is required")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "likeDate: is required", err.Error())

	code, _ := ErrorCode(err)
	assert.Equal(t, "INVALID_INPUT", code)
}

func TestErrorCode_PlainDomainError(t *testing.T) {
	code, ok := ErrorCode(fmt.Errorf("x: %w", ErrInvalidInput))
	assert.True(t, ok)
	assert.Equal(t, "INVALID_INPUT", code)

	_, ok = ErrorCode(errors.New("boom"))
	assert.False(t, ok)
}
