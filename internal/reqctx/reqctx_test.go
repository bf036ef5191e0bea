package reqctx

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestContext(t *testing.T) {
	ctx := WithRequestContext(context.Background(), "https://www.pinterest.com/u/b")
	rc := GetRequestContext(ctx)

	_, err := uuid.Parse(rc.RequestID)
	require.NoError(t, err)
	assert.Equal(t, "https://www.pinterest.com/u/b", rc.URL)
	assert.GreaterOrEqual(t, rc.Elapsed().Nanoseconds(), int64(0))

	other := GetRequestContext(WithRequestContext(context.Background(), ""))
	assert.NotEqual(t, rc.RequestID, other.RequestID)
}

func TestGetRequestContext_Missing(t *testing.T) {
	assert.Equal(t, "unknown", GetRequestContext(context.Background()).RequestID)
}

func TestNewRequestError(t *testing.T) {
	ctx := WithRequestContext(context.Background(), "u")
	base := errors.New("relay down")

	err := NewRequestError(ctx, base)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), GetRequestContext(ctx).RequestID)

	assert.NoError(t, NewRequestError(ctx, nil))
}
