package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RequestIDFromContext(ctx))
	assert.Equal(t, ctx, ContextWithRequestID(ctx, ""))

	ctx = ContextWithRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Nil(t, TxFromContext(ctx))
}
