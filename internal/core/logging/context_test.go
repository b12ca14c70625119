package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithNoticeID(t *testing.T) {
	ctx := WithNoticeID(context.Background(), 42)
	assert.Equal(t, uint64(42), GetNoticeID(ctx))
}

func TestWithSource(t *testing.T) {
	ctx := WithSource(context.Background(), "deploy/api")
	assert.Equal(t, "deploy/api", GetSource(ctx))
}

func TestContextValues_NotPresent(t *testing.T) {
	ctx := context.Background()
	assert.Zero(t, GetNoticeID(ctx))
	assert.Empty(t, GetSource(ctx))
}
