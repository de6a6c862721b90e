package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimitResult(t *testing.T) {
	res, err := parseLimitResult([]interface{}{int64(1), int64(59), int64(60)}, 60)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 59, res.Remaining)
	assert.Equal(t, 60*time.Second, res.ResetIn)
	assert.Equal(t, 60, res.Limit)

	res, err = parseLimitResult([]interface{}{int64(0), int64(0), int64(12)}, 60)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 12*time.Second, res.ResetIn)
}

func TestParseLimitResult_BadShape(t *testing.T) {
	_, err := parseLimitResult("nope", 1)
	assert.Error(t, err)

	_, err = parseLimitResult([]interface{}{int64(1), "x", int64(3)}, 1)
	assert.Error(t, err)
}

func TestWriteKey(t *testing.T) {
	assert.Equal(t, "ratelimit:10.0.0.1:writes", writeKey("10.0.0.1"))
}
