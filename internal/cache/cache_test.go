package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClientIsEmptyCache(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.SetJSON(ctx, "services:active", []string{"wash"}, time.Minute))

	var got []string
	assert.False(t, c.GetJSON(ctx, "services:active", &got))
	assert.NoError(t, c.Delete(ctx, "services:active"))
	assert.NoError(t, c.Close())
}

func TestUnreachableRedisReadsAsMiss(t *testing.T) {
	c := New("127.0.0.1:1", "", 0)
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, c.Delete(ctx, "k"))
}
