package redis

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"bsu_chat_server/pkg/errorx"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedisAddr = "localhost:6379"

func setupCache(t *testing.T) *RedisCache {
	t.Helper()
	conn, err := net.DialTimeout("tcp", testRedisAddr, time.Second)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}
	conn.Close()

	rc := NewRedisCache(redis.NewClient(&redis.Options{Addr: testRedisAddr, DB: 15}), 2, 10)
	t.Cleanup(func() {
		_ = rc.DeleteByPattern(context.Background(), "bsu_test:*")
		_ = rc.Close()
	})
	return rc
}

func TestRedisCache_GetSet(t *testing.T) {
	rc := setupCache(t)
	ctx := context.Background()

	v, err := rc.Get(ctx, "bsu_test:missing")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	_, err = rc.GetOrError(ctx, "bsu_test:missing")
	assert.True(t, errorx.IsNotFound(err))

	require.NoError(t, rc.Set(ctx, "bsu_test:a", "1", time.Minute))
	require.NoError(t, rc.Set(ctx, "bsu_test:b", "", time.Minute))

	m, err := rc.MGet(ctx, "bsu_test:a", "bsu_test:b", "bsu_test:c")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bsu_test:a": "1", "bsu_test:b": ""}, m)

	require.NoError(t, rc.Delete(ctx, "bsu_test:a"))
	_, err = rc.GetOrError(ctx, "bsu_test:a")
	assert.True(t, errorx.IsNotFound(err))
}

func TestRedisCache_SubmitTask(t *testing.T) {
	rc := NewRedisCache(redis.NewClient(&redis.Options{Addr: testRedisAddr}), 2, 1)

	var n int32
	done := make(chan struct{}, 5)
	for i := 0; i < 5; i++ {
		rc.SubmitTask(func() {
			atomic.AddInt32(&n, 1)
			done <- struct{}{}
		})
	}
	rc.SubmitTask(func() { panic("boom") })
	for i := 0; i < 5; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("task not executed")
		}
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&n))

	require.NoError(t, rc.Close())
	rc.SubmitTask(func() { t.Error("task ran after close") })
	assert.NoError(t, rc.Close())
}
