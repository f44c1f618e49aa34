package lock

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contestify/contest-api/internal/config"
)

func startRedis(t *testing.T) *config.RedisConfig {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(60)

	conf := &config.RedisConfig{Addr: resource.GetHostPort("6379/tcp")}

	pool.MaxWait = 30 * time.Second
	require.NoError(t, pool.Retry(func() error {
		rdb, err := NewRedisClient(context.Background(), conf)
		if err != nil {
			return err
		}
		return rdb.Close()
	}))

	return conf
}

func TestRedisLocker(t *testing.T) {
	conf := startRedis(t)
	ctx := context.Background()

	rdb, err := NewRedisClient(ctx, conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	first := NewRedisLocker(rdb, time.Minute)
	second := NewRedisLocker(rdb, time.Minute)

	release, err := first.Acquire(ctx, "checkout:cs_1")
	require.NoError(t, err)

	_, err = second.Acquire(ctx, "checkout:cs_1")
	assert.ErrorIs(t, err, ErrNotAcquired, "a second replica sees the held lock")

	release()
	release()

	again, err := second.Acquire(ctx, "checkout:cs_1")
	require.NoError(t, err)
	again()
}

func TestRedisLocker_Expires(t *testing.T) {
	conf := startRedis(t)
	ctx := context.Background()

	rdb, err := NewRedisClient(ctx, conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	l := NewRedisLocker(rdb, 200*time.Millisecond)

	stale, err := l.Acquire(ctx, "checkout:cs_2")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		release, err := l.Acquire(ctx, "checkout:cs_2")
		if err != nil {
			return false
		}
		release()
		return true
	}, 5*time.Second, 50*time.Millisecond)

	// Releasing after expiry must not delete a lock taken by someone else.
	holder, err := l.Acquire(ctx, "checkout:cs_2")
	require.NoError(t, err)
	stale()

	_, err = l.Acquire(ctx, "checkout:cs_2")
	assert.ErrorIs(t, err, ErrNotAcquired)
	holder()
}
