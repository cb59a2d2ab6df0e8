package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

func TestKeyChangesWithHistory(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	empty := Key("c1", nil)
	one := Key("c1", []HistoryEntry{{ID: "h1", CompletedAt: at}})
	moved := Key("c1", []HistoryEntry{{ID: "h1", CompletedAt: at.Add(time.Second)}})

	assert.True(t, strings.HasPrefix(empty, keyPrefix+":c1:"))
	assert.NotEqual(t, empty, one)
	assert.NotEqual(t, one, moved)
	assert.Equal(t, one, Key("c1", []HistoryEntry{{ID: "h1", CompletedAt: at.In(time.FixedZone("x", 3600))}}))
	assert.NotEqual(t, one, Key("c2", []HistoryEntry{{ID: "h1", CompletedAt: at}}))
}

func TestNoopNeverHits(t *testing.T) {
	c := NewNoop()
	require.NoError(t, c.Set(context.Background(), "k", &wellness.Insights{Score: 50}))
	got, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, c.Close())
}

func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, logger.Nop(), addr, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	key := Key("roundtrip", nil)
	want := &wellness.Insights{Score: 72, Band: wellness.BandThriving, Notes: []string{"n"}}
	require.NoError(t, c.Set(ctx, key, want))
	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Score, got.Score)
	assert.Equal(t, want.Band, got.Band)
}
