// Package testutils starts throwaway Redis and SQLite stores for tests
package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-dialogue/internal/redis"
)

// CreateTestRedisClient connects to a miniredis instance that lives for the
// test. Use the server to fast-forward TTLs or inject errors.
func CreateTestRedisClient(t *testing.T) (redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}
