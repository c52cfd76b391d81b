package redis

import (
	"context"
	"net"
	"testing"
	"time"

	"themestore/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNormalizeMGet(t *testing.T) {
	keys := []string{"file_data:a", "file_data:b", "file_data:c"}
	logger := zaptest.NewLogger(t)

	tests := []struct {
		name string
		vals []any
		want map[string][]byte
	}{
		{
			name: "Normal reply",
			vals: []any{"A", nil, ""},
			want: map[string][]byte{"file_data:a": []byte("A"), "file_data:b": nil, "file_data:c": {}},
		},
		{
			name: "Short reply degrades to all nil",
			vals: []any{"A"},
			want: map[string][]byte{"file_data:a": nil, "file_data:b": nil, "file_data:c": nil},
		},
		{
			name: "Unexpected element type",
			vals: []any{int64(42), []byte("B"), nil},
			want: map[string][]byte{"file_data:a": nil, "file_data:b": []byte("B"), "file_data:c": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeMGet(keys, tt.vals, logger)
			require.Len(t, got, len(keys), "every key must be present")
			for k, want := range tt.want {
				if want == nil {
					assert.Nil(t, got[k], k)
				} else {
					assert.Equal(t, want, got[k], k)
				}
			}
		})
	}
}

func TestMetaKey(t *testing.T) {
	assert.Equal(t, "file_data:abc:meta", metaKey("file_data:abc"))
}

func TestRedisStore_Integration(t *testing.T) {
	// A. 环境检查: 确保 Redis 在运行
	redisAddr := "localhost:6379"
	conn, err := net.DialTimeout("tcp", redisAddr, 1*time.Second)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	conn.Close()

	ctx := context.Background()
	store, err := NewStore(Config{RedisURL: "redis://" + redisAddr + "/0"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer store.Close()

	// 清理 Redis (防止上次测试残留)
	store.client.FlushDB(ctx)

	key := "file_data:1111222233334444555566667777888899990000aaaabbbbccccddddeeeeffff"
	require.NoError(t, store.Put(ctx, key, []byte("body{}"), storage.Metadata{"content_type": "text/css"}))

	out, err := store.Get(ctx, []string{key, "file_data:missing"})
	require.NoError(t, err)
	assert.Equal(t, []byte("body{}"), out[key])
	assert.Nil(t, out["file_data:missing"])

	meta, err := store.Metadata(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "text/css", meta["content_type"])
}
