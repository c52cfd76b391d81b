// Package redis 是支持原生批量读 (MGET) 的 storage.Client
package redis

import (
	"context"
	"fmt"
	"time"

	"themestore/pkg/storage"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store 每个 batch 只发一次 MGET
type Store struct {
	client *goredis.Client
	ttl    time.Duration // 0 表示不过期 (存储层本身不做淘汰策略)
	logger *zap.Logger
}

var _ storage.Client = (*Store)(nil)

type Config struct {
	RedisURL string        // 标准连接字符串: redis://<user>:<password>@<host>:<port>/<db>
	TTL      time.Duration // 过期时间，0 = 永不过期
}

func NewStore(cfg Config, logger *zap.Logger) (*Store, error) {
	// 解析 URL
	opts, err := goredis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := goredis.NewClient(opts)

	// Fail-fast 连接检查
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewWithClient(client, cfg.TTL, logger), nil
}

// NewWithClient 复用已有连接 (测试 / 依赖注入)
func NewWithClient(client *goredis.Client, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, ttl: ttl, logger: logger.Named("redis")}
}

// metaKey metadata 存在旁路 hash 里
func metaKey(key string) string {
	return key + ":meta"
}

func (s *Store) Get(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget (%d keys): %w", len(keys), err)
	}
	return normalizeMGet(keys, vals, s.logger), nil
}

// normalizeMGet 把 MGET 的回复整理成 key -> value
// 回复长度不对时整体降级为全 nil，单个元素类型不对时该元素为 nil。
// 绝不把类型错误抛给调用方。
func normalizeMGet(keys []string, vals []any, logger *zap.Logger) map[string][]byte {
	out := storage.NullResult(keys)
	if len(vals) != len(keys) {
		logger.Warn("malformed MGET reply, treating all keys as missing",
			zap.Int("keys", len(keys)), zap.Int("values", len(vals)))
		return out
	}

	for i, v := range vals {
		switch x := v.(type) {
		case nil:
			// miss
		case string:
			out[keys[i]] = []byte(x)
		case []byte:
			out[keys[i]] = append([]byte{}, x...)
		default:
			logger.Warn("unexpected MGET value type",
				zap.String("key", keys[i]), zap.String("type", fmt.Sprintf("%T", v)))
		}
	}
	return out
}

// Put SET value + HSET metadata 放在同一个 MULTI/EXEC 里
func (s *Store) Put(ctx context.Context, key string, value []byte, meta storage.Metadata) error {
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, key, value, s.ttl)

		mk := metaKey(key)
		pipe.Del(ctx, mk)
		if len(meta) > 0 {
			fields := make(map[string]any, len(meta))
			for k, v := range meta {
				fields[k] = fmt.Sprint(v)
			}
			pipe.HSet(ctx, mk, fields)
			if s.ttl > 0 {
				pipe.Expire(ctx, mk, s.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put %s: %w", key, err)
	}
	return nil
}

// Metadata 读取旁路 hash
func (s *Store) Metadata(ctx context.Context, key string) (storage.Metadata, error) {
	fields, err := s.client.HGetAll(ctx, metaKey(key)).Result()
	if err != nil {
		return nil, err
	}
	meta := make(storage.Metadata, len(fields))
	for k, v := range fields {
		meta[k] = v
	}
	return meta, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
