package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SingleStore 是没有 multi-get 能力的后端 (S3, 本地磁盘)
type SingleStore interface {
	// GetOne 读取单个 key，不存在时返回 ErrNotFound
	GetOne(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, meta Metadata) error
}

// FanOut 把 SingleStore 适配成 Client：
// 一个 batch 里的每个 key 都启动一个并发读。
// 这里不做任何限流，跨 batch 的并发上限由 themefiles 层负责。
type FanOut struct {
	single SingleStore
}

func NewFanOut(single SingleStore) *FanOut {
	return &FanOut{single: single}
}

func (f *FanOut) Get(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := NullResult(keys)
	if len(keys) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		g.Go(func() error {
			val, err := f.single.GetOne(gctx, key)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("fan-out get %s: %w", key, err)
			}
			if val == nil {
				val = []byte{}
			}
			mu.Lock()
			out[key] = val
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *FanOut) Put(ctx context.Context, key string, value []byte, meta Metadata) error {
	return f.single.Put(ctx, key, value, meta)
}

// Close 透传给底层 (如果它需要释放资源)
func (f *FanOut) Close() error {
	if c, ok := f.single.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
