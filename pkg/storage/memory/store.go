// Package memory 提供一个进程内的 storage.Client，只用于测试和本地运行
package memory

import (
	"context"
	"maps"
	"sync"

	"themestore/pkg/storage"
)

type entry struct {
	value    []byte
	metadata storage.Metadata
}

// Store 是简单的 key -> {value, metadata} map
// Go 是多线程调度，所以这里必须自己加锁
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	closed  bool
}

func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

func (s *Store) Get(ctx context.Context, keys []string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, storage.ErrClosed
	}

	out := storage.NullResult(keys)
	for _, k := range keys {
		if e, ok := s.entries[k]; ok {
			// 返回副本，调用方修改结果不能污染存储
			out[k] = append([]byte{}, e.value...)
		}
	}
	return out, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte, meta storage.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}

	s.entries[key] = entry{
		value:    append([]byte{}, value...),
		metadata: maps.Clone(meta),
	}
	return nil
}

// Metadata 返回某个 key 写入时携带的 metadata (测试用)
func (s *Store) Metadata(key string) (storage.Metadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return maps.Clone(e.metadata), true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
