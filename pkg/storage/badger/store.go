// Package badger 是本地的批量读 storage.Client：一个 batch 在同一个只读事务里完成
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"

	"themestore/pkg/core"
	"themestore/pkg/storage"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

type Store struct {
	db     *badgerdb.DB
	logger *zap.Logger
}

var _ storage.Client = (*Store)(nil)

type Config struct {
	Directory string
	InMemory  bool // 测试用，不落盘
}

func NewStore(cfg Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("badger")

	var opts badgerdb.Options
	if cfg.InMemory {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Directory == "" {
			return nil, fmt.Errorf("badger directory is required")
		}
		if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
			return nil, fmt.Errorf("failed to create badger dir: %w", err)
		}
		opts = badgerdb.DefaultOptions(cfg.Directory)
	}

	opts = opts.
		WithLogger(newLogger(logger)).
		WithLoggingLevel(badgerdb.WARNING).
		WithMemTableSize(16 << 20) // 16MB MemTableSize

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Get 一个 batch 的所有 key 在同一个 View 事务里读完
func (s *Store) Get(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := storage.NullResult(keys)

	err := s.db.View(func(txn *badgerdb.Txn) error {
		for _, key := range keys {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("badger get %s: %w", key, err)
			}
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("badger read %s: %w", key, err)
			}
			env, err := core.DecodeEnvelope(raw)
			if err != nil {
				// 单条记录损坏不影响整个 batch，按 miss 处理
				s.logger.Warn("corrupted envelope, treating as missing",
					zap.String("key", key), zap.Error(err))
				continue
			}
			out[key] = env.Value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte, meta storage.Metadata) error {
	data, err := core.EncodeEnvelope(value, meta)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("badger put %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
