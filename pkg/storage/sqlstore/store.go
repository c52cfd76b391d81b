// Package sqlstore 用一张 KV 表实现批量读：一个 batch 就是一条 WHERE storage_key IN (...)
package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"themestore/pkg/storage"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *DB
}

var _ storage.Client = (*Store)(nil)

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := storage.NullResult(keys)
	if len(keys) == 0 {
		return out, nil
	}

	var entries []Entry
	err := s.db.GetConn().WithContext(ctx).
		Select("storage_key", "value").
		Where("storage_key IN ?", keys).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("sql bulk get (%d keys): %w", len(keys), err)
	}

	for _, e := range entries {
		// 只接受请求过的 key，保证结果集和输入一一对应
		if _, ok := out[e.StorageKey]; !ok {
			continue
		}
		v := e.Value
		if v == nil {
			v = []byte{}
		}
		out[e.StorageKey] = v
	}
	return out, nil
}

// Put 幂等写入 (Upsert)
func (s *Store) Put(ctx context.Context, key string, value []byte, meta storage.Metadata) error {
	var metaJSON datatypes.JSON
	if len(meta) > 0 {
		raw, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metaJSON = datatypes.JSON(raw)
	}
	if value == nil {
		value = []byte{}
	}

	entry := Entry{
		StorageKey: key,
		Value:      value,
		Metadata:   metaJSON,
		UpdatedAt:  time.Now(),
	}

	// 如果 Key 已存在，则覆盖 value / metadata
	err := s.db.GetConn().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "metadata", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("sql put %s: %w", key, err)
	}
	return nil
}

// Metadata 读取某个 key 写入时附带的 metadata
func (s *Store) Metadata(ctx context.Context, key string) (storage.Metadata, error) {
	var entry Entry
	err := s.db.GetConn().WithContext(ctx).
		Where("storage_key = ?", key).
		Limit(1).
		Find(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.StorageKey == "" {
		return nil, storage.ErrNotFound
	}

	meta := storage.Metadata{}
	if len(entry.Metadata) > 0 {
		if err := json.Unmarshal(entry.Metadata, &meta); err != nil {
			return nil, err
		}
	}
	return meta, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
