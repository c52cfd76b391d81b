package themefiles

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"themestore/pkg/metrics"
	"themestore/pkg/storage"
	"themestore/pkg/storage/memory"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Storage 负责主题文件的批量读写：
// 规划批次、校验体积、检查是否已存在、在并发上限内执行。
// 除了 client 句柄和并发上限之外不持有任何状态，多个调用之间互不协调。
type Storage struct {
	client      storage.Client
	flavor      storage.Flavor
	concurrency int
	logger      *zap.Logger
}

type Option func(*Storage)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Storage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConcurrency 覆盖由 flavor 推导出的并发上限 (测试用)
func WithConcurrency(n int) Option {
	return func(s *Storage) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New 创建 Storage。client 为 nil 时自动使用内存实现。
func New(client storage.Client, flavor storage.Flavor, opts ...Option) *Storage {
	if client == nil {
		client = memory.New()
		flavor = storage.FlavorMemory
	}
	if flavor == "" {
		flavor = storage.FlavorMemory
	}

	s := &Storage{
		client:      client,
		flavor:      flavor,
		concurrency: flavor.Concurrency(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("themefiles").With(zap.String("flavor", flavor.String()))
	return s
}

func (s *Storage) Flavor() storage.Flavor { return s.flavor }

func (s *Storage) Concurrency() int { return s.concurrency }

// GetFiles 读取文件内容。
// 返回的列表与输入顺序、数量一致；命中的填充 FileData，未命中的原样返回。
// 任何存储错误都会让整个调用失败。
func (s *Storage) GetFiles(ctx context.Context, configs []FileConfig) (out []FileConfig, err error) {
	start := time.Now()
	defer func() { metrics.RecordOperation("get_files", time.Since(start), err) }()

	if len(configs) == 0 {
		return []FileConfig{}, nil
	}

	found, err := s.fetch(ctx, "get", uniqueByKey(configs))
	if err != nil {
		return nil, err
	}

	out = make([]FileConfig, len(configs))
	hits := 0
	for i, c := range configs {
		out[i] = c
		if v := found[c.Key()]; v != nil {
			out[i].FileData = v
			hits++
		}
	}
	metrics.RecordGetFiles(hits, len(configs)-hits)

	s.logger.Debug("get files done",
		zap.Int("requested", len(configs)), zap.Int("hits", hits), zap.Duration("dur", time.Since(start)))
	return out, nil
}

// PutFiles 尽可能多地写入合法且尚未存储的文件。
// 体积问题不会报错，而是以 FileWarning 形式返回；只有存储传输错误才会返回 error。
func (s *Storage) PutFiles(ctx context.Context, configs []FileConfig) (res *PutFilesResult, err error) {
	start := time.Now()
	defer func() { metrics.RecordOperation("put_files", time.Since(start), err) }()

	res = &PutFilesResult{Warnings: []FileWarning{}}

	// 1. 校验：缺数据的直接跳过，超限的记 warning 并跳过
	valid := make([]FileConfig, 0, len(configs))
	seen := make(map[string]struct{}, len(configs))
	missing, rejected, duplicates := 0, 0, 0
	for _, c := range configs {
		if !c.HasData() {
			missing++
			continue
		}

		warning, store := ValidateFile(c)
		if warning != nil {
			res.Warnings = append(res.Warnings, *warning)
			metrics.RecordWarning(string(warning.Reason))
			s.logger.Warn("file size warning",
				zap.String("path", c.FilePath),
				zap.String("hash", c.Hash.String()),
				zap.Int64("size", warning.Size),
				zap.String("reason", string(warning.Reason)),
				zap.String("action", string(warning.Action)))
		}
		if !store {
			rejected++
			continue
		}

		// 同一次调用里重复的内容只写一次
		key := c.Key()
		if _, dup := seen[key]; dup {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
		valid = append(valid, c)
	}
	res.Skipped = missing + rejected
	metrics.RecordSkipped("missing_data", missing)
	metrics.RecordSkipped("rejected", rejected)

	if len(valid) == 0 {
		res.SkippedExisting = duplicates
		metrics.RecordSkipped("existing", duplicates)
		return res, nil
	}

	// 2. 存在性检查必须在任何写入之前完成
	existing, err := s.checkExisting(ctx, valid)
	if err != nil {
		return nil, err
	}

	writeSet := make([]FileConfig, 0, len(valid))
	for _, c := range valid {
		if !existing[c.Key()] {
			writeSet = append(writeSet, c)
		}
	}
	res.SkippedExisting = len(valid) - len(writeSet) + duplicates
	metrics.RecordSkipped("existing", res.SkippedExisting)

	// 3. 并发写入
	written, err := s.writeAll(ctx, writeSet)
	if err != nil {
		return nil, err
	}
	res.Written = written

	s.logger.Info("put files done",
		zap.Int("written", res.Written),
		zap.Int("skipped", res.Skipped),
		zap.Int("skipped_existing", res.SkippedExisting),
		zap.Int("warnings", len(res.Warnings)),
		zap.Duration("dur", time.Since(start)))
	return res, nil
}

// checkExisting 存储没有批量 "has-key" 原语，只能用批量读来探测，
// 所以同样受批次体积和 key 数限制
func (s *Storage) checkExisting(ctx context.Context, configs []FileConfig) (map[string]bool, error) {
	found, err := s.fetch(ctx, "exists", configs)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(configs))
	for _, c := range configs {
		existing[c.Key()] = found[c.Key()] != nil
	}
	return existing, nil
}

// fetch 规划批次并在并发上限内执行批量读，合并为一个 key -> value map
func (s *Storage) fetch(ctx context.Context, phase string, configs []FileConfig) (map[string][]byte, error) {
	batches := PlanBatches(configs)

	keysPerBatch := make([]int, len(batches))
	for i, b := range batches {
		keysPerBatch[i] = len(b.Keys)
	}
	metrics.RecordBatchPlan(phase, keysPerBatch)
	s.logger.Debug("batches planned",
		zap.String("phase", phase), zap.Int("files", len(configs)), zap.Int("batches", len(batches)))

	// 每个批次写自己的槽位，不需要加锁
	results := make([]map[string][]byte, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, b := range batches {
		g.Go(func() error {
			vals, err := s.client.Get(gctx, b.Keys)
			metrics.RecordStoreRead(s.flavor.String(), err)
			if err != nil {
				s.logger.Error("batch read failed",
					zap.String("phase", phase),
					zap.Int("batch", i),
					zap.Int("batches", len(batches)),
					zap.Int("keys", len(b.Keys)),
					zap.Int64("estimated_bytes", b.EstimatedSize),
					zap.Error(err))
				return fmt.Errorf("%s: read batch %d/%d (%d keys, ~%d bytes): %w",
					phase, i+1, len(batches), len(b.Keys), b.EstimatedSize, err)
			}
			results[i] = vals
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 不同批次之间不会有重复 key，合并顺序无关
	merged := make(map[string][]byte, len(configs))
	for _, r := range results {
		for k, v := range r {
			merged[k] = v
		}
	}
	return merged, nil
}

// writeAll 并发写入，返回成功写入的数量
func (s *Storage) writeAll(ctx context.Context, configs []FileConfig) (int, error) {
	var written atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, c := range configs {
		g.Go(func() error {
			var meta storage.Metadata
			if c.File.ContentType != "" {
				meta = storage.Metadata{storage.MetaContentType: c.File.ContentType}
			}

			err := s.client.Put(gctx, c.Key(), c.FileData, meta)
			metrics.RecordStoreWrite(s.flavor.String(), len(c.FileData), err)
			if err != nil {
				s.logger.Error("file write failed",
					zap.String("path", c.FilePath),
					zap.String("key", c.Key()),
					zap.Int("size", len(c.FileData)),
					zap.Error(err))
				return fmt.Errorf("write %s (%s): %w", c.FilePath, c.Key(), err)
			}
			written.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return int(written.Load()), nil
}

// uniqueByKey 去掉重复 hash，保证同一个 key 只出现在一个批次里
func uniqueByKey(configs []FileConfig) []FileConfig {
	seen := make(map[string]struct{}, len(configs))
	out := make([]FileConfig, 0, len(configs))
	for _, c := range configs {
		k := c.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}
