package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("object not found")
	ErrUnknownFlavor = errors.New("unknown storage flavor")
	ErrClosed        = errors.New("store is closed")
)

// MetaContentType 是写入时携带的唯一标准 metadata 字段
const MetaContentType = "content_type"

// Metadata 随 value 一起写入的附加信息 (例如 content_type)
type Metadata map[string]any

// Client 定义了主题文件存储层所需的最小 KV 能力
// 实现可以是支持批量读的后端 (Redis, Badger, SQL)，
// 只支持单 Key 读的后端 (S3, Disk，经 FanOut 包装)，或者内存实现。
type Client interface {
	// Get 批量读取。
	// 返回的 map 必须包含每一个输入 key；不存在的 key 对应 nil。
	// 存在但内容为空的 value 返回非 nil 的空切片。
	Get(ctx context.Context, keys []string) (map[string][]byte, error)

	// Put 无条件覆盖写 (Upsert)
	Put(ctx context.Context, key string, value []byte, meta Metadata) error
}

// Strategy 描述后端的读取方式
type Strategy string

const (
	StrategyBulk   Strategy = "bulk"   // 原生批量读 (一次请求读一个 batch)
	StrategyFanOut Strategy = "fanout" // 每个 key 一个并发请求
	StrategyMemory Strategy = "memory" // 测试/本地运行
)

// Flavor 是配置里的 storage.type，决定具体后端、读取策略和并发上限
type Flavor string

const (
	FlavorMemory   Flavor = "memory"
	FlavorDisk     Flavor = "disk"
	FlavorBadger   Flavor = "badger"
	FlavorSQLite   Flavor = "sqlite"
	FlavorRedis    Flavor = "redis"
	FlavorPostgres Flavor = "postgres"
	FlavorS3       Flavor = "s3"
)

// 并发上限：本地/模拟后端可以吃下更多并行请求；
// 远端后端调低，避免触发限流
const (
	LocalConcurrency  = 50
	RemoteConcurrency = 6
)

type flavorSpec struct {
	strategy Strategy
	local    bool
}

var flavors = map[Flavor]flavorSpec{
	FlavorMemory:   {StrategyMemory, true},
	FlavorDisk:     {StrategyFanOut, true},
	FlavorBadger:   {StrategyBulk, true},
	FlavorSQLite:   {StrategyBulk, true},
	FlavorRedis:    {StrategyBulk, false},
	FlavorPostgres: {StrategyBulk, false},
	FlavorS3:       {StrategyFanOut, false},
}

// ParseFlavor 校验配置值
func ParseFlavor(s string) (Flavor, error) {
	f := Flavor(s)
	if _, ok := flavors[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFlavor, s)
	}
	return f, nil
}

func (f Flavor) String() string { return string(f) }

// Strategy 未知 flavor 按内存处理 (构造阶段已经校验过)
func (f Flavor) Strategy() Strategy {
	if spec, ok := flavors[f]; ok {
		return spec.strategy
	}
	return StrategyMemory
}

func (f Flavor) Local() bool {
	spec, ok := flavors[f]
	return !ok || spec.local
}

// Concurrency 单次 GetFiles/PutFiles 调用内同时在途的批量读或单个写的上限
func (f Flavor) Concurrency() int {
	if f.Local() {
		return LocalConcurrency
	}
	return RemoteConcurrency
}

// NullResult 构造一个所有 key 都为 nil 的结果
// 用于后端返回了畸形结果时的降级
func NullResult(keys []string) map[string][]byte {
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		out[k] = nil
	}
	return out
}
