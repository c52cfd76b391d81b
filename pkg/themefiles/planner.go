package themefiles

import (
	"cmp"
	"slices"
)

const MiB = 1 << 20

// 存储传输层限制
const (
	// MaxBatchSize 单个批量读的总字节数上限 (比后端真实上限留了余量)
	MaxBatchSize = 20 * MiB
	// MaxKeysPerRequest 后端单次批量读允许的最大 key 数
	MaxKeysPerRequest = 100
)

// TargetBatches 计算需要多少个批次才能同时满足体积和 key 数限制
func TargetBatches(totalSize int64, count int) int {
	sizeBatches := ceilDiv(totalSize, MaxBatchSize)
	keyBatches := ceilDiv(int64(count), MaxKeysPerRequest)
	return int(max(sizeBatches, keyBatches, 1))
}

func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// PlanBatches 把文件切分为若干个批次，用于批量读 (GetFiles 和存在性检查共用)
//
// 1. 按大小降序排序，让大文件均匀分散到各个批次
// 2. 批次数 = max(ceil(总大小/MaxBatchSize), ceil(数量/MaxKeysPerRequest), 1)
// 3. Round-robin 分配：第 i 个文件进入第 i % n 个批次
// 4. 丢弃空批次
func PlanBatches(configs []FileConfig) []ConfigBatch {
	if len(configs) == 0 {
		return nil
	}

	sorted := slices.Clone(configs)
	slices.SortStableFunc(sorted, func(a, b FileConfig) int {
		return cmp.Compare(b.planningSize(), a.planningSize())
	})

	var total int64
	for _, c := range sorted {
		total += c.planningSize()
	}

	n := TargetBatches(total, len(sorted))
	batches := make([]ConfigBatch, n)
	for i, c := range sorted {
		b := &batches[i%n]
		b.Configs = append(b.Configs, c)
		b.Keys = append(b.Keys, c.Key())
		b.EstimatedSize += c.planningSize()
	}

	// 目前 n 不会超过文件数，但不依赖这个前提
	return slices.DeleteFunc(batches, func(b ConfigBatch) bool {
		return len(b.Configs) == 0
	})
}
