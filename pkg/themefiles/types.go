package themefiles

import "themestore/pkg/types"

// FileInfo 文件元数据。Length 必须在批次规划前已知
type FileInfo struct {
	Length      int64  `cbor:"length"`
	ContentType string `cbor:"content_type,omitempty"`
}

// FileConfig 代表一个主题资源文件 (CSS, JS, 图片...)
type FileConfig struct {
	// Hash 内容寻址的唯一标识，也是存储 Key 的后缀
	Hash types.Hash `cbor:"hash"`

	// FilePath 仅用于日志和导出
	FilePath string `cbor:"file_path"`

	File FileInfo `cbor:"file"`

	// FileData 原始内容。nil 表示“未加载”；空文件是非 nil 的空切片
	FileData []byte `cbor:"file_data"`
}

// Key 返回存储 Key: file_data:<hash>
func (c FileConfig) Key() string {
	return types.StorageKey(c.Hash)
}

func (c FileConfig) HasData() bool {
	return c.FileData != nil
}

// planningSize 批次规划用的估算大小
// Length 未知时退回到已加载数据的长度，都没有则按 0 处理
func (c FileConfig) planningSize() int64 {
	if c.File.Length > 0 {
		return c.File.Length
	}
	return int64(len(c.FileData))
}

// ConfigBatch 一次存储请求处理的一组文件，只在单次调用内存在
type ConfigBatch struct {
	Configs       []FileConfig
	Keys          []string
	EstimatedSize int64
}

// WarningReason 体积校验的结论
type WarningReason string

const (
	ReasonWarning1MB   WarningReason = "warning_1mb"
	ReasonRejected5MB  WarningReason = "rejected_5mb"
	ReasonExceeded25MB WarningReason = "exceeded_25mb"
)

// Action 校验后对文件的处理
type Action string

const (
	ActionStored   Action = "stored"
	ActionRejected Action = "rejected"
)

// FileWarning 单个文件的校验结果 (不是错误，作为数据返回给调用方)
type FileWarning struct {
	Hash     types.Hash    `cbor:"hash"`
	FilePath string        `cbor:"file_path"`
	Size     int64         `cbor:"size"`
	Reason   WarningReason `cbor:"reason"`
	Action   Action        `cbor:"action"`
}

// PutFilesResult 一次写入的汇总
type PutFilesResult struct {
	Written         int           `cbor:"written"`
	Skipped         int           `cbor:"skipped"`          // 被拒绝或缺少数据
	SkippedExisting int           `cbor:"skipped_existing"` // 已存在，未重复写入
	Warnings        []FileWarning `cbor:"warnings"`
}
