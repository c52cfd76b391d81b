package sqlstore

import (
	"time"

	"gorm.io/datatypes"
)

// Entry 是 KV 表的一行
// 对应 file_data:<hash> -> 文件内容
type Entry struct {
	// StorageKey 是主键 ("key" 在部分数据库是保留字，所以不用它)
	StorageKey string `gorm:"primaryKey;type:varchar(255)"`

	// Value 原始内容 (二进制安全)
	Value []byte `gorm:"not null"`

	// Metadata 写入时附带的信息 (content_type 等)
	Metadata datatypes.JSON

	UpdatedAt time.Time
}

// TableName 强制指定表名
func (Entry) TableName() string {
	return "kv_entries"
}
