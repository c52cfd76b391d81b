// pkg/types/common.go
package types

import "strings"

// KeyPrefix 是所有主题文件内容在 KV 存储中的固定前缀
const KeyPrefix = "file_data:"

// Hash 代表主题文件内容的唯一标识符 (内容寻址)
// 这是一个“值对象”，应当是不可变的。
type Hash string

func (h Hash) String() string { return string(h) }

func (h Hash) IsZero() bool { return h == "" }

// IsValid 简单的长度检查 (SHA256 Hex)
// 注意：上游平台给的 hash 不一定是 sha256，存储层只要求非空
func (h Hash) IsValid() bool { return len(h) == 64 }

// StorageKey 生成存储 Key: "file_data:<hash>"
func StorageKey(h Hash) string {
	return KeyPrefix + string(h)
}

// HashFromKey 是 StorageKey 的逆运算 (简单去前缀)
// 如果 key 不带前缀，ok 返回 false
func HashFromKey(key string) (Hash, bool) {
	if !strings.HasPrefix(key, KeyPrefix) {
		return "", false
	}
	return Hash(strings.TrimPrefix(key, KeyPrefix)), true
}
