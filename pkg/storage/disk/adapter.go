package disk

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"themestore/pkg/core"
	"themestore/pkg/storage"
)

// Adapter 实现了 storage.SingleStore 接口 (本地磁盘，无批量读)
// 使用时需要经 storage.NewFanOut 包装成 storage.Client
type Adapter struct {
	rootPath string // 比如: /home/user/.themestore/objects
}

var _ storage.SingleStore = (*Adapter)(nil)

// NewAdapter 创建一个新的磁盘存储适配器
func NewAdapter(root string) (*Adapter, error) {
	// 确保根目录存在
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage dir: %w", err)
	}
	return &Adapter{rootPath: root}, nil
}

// layout 返回 key 对应的物理路径
// 策略：冒号前的部分作为命名空间目录，后面的 hash 取前 2 个字符分片
// Example: "file_data:aabbcc..." -> root/file_data/aa/bbcc...
// 上游 hash 可能是 base64 之类带 '/' 的字符串，这种段落会先转成 "~<hex>" 再分片
func (s *Adapter) layout(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}

	ns, name := "_", key
	if i := strings.IndexByte(key, ':'); i >= 0 {
		ns, name = key[:i], key[i+1:]
	}
	if ns == "" {
		ns = "_"
	}
	ns, name = pathSegment(ns), pathSegment(name)
	if len(name) < 3 {
		return filepath.Join(s.rootPath, ns, name+".obj"), nil
	}
	return filepath.Join(s.rootPath, ns, name[:2], name[2:]), nil
}

// pathSegment 只有 [A-Za-z0-9_-] 组成的段落原样使用
// 其余一律 hex 编码并加 '~' 前缀，两类结果不会互相撞名
func pathSegment(seg string) string {
	if seg != "" && strings.IndexFunc(seg, unsafeRune) < 0 {
		return seg
	}
	return "~" + hex.EncodeToString([]byte(seg))
}

func unsafeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		return false
	}
	return true
}

// Put 覆盖写入 (value + metadata 一起打包成 CBOR Envelope)
func (s *Adapter) Put(ctx context.Context, key string, value []byte, meta storage.Metadata) error {
	targetPath, err := s.layout(key)
	if err != nil {
		return err
	}

	data, err := core.EncodeEnvelope(value, meta)
	if err != nil {
		return err
	}

	// 1. 准备目录
	dir := filepath.Dir(targetPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// 2. 原子写入 (Atomic Write)
	// 先写到临时文件，然后 Rename。要么文件不存在，要么文件是完整的。
	tempFile, err := os.CreateTemp(dir, "temp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}

	// 3. 移动到最终位置
	return os.Rename(tempFile.Name(), targetPath)
}

// GetOne 读取单个 key
func (s *Adapter) GetOne(ctx context.Context, key string) ([]byte, error) {
	targetPath, err := s.layout(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(targetPath)
	if os.IsNotExist(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	env, err := core.DecodeEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("corrupted object %s: %w", key, err)
	}
	return env.Value, nil
}

// Metadata 读取写入时附带的 metadata
func (s *Adapter) Metadata(ctx context.Context, key string) (storage.Metadata, error) {
	targetPath, err := s.layout(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(targetPath)
	if os.IsNotExist(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	env, err := core.DecodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	return storage.Metadata(env.Metadata), nil
}
