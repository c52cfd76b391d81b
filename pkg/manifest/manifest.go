// pkg/manifest/manifest.go
package manifest

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"themestore/pkg/themefiles"
	"themestore/pkg/types"
)

// Entry 清单中的一条记录：一个主题文件对应的存储 key
type Entry struct {
	Path        string     `json:"path"` // 相对主题根目录 (如 "assets/site.css")
	Hash        types.Hash `json:"hash"`
	Size        int64      `json:"size"`
	ContentType string     `json:"content_type,omitempty"`
	ModifiedAt  time.Time  `json:"modified_at"`
}

// Manifest 记录一次 put 上传了哪些文件，get 时据此还原目录
type Manifest struct {
	path    string
	Entries map[string]Entry `json:"entries"`
	mu      sync.RWMutex
}

// Load 加载或创建一个新的 Manifest
func Load(path string) (*Manifest, error) {
	m := &Manifest{
		path:    path,
		Entries: make(map[string]Entry),
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest: %w", err)
		}
		if err := json.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("corrupted manifest file: %w", err)
		}
		if m.Entries == nil {
			m.Entries = make(map[string]Entry)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return m, nil
}

// Add 更新一条记录
func (m *Manifest) Add(c themefiles.FileConfig) {
	key := CleanPath(c.FilePath)
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Entries[key] = Entry{
		Path:        key,
		Hash:        c.Hash,
		Size:        c.File.Length,
		ContentType: c.File.ContentType,
		ModifiedAt:  time.Now(),
	}
}

func (m *Manifest) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Entries, CleanPath(path))
}

// Save 持久化到磁盘 (Indented，方便人工查看)
func (m *Manifest) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0644)
}

// Snapshot 返回当前 Entry 的副本，用于并发安全的读取
func (m *Manifest) Snapshot() map[string]Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := make(map[string]Entry, len(m.Entries))
	maps.Copy(snap, m.Entries)
	return snap
}

func (m *Manifest) IsEmpty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Entries) == 0
}

// Configs 按路径排序转换成 FileConfig (FileData 为 nil，等待 GetFiles 填充)
func (m *Manifest) Configs() []themefiles.FileConfig {
	snap := m.Snapshot()
	paths := slices.Sorted(maps.Keys(snap))

	out := make([]themefiles.FileConfig, 0, len(paths))
	for _, p := range paths {
		e := snap[p]
		out = append(out, themefiles.FileConfig{
			Hash:     e.Hash,
			FilePath: e.Path,
			File:     themefiles.FileInfo{Length: e.Size, ContentType: e.ContentType},
		})
	}
	return out
}

func CleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
