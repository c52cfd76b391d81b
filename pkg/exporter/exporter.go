package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"themestore/pkg/themefiles"
)

// ExportResult 还原目录的汇总
type ExportResult struct {
	Written int
	Missing []string // 存储里找不到内容的文件路径
}

// WriteFiles 把 GetFiles 的结果写回到 dir 下
// FileData 为 nil 的文件记为缺失，不会创建空文件
func WriteFiles(dir string, configs []themefiles.FileConfig) (*ExportResult, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	res := &ExportResult{}
	for _, c := range configs {
		if !c.HasData() {
			res.Missing = append(res.Missing, c.FilePath)
			continue
		}

		target, err := safeJoin(root, c.FilePath)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, fmt.Errorf("failed to create dir for %s: %w", c.FilePath, err)
		}
		if err := os.WriteFile(target, c.FileData, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", c.FilePath, err)
		}
		res.Written++
	}
	return res, nil
}

// safeJoin 拒绝逃逸出 root 的路径 (例如 "../../etc/passwd")
func safeJoin(root, rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) {
		return "", fmt.Errorf("invalid file path %q", rel)
	}
	target := filepath.Join(root, filepath.FromSlash(rel))
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", fmt.Errorf("file path %q escapes output dir", rel)
	}
	return target, nil
}
