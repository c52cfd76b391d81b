package ingester

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"themestore/pkg/core"
	"themestore/pkg/ignore"
	"themestore/pkg/themefiles"

	"go.uber.org/zap"
)

// Ingester 把主题目录转换成一组 FileConfig (内容已加载、hash 已计算)
type Ingester struct {
	logger *zap.Logger
}

func NewIngester(logger *zap.Logger) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{logger: logger.Named("ingester")}
}

// ScanDir 遍历 root，跳过 .themeignore 和默认规则命中的路径
// 返回顺序与 WalkDir 一致 (字典序)，FilePath 是相对 root 的 slash 路径
func (ing *Ingester) ScanDir(ctx context.Context, root string) ([]themefiles.FileConfig, error) {
	matcher, err := ignore.NewMatcher(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore rules: %w", err)
	}

	var configs []themefiles.FileConfig
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if matcher.Matches(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		cfg, err := ing.IngestFile(path, rel)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", rel, err)
		}
		configs = append(configs, cfg)
		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, fmt.Errorf("walk failed: %w", err)
	}

	ing.logger.Debug("scan done", zap.String("root", root), zap.Int("files", len(configs)))
	return configs, nil
}

// IngestFile 读取单个文件。rel 作为 FilePath 记录
func (ing *Ingester) IngestFile(path, rel string) (themefiles.FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return themefiles.FileConfig{}, err
	}
	// 空文件也要和“未加载”区分开
	if data == nil {
		data = []byte{}
	}

	return themefiles.FileConfig{
		Hash:     core.CalculateBlobHash(data),
		FilePath: rel,
		File: themefiles.FileInfo{
			Length:      int64(len(data)),
			ContentType: DetectContentType(rel, data),
		},
		FileData: data,
	}, nil
}

// DetectContentType 优先按扩展名判断，否则嗅探内容
func DetectContentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
