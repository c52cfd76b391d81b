package ignore

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFile 主题目录下的用户自定义忽略规则文件
const IgnoreFile = ".themeignore"

// ManifestFile put 命令生成的清单文件，扫描时不能把它当成主题资源
const ManifestFile = "themestore.manifest.json"

// Matcher 判断一个文件是否应该被排除在上传之外
type Matcher struct {
	ignorer *gitignore.GitIgnore
}

// NewMatcher 初始化忽略匹配器
// rootPath: 主题根目录（用于查找 .themeignore）
func NewMatcher(rootPath string) (*Matcher, error) {
	// 强制生效的默认规则
	defaultRules := []string{
		".themestore", // 本地存储目录，扫描它会把对象再上传一遍
		".git",
		IgnoreFile,
		ManifestFile,

		// 防止凭证泄露
		"config.yaml",
		".env",

		".DS_Store",
		"Thumbs.db",
	}

	var ignorer *gitignore.GitIgnore
	var err error

	ignoreFilePath := filepath.Join(rootPath, IgnoreFile)
	if _, errStat := os.Stat(ignoreFilePath); errStat == nil {
		// 用户规则和默认规则合并编译
		ignorer, err = gitignore.CompileIgnoreFileAndLines(ignoreFilePath, defaultRules...)
	} else {
		ignorer = gitignore.CompileIgnoreLines(defaultRules...)
	}
	if err != nil {
		return nil, err
	}

	return &Matcher{ignorer: ignorer}, nil
}

// Matches 检查给定的路径是否匹配忽略规则
// path: 相对于主题根目录的路径 (例如 "assets/site.css")
func (m *Matcher) Matches(path string) bool {
	if m.ignorer == nil {
		return false
	}
	return m.ignorer.MatchesPath(filepath.ToSlash(path))
}
