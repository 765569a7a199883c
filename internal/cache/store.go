package cache

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Store 以一个根目录管理数据集缓存，目录树在构造时一次性创建，
// 之后只有 Install 会产生写入。
type Store struct {
	basePath string
}

// Entry 描述一次安装完成的缓存条目。
type Entry struct {
	RelPath   string
	FilePath  string
	SizeBytes int64
	ModTime   time.Time
}

// NewStore 以 basePath 为根目录构建磁盘缓存，整个进程复用一份实例。
func NewStore(basePath string) (*Store, error) {
	if basePath == "" {
		return nil, errors.New("datastore path required")
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve datastore path: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create datastore path: %w", err)
	}

	return &Store{basePath: abs}, nil
}

// DefaultRoot 返回 home 目录下的默认 datastore 根：~/.bdds/<subdir>。
func DefaultRoot(subdir string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".bdds", subdir), nil
}

// Root 返回缓存根目录的绝对路径。
func (s *Store) Root() string {
	return s.basePath
}

// Exists 判断相对路径对应的文件是否已在本地就位，目录不算命中。
func (s *Store) Exists(rel string) bool {
	filePath, err := s.entryPath(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Absolute 将相对路径解析为根目录下的绝对路径，越界路径返回错误。
func (s *Store) Absolute(rel string) (string, error) {
	return s.entryPath(rel)
}

// entryPath 统一做路径清洗与越界防护，所有读写入口共用。
func (s *Store) entryPath(rel string) (string, error) {
	if rel == "" {
		return "", errors.New("relative path required")
	}

	clean := path.Clean("/" + strings.ReplaceAll(rel, "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", errors.New("relative path required")
	}

	filePath := filepath.Join(s.basePath, filepath.FromSlash(clean))
	if !strings.HasPrefix(filePath, s.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid cache path: %s", rel)
	}
	return filePath, nil
}
