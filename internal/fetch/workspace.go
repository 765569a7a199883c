package fetch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace 是一次安装专用的临时目录。目录名带进程内唯一的 uuid token，
// 同一进程的连续安装不会互相碰撞；Close 在任何退出路径上都应被 defer
// 调用，保证临时归档与解压产物一并清除。
type Workspace struct {
	dir string
}

// NewWorkspace 在系统临时目录下创建 uuid 命名的工作目录。
func NewWorkspace() (*Workspace, error) {
	dir := filepath.Join(os.TempDir(), "bdds-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create fetch workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir 返回工作目录路径。
func (w *Workspace) Dir() string {
	return w.dir
}

// Path 返回工作目录下某个文件的路径。
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Close 删除整个工作目录及其内容。
func (w *Workspace) Close() error {
	return os.RemoveAll(w.dir)
}
