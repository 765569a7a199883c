package fetch

import (
	"archive/zip"
	"context"
	"fmt"
	"path"

	"github.com/bdds/bdds/internal/cache"
)

// InstallZip 将 zip 归档的全部普通文件成员安装进缓存，成员名即相对路径
// （可选地再拼接 destPrefix）。越界成员名由 Store 的路径防护拒绝。
// 一个归档往往覆盖多条逻辑路径，调用一次即可满足多项待取 Item。
func InstallZip(ctx context.Context, store *cache.Store, zipPath, destPrefix string) error {
	archive, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", zipPath, err)
	}
	defer archive.Close()

	for _, member := range archive.File {
		if member.FileInfo().IsDir() {
			continue
		}

		rel := member.Name
		if destPrefix != "" {
			rel = path.Join(destPrefix, rel)
		}

		reader, err := member.Open()
		if err != nil {
			return fmt.Errorf("open archive member %s: %w", member.Name, err)
		}
		_, err = store.Install(ctx, rel, reader)
		closeErr := reader.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("install archive member %s: %w", member.Name, err)
		}
	}
	return nil
}
