package engine

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/bdds/bdds/internal/cache"
	"github.com/bdds/bdds/internal/config"
	"github.com/bdds/bdds/internal/dataset"
	"github.com/bdds/bdds/internal/fetch"
)

// ForDataset 按配置组装指定数据集的取数引擎：缓存根目录取
// <DataStore>/<Subdir>，配置中的数据集覆盖项（子目录、下载基址、URL
// 后缀）优先于适配器内置默认值。
func ForDataset(cfg *config.Config, key string, logger *logrus.Logger) (*Engine, error) {
	reg, ok := dataset.Resolve(key)
	if !ok {
		return nil, fmt.Errorf("未注册的数据集 %q，可用值: %v", key, dataset.Keys())
	}

	dsCfg, _ := cfg.Dataset(key)

	subdir := dsCfg.Subdir
	if subdir == "" {
		subdir = reg.Meta.Subdir
	}

	store, err := cache.NewStore(filepath.Join(cfg.Global.DataStore, subdir))
	if err != nil {
		return nil, err
	}

	env := dataset.Env{
		Store:      store,
		Client:     fetch.NewClient(cfg.Global.DownloadTimeout.DurationValue()),
		Logger:     logger,
		RemoteBase: dsCfg.RemoteBase,
		URLSuffix:  dsCfg.URLSuffix,
	}

	adapter, err := reg.New(env)
	if err != nil {
		return nil, fmt.Errorf("构造数据集适配器 %s 失败: %w", reg.Meta.Key, err)
	}

	fetcher := fetch.NewFetcher(store, logger, fetch.ConfirmMode(cfg.Global.ConfirmMode))

	return New(reg.Meta.Key, adapter, store, fetcher, logger), nil
}
