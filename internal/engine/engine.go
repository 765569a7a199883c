package engine

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bdds/bdds/internal/cache"
	"github.com/bdds/bdds/internal/dataset"
	"github.com/bdds/bdds/internal/fetch"
	"github.com/bdds/bdds/internal/logging"
	"github.com/bdds/bdds/internal/resolve"
)

// Options 控制结果塑形：ReturnDict 返回带标识维度的记录而非裸数据，
// ForceList 抑制单元素塌缩。
type Options struct {
	ReturnDict bool
	ForceList  bool
}

// Engine 将一个数据集的取数流程串起来：resolve → ensure → parse → shape。
type Engine struct {
	key     string
	adapter dataset.Adapter
	store   *cache.Store
	fetcher *fetch.Fetcher
	logger  *logrus.Logger
}

// New 组装一个取数引擎，所有协作方由调用方（通常是 ForDataset）注入。
func New(key string, adapter dataset.Adapter, store *cache.Store, fetcher *fetch.Fetcher, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		key:     key,
		adapter: adapter,
		store:   store,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Adapter 暴露底层适配器，供 CLI 查询元信息。
func (e *Engine) Adapter() dataset.Adapter {
	return e.adapter
}

// Get 执行一次完整取数。任何一个条目失败（校验、下载、解析）都使整个
// 请求失败，已装载的数据不会部分返回；已就位的文件保留在缓存中，
// 重试时直接命中。
func (e *Engine) Get(ctx context.Context, sel dataset.Selection, opts Options) (interface{}, error) {
	items, err := resolve.Items(e.adapter, sel)
	if err != nil {
		return nil, err
	}

	fields := logging.DatasetFields("resolve", e.key)
	fields["items"] = len(items)
	e.logger.WithFields(fields).Info("selection 展开完成")

	for i := range items {
		item := &items[i]
		if err := e.ensure(ctx, item.RelPath); err != nil {
			return nil, err
		}

		abs, err := e.store.Absolute(item.RelPath)
		if err != nil {
			return nil, err
		}

		payload, err := e.adapter.Parse(abs)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", item.RelPath, err)
		}
		item.Payload = payload
	}

	return Shape(items, opts), nil
}

func (e *Engine) ensure(ctx context.Context, rel string) error {
	return e.fetcher.Ensure(ctx, rel, func(ctx context.Context) error {
		return e.adapter.Install(ctx, rel)
	})
}

// DownloadAll 按远端登记表批量预取整个数据集，跳过人工确认；已就位的
// 条目直接略过。单个条目失败即终止，方便脚本按退出码重试。
func (e *Engine) DownloadAll(ctx context.Context) error {
	files := e.adapter.RemoteFiles()

	fields := logging.DatasetFields("download_all", e.key)
	fields["files"] = len(files)
	e.logger.WithFields(fields).Info("开始批量预取")

	auto := e.fetcher.Auto()
	for _, rf := range files {
		if err := auto.Ensure(ctx, rf.Rel, func(ctx context.Context) error {
			return e.adapter.Install(ctx, rf.Rel)
		}); err != nil {
			return fmt.Errorf("download %s: %w", rf.Name, err)
		}
	}

	e.logger.WithFields(logging.DatasetFields("download_all_done", e.key)).Info("批量预取完成")
	return nil
}
