package fetch

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bdds/bdds/internal/cache"
	"github.com/bdds/bdds/internal/dataset"
)

// ConfirmMode 描述取远端文件前是否需要人工确认。
type ConfirmMode string

const (
	// ConfirmModeInteractive 在每次缺失下载前阻塞等待 yes/no 确认。
	ConfirmModeInteractive ConfirmMode = "interactive"
	// ConfirmModeAuto 跳过确认，直接下载，供批量预取与脚本使用。
	ConfirmModeAuto ConfirmMode = "auto"
)

// InstallFunc 由适配器提供：把某个缺失的相对路径（以及同一归档覆盖的
// 其他路径）安装进缓存。
type InstallFunc func(ctx context.Context) error

// Fetcher 负责 ensure 契约：已存在即 no-op，否则确认 → install → 复查。
type Fetcher struct {
	store  *cache.Store
	logger *logrus.Logger
	mode   ConfirmMode

	// Confirm 可替换的确认实现，默认读取标准输入；测试中注入假实现。
	Confirm ConfirmFunc
}

// NewFetcher 构造 Fetcher，mode 为空时按 interactive 处理。
func NewFetcher(store *cache.Store, logger *logrus.Logger, mode ConfirmMode) *Fetcher {
	if mode == "" {
		mode = ConfirmModeInteractive
	}
	return &Fetcher{
		store:   store,
		logger:  logger,
		mode:    mode,
		Confirm: StdinConfirm,
	}
}

// Auto 返回一个跳过人工确认的副本，供 DownloadAll 等批量入口使用。
func (f *Fetcher) Auto() *Fetcher {
	clone := *f
	clone.mode = ConfirmModeAuto
	return &clone
}

// Ensure 使 rel 在缓存中就位：
//  1. 已存在直接返回，install 不会被调用（幂等取数）；
//  2. interactive 模式下先确认，拒绝返回 ErrFetchAborted，整个批次终止；
//  3. 执行 install 后复查存在性，仍缺失视为适配器契约违约。
func (f *Fetcher) Ensure(ctx context.Context, rel string, install InstallFunc) error {
	if f.store.Exists(rel) {
		return nil
	}

	if f.mode == ConfirmModeInteractive {
		ok, err := f.Confirm(fmt.Sprintf("Download missing file %s?", rel))
		if err != nil {
			return fmt.Errorf("confirm download of %s: %w", rel, err)
		}
		if !ok {
			f.logger.WithFields(logrus.Fields{
				"action": "fetch_aborted",
				"file":   rel,
			}).Warn("用户拒绝下载，终止整个请求")
			return fmt.Errorf("%w: %s", dataset.ErrFetchAborted, rel)
		}
	}

	f.logger.WithFields(logrus.Fields{
		"action": "fetch",
		"file":   rel,
	}).Info("本地缺失，开始远端安装")

	if err := install(ctx); err != nil {
		return fmt.Errorf("install %s: %w", rel, err)
	}

	if !f.store.Exists(rel) {
		return fmt.Errorf("%w: %s", dataset.ErrInstallVerification, rel)
	}
	return nil
}
