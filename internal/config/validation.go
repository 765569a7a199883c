package config

import (
	"errors"
	"fmt"

	"github.com/bdds/bdds/internal/dataset"
)

// Validate 针对语义级别做进一步校验，防止非法配置进入编排流程。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	switch g.ConfirmMode {
	case "interactive", "auto":
	default:
		return newFieldError("Global.ConfirmMode", "仅支持 interactive|auto")
	}
	if g.DownloadTimeout.DurationValue() < 0 {
		return newFieldError("Global.DownloadTimeout", "不能为负数")
	}
	if g.LogMaxSize <= 0 {
		return newFieldError("Global.LogMaxSize", "必须大于 0")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError("Global.LogMaxBackups", "不能为负数")
	}

	seen := map[string]struct{}{}
	for i := range c.Datasets {
		ds := &c.Datasets[i]
		if ds.Name == "" {
			return newFieldError(datasetField("", "Name"), "不能为空")
		}
		if _, ok := dataset.Resolve(ds.Name); !ok {
			return newFieldError(datasetField(ds.Name, "Name"),
				fmt.Sprintf("未注册的数据集，可用值: %v", dataset.Keys()))
		}
		if _, dup := seen[ds.Name]; dup {
			return newFieldError(datasetField(ds.Name, "Name"), "重复配置")
		}
		seen[ds.Name] = struct{}{}
	}

	return nil
}
