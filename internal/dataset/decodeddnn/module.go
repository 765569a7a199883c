// Package decodeddnn 提供 Decoded DNN feature 数据集的适配器：
// 被试 × 网络 × 层（× 刺激图像）的解码特征、精度与秩。远端按
// mode/net/layer 打包成 zip，一次安装即可覆盖该前缀下的全部文件。
package decodeddnn

import (
	"github.com/sirupsen/logrus"

	"github.com/bdds/bdds/internal/dataset"
)

const (
	datasetKey        = "decodeddnn"
	defaultRemoteBase = "https://brainliner.jp/download/decodeddnn"
)

func init() {
	dataset.MustRegister(dataset.Registration{
		Meta: dataset.Metadata{
			Key:         datasetKey,
			Description: "Decoded DNN features from fMRI data (subject x net x layer x image)",
			Subdir:      "decodeddnn",
		},
		New: func(env dataset.Env) (dataset.Adapter, error) {
			return New(env), nil
		},
	})
}

// New 构造适配器；Logger 缺省时退化为独立实例，方便单测直接调用。
func New(env dataset.Env) *Adapter {
	if env.Logger == nil {
		env.Logger = logrus.New()
	}
	if env.RemoteBase == "" {
		env.RemoteBase = defaultRemoteBase
	}
	return &Adapter{env: env}
}
