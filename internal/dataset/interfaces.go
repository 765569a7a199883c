package dataset

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/bdds/bdds/internal/cache"
)

// Metadata 记录一个数据集适配器的静态信息，供配置校验与 CLI 列表使用。
type Metadata struct {
	Key         string
	Description string
	// Subdir 是数据集在 datastore 根目录下的默认子目录。
	Subdir string
}

// RemoteFile 描述远端登记表中的一项：规范归档/文件名、下载地址，
// 以及安装完成后应当存在的一个相对路径（用于幂等判断）。
type RemoteFile struct {
	Name string
	URL  string
	Rel  string
}

// Env 是构造适配器时注入的运行环境：磁盘缓存、共享下载客户端、日志器，
// 以及来自配置的不可变覆盖项。适配器不得自行持有可变的全局状态。
type Env struct {
	Store  *cache.Store
	Client *http.Client
	Logger *logrus.Logger

	// RemoteBase 覆盖默认的下载基址；为空时使用适配器内置地址。
	RemoteBase string
	// URLSuffix 追加在每个下载地址末尾的静态后缀（例如访问令牌参数）。
	URLSuffix string
}

// Adapter 是编排核心消费的数据集协作方接口。实现必须保证 DerivePath
// 是 Identifier 的纯函数且单射：相同 Identifier 恒得到相同路径，
// 不同 Identifier 不得映射到同一路径。
type Adapter interface {
	// Metadata 返回静态元信息。
	Metadata() Metadata

	// Plan 校验 selection 并产出展开计划。必选维度缺失时返回
	// ErrInvalidRequest，封闭枚举外的取值返回 ErrUnknownValue；
	// 与当前 mode 无关的维度被归一化移除，调用方仍提供取值时记录告警。
	Plan(sel Selection) ([]Plan, error)

	// DerivePath 将 Identifier 映射为 datastore 下的相对路径。
	DerivePath(id Identifier) (string, error)

	// Install 使 rel（以及同一归档覆盖的其他路径）在本地缓存中就位。
	// 实现负责把缺失路径映射到正确的归档，下载、展开并清理全部临时产物。
	Install(ctx context.Context, rel string) error

	// Parse 将本地文件解析为内存值；两种解析策略都失败或缺少可识别
	// 字段时返回 ErrCorruptFile。
	Parse(path string) (interface{}, error)

	// RemoteFiles 返回数据集完整的远端登记表，供批量预取使用。
	RemoteFiles() []RemoteFile
}
