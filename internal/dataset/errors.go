package dataset

import "errors"

// 错误分类与上层约定保持一致：任何一类错误都会终止整个在途请求，
// 不做自动重试；已经落盘的文件保留，作为下一次请求的有效缓存。
var (
	// ErrInvalidRequest 表示必选维度缺失或取值个数不合法。
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownValue 表示取值落在封闭枚举之外，例如未知的 mode。
	ErrUnknownValue = errors.New("unknown selection value")

	// ErrFetchAborted 表示交互确认被拒绝，整个批次一并取消。
	ErrFetchAborted = errors.New("fetch aborted by user")

	// ErrInstallVerification 表示 install 正常返回但目标文件仍不存在，
	// 属于适配器契约违约。
	ErrInstallVerification = errors.New("install verification failed")

	// ErrCorruptFile 表示主备两种解析策略都失败，或解析结果缺少可识别字段。
	ErrCorruptFile = errors.New("corrupt or unrecognized file")
)
