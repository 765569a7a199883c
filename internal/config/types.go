package config

import (
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return &FieldError{Field: "Duration", Reason: "无法解析的时长: " + raw}
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// GlobalConfig 描述全局运行时行为，所有数据集共享同一份参数。
type GlobalConfig struct {
	DataStore       string   `mapstructure:"DataStore"`
	LogLevel        string   `mapstructure:"LogLevel"`
	LogFilePath     string   `mapstructure:"LogFilePath"`
	LogMaxSize      int      `mapstructure:"LogMaxSize"`
	LogMaxBackups   int      `mapstructure:"LogMaxBackups"`
	LogCompress     bool     `mapstructure:"LogCompress"`
	DownloadTimeout Duration `mapstructure:"DownloadTimeout"`
	ConfirmMode     string   `mapstructure:"ConfirmMode"`
}

// DatasetConfig 覆盖单个数据集的默认行为。
type DatasetConfig struct {
	Name       string `mapstructure:"Name"`
	Subdir     string `mapstructure:"Subdir"`
	RemoteBase string `mapstructure:"RemoteBase"`
	URLSuffix  string `mapstructure:"URLSuffix"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global   GlobalConfig    `mapstructure:",squash"`
	Datasets []DatasetConfig `mapstructure:"Dataset"`
}

// Dataset 返回指定键的数据集覆盖项；未配置时返回零值。
func (c *Config) Dataset(key string) (DatasetConfig, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, ds := range c.Datasets {
		if ds.Name == key {
			return ds, true
		}
	}
	return DatasetConfig{}, false
}

// DatasetNames 返回配置中出现的数据集键值，供日志字段使用。
func DatasetNames(datasets []DatasetConfig) []string {
	if len(datasets) == 0 {
		return nil
	}
	result := make([]string, len(datasets))
	for i, ds := range datasets {
		result[i] = ds.Name
	}
	return result
}
