package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/bdds/bdds/internal/cache"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
// 文件不存在时按纯默认配置处理，方便库内嵌与零配置 CLI 使用。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("读取配置失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	for i := range cfg.Datasets {
		applyDatasetDefaults(&cfg.Datasets[i])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Global.DataStore == "" {
		root, err := cache.DefaultRoot("")
		if err != nil {
			return nil, fmt.Errorf("无法确定默认 datastore: %w", err)
		}
		cfg.Global.DataStore = root
	}

	absStore, err := filepath.Abs(cfg.Global.DataStore)
	if err != nil {
		return nil, fmt.Errorf("无法解析 datastore 目录: %w", err)
	}
	cfg.Global.DataStore = absStore

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("DataStore", "")
	v.SetDefault("DownloadTimeout", "0")
	v.SetDefault("ConfirmMode", "interactive")
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
	if g.ConfirmMode == "" {
		g.ConfirmMode = "interactive"
	}
	g.ConfirmMode = strings.ToLower(strings.TrimSpace(g.ConfirmMode))
	if g.DownloadTimeout.DurationValue() < 0 {
		g.DownloadTimeout = Duration(0)
	}
}

func applyDatasetDefaults(d *DatasetConfig) {
	d.Name = strings.ToLower(strings.TrimSpace(d.Name))
	d.RemoteBase = strings.TrimRight(strings.TrimSpace(d.RemoteBase), "/")
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
