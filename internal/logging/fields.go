package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// DatasetFields 提供数据集维度的通用字段，供编排与适配器日志复用。
func DatasetFields(action, datasetKey string) logrus.Fields {
	return logrus.Fields{
		"action":  action,
		"dataset": datasetKey,
	}
}

// ItemFields 在数据集字段基础上补充单个条目的相对路径。
func ItemFields(action, datasetKey, rel string) logrus.Fields {
	fields := DatasetFields(action, datasetKey)
	fields["file"] = rel
	return fields
}
