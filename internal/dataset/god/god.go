// Package god 提供 Generic Object Decoding 数据集的适配器：按被试存放的
// fMRI 记录（<Subject>.mat）与全体共享的图像特征（ImageFeatures.h5），
// 远端按单文件直链分发，没有归档展开步骤。
package god

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/bdds/bdds/internal/dataset"
	"github.com/bdds/bdds/internal/fetch"
	"github.com/bdds/bdds/internal/logging"
)

const datasetKey = "god"

var modes = []string{"fmri", "image_features"}

var subjects = []string{"Subject1", "Subject2", "Subject3", "Subject4", "Subject5"}

// remoteFiles 是数据提供方公布的直链登记表，文件名即缓存内相对路径。
var remoteFiles = map[string]string{
	"Subject1.mat":     "http://brainliner.jp/download/32/downloadSupplementaryFile",
	"Subject2.mat":     "http://brainliner.jp/download/36/downloadSupplementaryFile",
	"Subject3.mat":     "http://brainliner.jp/download/34/downloadSupplementaryFile",
	"Subject4.mat":     "http://brainliner.jp/download/35/downloadSupplementaryFile",
	"Subject5.mat":     "http://brainliner.jp/download/33/downloadSupplementaryFile",
	"ImageFeatures.h5": "http://brainliner.jp/download/1332/downloadDataFile",
}

// remoteOrder 固定批量预取的遍历顺序。
var remoteOrder = []string{
	"Subject1.mat", "Subject2.mat", "Subject3.mat",
	"Subject4.mat", "Subject5.mat", "ImageFeatures.h5",
}

func init() {
	dataset.MustRegister(dataset.Registration{
		Meta: dataset.Metadata{
			Key:         datasetKey,
			Description: "Generic object decoding dataset (per-subject fMRI + shared image features)",
			Subdir:      "god",
		},
		New: func(env dataset.Env) (dataset.Adapter, error) {
			return New(env), nil
		},
	})
}

// Adapter 实现 dataset.Adapter。
type Adapter struct {
	env dataset.Env
}

// New 构造适配器；Logger 缺省时退化为独立实例。
func New(env dataset.Env) *Adapter {
	if env.Logger == nil {
		env.Logger = logrus.New()
	}
	return &Adapter{env: env}
}

// Metadata 返回静态元信息。
func (a *Adapter) Metadata() dataset.Metadata {
	reg, _ := dataset.Resolve(datasetKey)
	return reg.Meta
}

// Plan 校验 selection。image_features 模式下 subject 维度无意义，被
// 归一化移除；调用方仍提供取值时记录告警。
func (a *Adapter) Plan(sel dataset.Selection) ([]dataset.Plan, error) {
	if !sel.Has("mode") {
		return nil, fmt.Errorf("%w: `mode` is required", dataset.ErrInvalidRequest)
	}
	mode, ok := sel.One("mode")
	if !ok {
		return nil, fmt.Errorf("%w: `mode` takes exactly one value", dataset.ErrInvalidRequest)
	}

	if !containsString(modes, mode) {
		return nil, fmt.Errorf("%w: mode %q", dataset.ErrUnknownValue, mode)
	}

	if mode == "image_features" {
		if sel.Has("subject") {
			a.env.Logger.WithFields(logging.DatasetFields("normalize_selection", datasetKey)).
				Warn("`subject` 对 image_features 模式无效，已忽略")
		}
		return []dataset.Plan{{Axes: []dataset.Axis{
			{Name: "mode", Values: []string{mode}},
		}}}, nil
	}

	selSubjects := sel.Values("subject")
	if selSubjects == nil {
		selSubjects = subjects
	}
	for _, s := range selSubjects {
		if !containsString(subjects, s) {
			return nil, fmt.Errorf("%w: subject %q", dataset.ErrUnknownValue, s)
		}
	}
	return []dataset.Plan{{Axes: []dataset.Axis{
		{Name: "mode", Values: []string{mode}},
		{Name: "subject", Values: selSubjects},
	}}}, nil
}

// DerivePath 将 Identifier 映射为缓存内相对路径，布局是扁平的。
func (a *Adapter) DerivePath(id dataset.Identifier) (string, error) {
	mode, _ := id.Get("mode")
	switch mode {
	case "image_features":
		return "ImageFeatures.h5", nil
	case "fmri":
		subject, ok := id.Get("subject")
		if !ok {
			return "", fmt.Errorf("incomplete identifier: %s", id)
		}
		return subject + ".mat", nil
	default:
		return "", fmt.Errorf("%w: mode %q", dataset.ErrUnknownValue, mode)
	}
}

// Install 按直链下载单个文件：先落到临时工作目录，再原子安装进缓存。
func (a *Adapter) Install(ctx context.Context, rel string) error {
	url, err := a.urlFor(rel)
	if err != nil {
		return err
	}

	ws, err := fetch.NewWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	fields := logging.ItemFields("install", datasetKey, rel)
	fields["url"] = url
	a.env.Logger.WithFields(fields).Info("下载文件")

	tmp := ws.Path(rel)
	if _, err := fetch.Download(ctx, a.env.Client, url, tmp); err != nil {
		return err
	}

	f, err := os.Open(tmp)
	if err != nil {
		return err
	}
	_, err = a.env.Store.Install(ctx, rel, f)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	return err
}

func (a *Adapter) urlFor(rel string) (string, error) {
	if a.env.RemoteBase != "" {
		return a.env.RemoteBase + "/" + rel + a.env.URLSuffix, nil
	}
	url, ok := remoteFiles[rel]
	if !ok {
		return "", fmt.Errorf("no remote entry for %s", rel)
	}
	return url + a.env.URLSuffix, nil
}

// Parse 先按 BData/HDF5 解析，失败再按 MAT5 解析。
func (a *Adapter) Parse(p string) (interface{}, error) {
	return dataset.ParseBDataOrMAT(p)
}

// RemoteFiles 返回固定顺序的直链登记表。
func (a *Adapter) RemoteFiles() []dataset.RemoteFile {
	files := make([]dataset.RemoteFile, 0, len(remoteOrder))
	for _, name := range remoteOrder {
		url, _ := a.urlFor(name)
		files = append(files, dataset.RemoteFile{Name: name, URL: url, Rel: name})
	}
	return files
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
