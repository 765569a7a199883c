// Package handshape 提供 hand shape decoding 数据集的适配器：目前只有
// 单个被试 S1 的 fMRI 记录，以单个 HDF5 文件从 figshare 直链分发。
package handshape

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/bdds/bdds/internal/dataset"
	"github.com/bdds/bdds/internal/fetch"
	"github.com/bdds/bdds/internal/logging"
)

const (
	datasetKey = "handshape"
	dataFile   = "S1.h5"
	dataURL    = "https://ndownloader.figshare.com/files/12227786"
)

var modes = []string{"fmri"}

var subjects = []string{"S1"}

func init() {
	dataset.MustRegister(dataset.Registration{
		Meta: dataset.Metadata{
			Key:         datasetKey,
			Description: "Hand shape decoding dataset (single-subject fMRI)",
			Subdir:      "handshape",
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

// Plan 校验 selection。mode 缺省为 fmri，subject 缺省为全部（即 S1）。
func (a *Adapter) Plan(sel dataset.Selection) ([]dataset.Plan, error) {
	mode := "fmri"
	if sel.Has("mode") {
		v, ok := sel.One("mode")
		if !ok {
			return nil, fmt.Errorf("%w: `mode` takes exactly one value", dataset.ErrInvalidRequest)
		}
		if !containsString(modes, v) {
			return nil, fmt.Errorf("%w: mode %q", dataset.ErrUnknownValue, v)
		}
		mode = v
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

// DerivePath 将 Identifier 映射为缓存内相对路径。
func (a *Adapter) DerivePath(id dataset.Identifier) (string, error) {
	subject, ok := id.Get("subject")
	if !ok {
		return "", fmt.Errorf("incomplete identifier: %s", id)
	}
	if !containsString(subjects, subject) {
		return "", fmt.Errorf("%w: subject %q", dataset.ErrUnknownValue, subject)
	}
	return subject + ".h5", nil
}

// Install 下载单个数据文件并原子安装进缓存。
func (a *Adapter) Install(ctx context.Context, rel string) error {
	url := a.urlFor(rel)

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

func (a *Adapter) urlFor(rel string) string {
	if a.env.RemoteBase != "" {
		return a.env.RemoteBase + "/" + rel + a.env.URLSuffix
	}
	return dataURL + a.env.URLSuffix
}

// Parse 先按 BData/HDF5 解析，失败再按 MAT5 解析。
func (a *Adapter) Parse(p string) (interface{}, error) {
	return dataset.ParseBDataOrMAT(p)
}

// RemoteFiles 返回全部远端文件。
func (a *Adapter) RemoteFiles() []dataset.RemoteFile {
	return []dataset.RemoteFile{
		{Name: dataFile, URL: a.urlFor(dataFile), Rel: dataFile},
	}
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
