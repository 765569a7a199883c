package decodeddnn

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/robert-malhotra/go-hdf5/hdf5"

	"github.com/bdds/bdds/internal/dataset"
	"github.com/bdds/bdds/internal/fetch"
	"github.com/bdds/bdds/internal/logging"
	"github.com/bdds/bdds/internal/mat"
)

// Adapter 实现 dataset.Adapter。除日志外没有任何可变状态。
type Adapter struct {
	env dataset.Env
}

// Metadata 返回静态元信息。
func (a *Adapter) Metadata() dataset.Metadata {
	reg, _ := dataset.Resolve(datasetKey)
	return reg.Meta
}

// Plan 校验 selection 并按 net 分组产出展开计划：layer 的取值域依赖
// net，因此每个 net 一组，组内轴序固定为 mode/net/subject/layer(/image)。
func (a *Adapter) Plan(sel dataset.Selection) ([]dataset.Plan, error) {
	if !sel.Has("mode") {
		return nil, fmt.Errorf("%w: `mode` is required", dataset.ErrInvalidRequest)
	}
	mode, ok := sel.One("mode")
	if !ok {
		return nil, fmt.Errorf("%w: `mode` takes exactly one value", dataset.ErrInvalidRequest)
	}
	if !contains(modes, mode) {
		return nil, fmt.Errorf("%w: mode %q", dataset.ErrUnknownValue, mode)
	}

	selSubjects, err := closedValues(sel, "subject", subjects)
	if err != nil {
		return nil, err
	}

	selNets, err := closedValues(sel, "net", netOrder)
	if err != nil {
		return nil, err
	}

	// 显式给出的 layer 列表会原样用于每个选中的 net（与数据提供方的
	// 原始行为一致），仅校验其属于任一选中 net 的层枚举。
	selLayers := sel.Values("layer")
	for _, layer := range selLayers {
		known := false
		for _, net := range selNets {
			if contains(netLayers[net], layer) {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: layer %q", dataset.ErrUnknownValue, layer)
		}
	}

	var selImages []string
	if mode == "decoded" {
		selImages, err = closedValues(sel, "image", images)
		if err != nil {
			return nil, err
		}
	} else if sel.Has("image") {
		a.env.Logger.WithFields(logging.DatasetFields("normalize_selection", datasetKey)).
			Warn("`image` 仅对 decoded 模式有效，已忽略")
	}

	plans := make([]dataset.Plan, 0, len(selNets))
	for _, net := range selNets {
		layers := selLayers
		if layers == nil {
			layers = netLayers[net]
		}

		axes := []dataset.Axis{
			{Name: "mode", Values: []string{mode}},
			{Name: "net", Values: []string{net}},
			{Name: "subject", Values: selSubjects},
			{Name: "layer", Values: layers},
		}
		if mode == "decoded" {
			axes = append(axes, dataset.Axis{Name: "image", Values: selImages})
		}
		plans = append(plans, dataset.Plan{Axes: axes})
	}
	return plans, nil
}

// closedValues 读取一个封闭枚举维度：缺省取全部默认值，显式取值逐一校验。
func closedValues(sel dataset.Selection, dim string, domain []string) ([]string, error) {
	if !sel.Has(dim) {
		return domain, nil
	}
	values := sel.Values(dim)
	for _, v := range values {
		if !contains(domain, v) {
			return nil, fmt.Errorf("%w: %s %q", dataset.ErrUnknownValue, dim, v)
		}
	}
	return values, nil
}

// DerivePath 将 Identifier 映射为缓存内的相对路径。decoded 模式按被试
// 分目录并以图像命名文件，accuracy/rank 一个文件覆盖单个被试。
func (a *Adapter) DerivePath(id dataset.Identifier) (string, error) {
	mode, _ := id.Get("mode")
	net, _ := id.Get("net")
	layer, _ := id.Get("layer")
	subject, _ := id.Get("subject")
	if mode == "" || net == "" || layer == "" || subject == "" {
		return "", fmt.Errorf("incomplete identifier: %s", id)
	}

	switch mode {
	case "decoded":
		image, ok := id.Get("image")
		if !ok {
			return "", fmt.Errorf("incomplete identifier: %s", id)
		}
		return path.Join(mode, net, layer, subject, fmt.Sprintf("%s_%s.mat", layer, image)), nil
	case "accuracy", "rank":
		return path.Join(mode, net, layer, fmt.Sprintf("%s_%s_%s.mat", layer, mode, subject)), nil
	default:
		return "", fmt.Errorf("%w: mode %q", dataset.ErrUnknownValue, mode)
	}
}

// archiveFor 把缺失的相对路径映射到覆盖它的归档名与下载地址。
func (a *Adapter) archiveFor(rel string) (string, string, error) {
	parts := strings.Split(path.Clean(rel), "/")
	if len(parts) < 4 {
		return "", "", fmt.Errorf("unexpected relative path: %s", rel)
	}
	name := fmt.Sprintf("%s_%s_%s.zip", parts[0], parts[1], parts[2])
	return name, a.env.RemoteBase + "/" + name + a.env.URLSuffix, nil
}

// Install 下载覆盖 rel 的 zip 归档并展开进缓存；临时归档与解压目录在
// 任何退出路径上都会被清除。同一归档覆盖的兄弟路径随之一并就位。
func (a *Adapter) Install(ctx context.Context, rel string) error {
	name, url, err := a.archiveFor(rel)
	if err != nil {
		return err
	}

	ws, err := fetch.NewWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	fields := logging.ItemFields("install", datasetKey, rel)
	fields["archive"] = name
	a.env.Logger.WithFields(fields).Info("下载归档")

	zipPath := ws.Path(name)
	if _, err := fetch.Download(ctx, a.env.Client, url, zipPath); err != nil {
		return err
	}
	return fetch.InstallZip(ctx, a.env.Store, zipPath, "")
}

// Parse 先按 MAT5 解析，失败再按 HDF5（MAT v7.3）解析；两种策略都
// 失败或缺少 feat/accuracy/rank 变量时返回 ErrCorruptFile。
func (a *Adapter) Parse(p string) (interface{}, error) {
	if file, err := mat.Open(p); err == nil {
		for _, name := range payloadVars {
			if arr, ok := file[name]; ok {
				return arr, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", dataset.ErrCorruptFile, p)
	}

	if arr, err := parseHDF5(p); err == nil {
		return arr, nil
	}

	return nil, fmt.Errorf("%w: %s", dataset.ErrCorruptFile, p)
}

func parseHDF5(p string) (*mat.Array, error) {
	f, err := hdf5.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root := f.Root()
	for _, name := range payloadVars {
		ds, err := root.OpenDataset(name)
		if err != nil {
			continue
		}
		values, err := ds.ReadFloat64()
		if err != nil {
			return nil, err
		}
		dims := make([]int, 0, len(ds.Shape()))
		for _, d := range ds.Shape() {
			dims = append(dims, int(d))
		}
		return &mat.Array{Name: name, Dims: dims, Data: values}, nil
	}
	return nil, fmt.Errorf("no recognized variable in %s", p)
}

// RemoteFiles 枚举全部 mode/net/layer 归档；Rel 取该归档覆盖的第一个
// 文件，作为安装完成的存在性标记。
func (a *Adapter) RemoteFiles() []dataset.RemoteFile {
	var files []dataset.RemoteFile
	for _, mode := range modes {
		for _, net := range netOrder {
			for _, layer := range netLayers[net] {
				name := fmt.Sprintf("%s_%s_%s.zip", mode, net, layer)

				var rel string
				if mode == "decoded" {
					rel = path.Join(mode, net, layer, subjects[0],
						fmt.Sprintf("%s_%s.mat", layer, images[0]))
				} else {
					rel = path.Join(mode, net, layer,
						fmt.Sprintf("%s_%s_%s.mat", layer, mode, subjects[0]))
				}

				files = append(files, dataset.RemoteFile{
					Name: name,
					URL:  a.env.RemoteBase + "/" + name + a.env.URLSuffix,
					Rel:  rel,
				})
			}
		}
	}
	return files
}
