// Package bdata reads BData-style HDF5 files: a 2-D /dataSet matrix of
// samples × columns plus an optional /metaData group (key/description/value)
// describing what each column holds. This is the on-disk layout the fMRI
// datasets ship in (.h5 and MATLAB v7.3 files are both HDF5 containers).
package bdata

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-hdf5/hdf5"
)

// ErrNotBData 表示文件可以按 HDF5 打开，但缺少 /dataSet 结构。
var ErrNotBData = errors.New("not a BData file")

// Metadata 描述 dataSet 各列的语义：key 与 description 一一对应，
// Values 是 len(Keys)×列数 的矩阵，NaN 表示该列与该 key 无关。
type Metadata struct {
	Keys         []string
	Descriptions []string
	Dims         []int
	Values       []float64
}

// Data 是一份载入内存的 BData 数据，Values 按 HDF5 的行主序排列。
type Data struct {
	Dims     []int
	Values   []float64
	Metadata *Metadata
}

// Rows 返回样本行数，维度缺失时为 0。
func (d *Data) Rows() int {
	if len(d.Dims) == 0 {
		return 0
	}
	return d.Dims[0]
}

// Open 打开并完整读取一个 BData 文件。
func Open(path string) (*Data, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root := f.Root()

	ds, err := root.OpenDataset("dataSet")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotBData, path)
	}
	values, err := ds.ReadFloat64()
	if err != nil {
		return nil, fmt.Errorf("read dataSet: %w", err)
	}

	data := &Data{
		Dims:   intDims(ds.Shape()),
		Values: values,
	}

	// metaData 组缺失时不视为错误，列语义交由调用方处理。
	meta, err := readMetadata(root)
	if err != nil {
		return nil, err
	}
	data.Metadata = meta

	return data, nil
}

func readMetadata(root *hdf5.Group) (*Metadata, error) {
	group, err := root.OpenGroup("metaData")
	if err != nil {
		return nil, nil
	}

	keyDS, err := group.OpenDataset("key")
	if err != nil {
		return nil, nil
	}
	keys, err := keyDS.ReadString()
	if err != nil {
		return nil, fmt.Errorf("read metaData/key: %w", err)
	}

	meta := &Metadata{Keys: keys}

	if descDS, err := group.OpenDataset("description"); err == nil {
		descriptions, err := descDS.ReadString()
		if err != nil {
			return nil, fmt.Errorf("read metaData/description: %w", err)
		}
		meta.Descriptions = descriptions
	}

	if valueDS, err := group.OpenDataset("value"); err == nil {
		values, err := valueDS.ReadFloat64()
		if err != nil {
			return nil, fmt.Errorf("read metaData/value: %w", err)
		}
		meta.Dims = intDims(valueDS.Shape())
		meta.Values = values
	}

	return meta, nil
}

func intDims(dims []uint64) []int {
	out := make([]int, len(dims))
	for i, d := range dims {
		out[i] = int(d)
	}
	return out
}
