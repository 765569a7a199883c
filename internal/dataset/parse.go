package dataset

import (
	"fmt"

	"github.com/bdds/bdds/internal/bdata"
	"github.com/bdds/bdds/internal/mat"
)

// ParseBDataOrMAT 是 fMRI 数据集共用的解析策略：先按 BData/HDF5 读取
// （.h5 与 MATLAB v7.3 同为 HDF5 容器），失败再按 MAT5 读取；两者都
// 失败时返回 ErrCorruptFile。
func ParseBDataOrMAT(path string) (interface{}, error) {
	if data, err := bdata.Open(path); err == nil {
		return data, nil
	}

	if file, err := mat.Open(path); err == nil && len(file) > 0 {
		return file, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrCorruptFile, path)
}
