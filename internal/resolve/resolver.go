package resolve

import (
	"fmt"

	"github.com/bdds/bdds/internal/dataset"
)

// Items 让适配器校验 selection 并产出展开计划，然后逐组做笛卡尔积、
// 派生相对路径，拼出最终 Collection。同一 Collection 中出现重复路径
// 说明适配器的 DerivePath 失去单射性，直接报错而不是静默合并。
func Items(adapter dataset.Adapter, sel dataset.Selection) (dataset.Collection, error) {
	plans, err := adapter.Plan(sel)
	if err != nil {
		return nil, err
	}

	var collection dataset.Collection
	seen := make(map[string]dataset.Identifier)

	for _, plan := range plans {
		for _, id := range Expand(plan.Axes) {
			rel, err := adapter.DerivePath(id)
			if err != nil {
				return nil, fmt.Errorf("derive path for %s: %w", id, err)
			}
			if prev, dup := seen[rel]; dup {
				return nil, fmt.Errorf("duplicate relative path %q for %s and %s", rel, prev, id)
			}
			seen[rel] = id
			collection = append(collection, dataset.Item{Identifier: id, RelPath: rel})
		}
	}

	return collection, nil
}

// Expand 对一组轴做穷举展开：第一根轴变化最慢，最后一根轴变化最快，
// 每根轴按给定顺序迭代。空轴组展开为空。
func Expand(axes []dataset.Axis) []dataset.Identifier {
	ids := []dataset.Identifier{{}}
	for _, axis := range axes {
		if len(axis.Values) == 0 {
			return nil
		}
		next := make([]dataset.Identifier, 0, len(ids)*len(axis.Values))
		for _, id := range ids {
			for _, value := range axis.Values {
				next = append(next, id.With(axis.Name, value))
			}
		}
		ids = next
	}
	if len(axes) == 0 {
		return nil
	}
	return ids
}
