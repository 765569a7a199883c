package engine

import "github.com/bdds/bdds/internal/dataset"

// Record 是 ReturnDict 模式下的单条结果：标识维度各占一个键，载荷挂在
// "data" 键下。维度名与 "data" 不会冲突，适配器没有叫 data 的维度。
type Record map[string]interface{}

// Shape 把装载完成的条目塑形为调用方要的返回值：
//   - 默认返回裸载荷序列，顺序与 resolve 产出的条目顺序一致；
//   - ReturnDict 模式返回 Record 序列；
//   - 恰好一个条目且未设 ForceList 时塌缩为单个元素；
//   - 空结果保持为空序列，不塌缩。
func Shape(items dataset.Collection, opts Options) interface{} {
	if opts.ReturnDict {
		records := make([]Record, 0, len(items))
		for _, item := range items {
			record := Record{"data": item.Payload}
			for _, f := range item.Identifier.Fields() {
				record[f.Dim] = f.Value
			}
			records = append(records, record)
		}
		if len(records) == 1 && !opts.ForceList {
			return records[0]
		}
		return records
	}

	payloads := make([]interface{}, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, item.Payload)
	}
	if len(payloads) == 1 && !opts.ForceList {
		return payloads[0]
	}
	return payloads
}
