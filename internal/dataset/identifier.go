package dataset

import (
	"fmt"
	"strings"
)

// Field 表示 Identifier 中的一个维度取值对。
type Field struct {
	Dim   string
	Value string
}

// Identifier 是一条逻辑数据项的有序多维键，例如
// mode=decoded/net=AlexNet/subject=S1。维度顺序由适配器的展开计划决定，
// 同一数据集变体内保持固定。
type Identifier struct {
	fields []Field
}

// With 返回追加了一个维度取值的新 Identifier，原值不被修改。
func (id Identifier) With(dim, value string) Identifier {
	fields := make([]Field, len(id.fields), len(id.fields)+1)
	copy(fields, id.fields)
	return Identifier{fields: append(fields, Field{Dim: dim, Value: value})}
}

// Get 按维度名查找取值，维度缺失时 ok 为 false。
func (id Identifier) Get(dim string) (string, bool) {
	for _, f := range id.fields {
		if f.Dim == dim {
			return f.Value, true
		}
	}
	return "", false
}

// Fields 返回维度取值对的只读副本，保持插入顺序。
func (id Identifier) Fields() []Field {
	out := make([]Field, len(id.fields))
	copy(out, id.fields)
	return out
}

// Dims 返回维度名列表，保持插入顺序。
func (id Identifier) Dims() []string {
	out := make([]string, len(id.fields))
	for i, f := range id.fields {
		out[i] = f.Dim
	}
	return out
}

// Len 返回维度数量。
func (id Identifier) Len() int {
	return len(id.fields)
}

// Equal 判断两个 Identifier 是否完全一致：所有维度名与取值都相同。
func (id Identifier) Equal(other Identifier) bool {
	if len(id.fields) != len(other.fields) {
		return false
	}
	for i, f := range id.fields {
		if other.fields[i] != f {
			return false
		}
	}
	return true
}

// String 输出 dim=value 形式的调试文本。
func (id Identifier) String() string {
	parts := make([]string, len(id.fields))
	for i, f := range id.fields {
		parts[i] = fmt.Sprintf("%s=%s", f.Dim, f.Value)
	}
	return strings.Join(parts, "/")
}

// Item 将 Identifier 与其派生的相对路径、以及单次编排中加载的 payload
// 绑定在一起。Payload 只在一次请求内填充，不做跨调用缓存。
type Item struct {
	Identifier Identifier
	RelPath    string
	Payload    interface{}
}

// Collection 是一次请求解析出的全部 Item，顺序稳定且可复现。
type Collection []Item
