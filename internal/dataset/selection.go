package dataset

// Selection 描述调用方的维度筛选：键缺失表示“该维度取全部默认值”，
// 单个值与多个值统一用切片表达。
type Selection map[string][]string

// Has 判断调用方是否对某个维度做了显式选择。
func (s Selection) Has(dim string) bool {
	_, ok := s[dim]
	return ok
}

// Values 返回某个维度被选中的取值列表；未选择时返回 nil。
func (s Selection) Values(dim string) []string {
	return s[dim]
}

// One 返回单值维度的取值；未选择或选择了多个值时 ok 为 false。
func (s Selection) One(dim string) (string, bool) {
	values := s[dim]
	if len(values) != 1 {
		return "", false
	}
	return values[0], true
}

// Axis 是展开计划中的一个维度轴：维度名与按序迭代的取值。
type Axis struct {
	Name   string
	Values []string
}

// Plan 是一组按固定顺序排列的轴。一次请求可以产出多个 Plan（例如 layer
// 的取值域依赖 net 时，每个 net 单独一组），各组依次做笛卡尔积后拼接。
type Plan struct {
	Axes []Axis
}
