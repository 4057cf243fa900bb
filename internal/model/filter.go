package model

// Facet 全局筛选维度
type Facet string

const (
	FacetStatus    Facet = "status"
	FacetUnit      Facet = "unit"
	FacetSpecialty Facet = "specialty"
	FacetProvider  Facet = "provider"
	FacetMonth     Facet = "month"
)

// Facets 全部筛选维度（固定顺序）
func Facets() []Facet {
	return []Facet{FacetStatus, FacetUnit, FacetSpecialty, FacetProvider, FacetMonth}
}

// FacetSelection 各维度已选值；空或缺失表示不限制
type FacetSelection map[Facet][]string

// Clone 深拷贝
func (s FacetSelection) Clone() FacetSelection {
	out := make(FacetSelection, len(s))
	for k, v := range s {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// ColumnKey 表格列标识
type ColumnKey string

// Column 表格展示列
type Column struct {
	Key    ColumnKey      `json:"key"`
	Title  string         `json:"title"`
	Field  CanonicalField `json:"field,omitempty"` // 为空时取来源字段
	IsDate bool           `json:"isDate"`
}

// ColumnSelection 各列已接受的展示值；空表示不限制
type ColumnSelection map[ColumnKey][]string

// Clone 深拷贝
func (s ColumnSelection) Clone() ColumnSelection {
	out := make(ColumnSelection, len(s))
	for k, v := range s {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// MonthOption 月份筛选选项
type MonthOption struct {
	Value string `json:"value"` // YYYY-MM
	Label string `json:"label"` // Janeiro de 2024
}

// FacetOptions 顶部筛选可选值
type FacetOptions struct {
	Status    []string      `json:"status"`
	Unit      []string      `json:"unit"`
	Specialty []string      `json:"specialty"`
	Provider  []string      `json:"provider"`
	Month     []MonthOption `json:"month"`
}
