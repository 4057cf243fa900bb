package model

// SourceField 记录来源（aba）的保留字段名
const SourceField = "_origem"

// Record 单条规范化记录（构建后不可变）
type Record struct {
	source string
	fields map[string]string
}

// NewRecord 创建记录，fields 会被复制
func NewRecord(source string, fields map[string]string) *Record {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		if k == SourceField {
			continue
		}
		copied[k] = v
	}
	return &Record{source: source, fields: copied}
}

// Source 返回来源名称
func (r *Record) Source() string {
	return r.source
}

// Get 按原始表头取值；SourceField 返回来源名称
func (r *Record) Get(name string) (string, bool) {
	if name == SourceField {
		return r.source, true
	}
	v, ok := r.fields[name]
	return v, ok
}

// Fields 返回字段副本（包含 SourceField）
func (r *Record) Fields() map[string]string {
	out := make(map[string]string, len(r.fields)+1)
	for k, v := range r.fields {
		out[k] = v
	}
	out[SourceField] = r.source
	return out
}

// Dataset 按 来源→行 顺序排列的记录集合
type Dataset []*Record

// CountBySource 各来源记录数（保持首次出现顺序）
func (d Dataset) CountBySource() []SourceCount {
	var out []SourceCount
	index := make(map[string]int)
	for _, r := range d {
		i, ok := index[r.source]
		if !ok {
			index[r.source] = len(out)
			out = append(out, SourceCount{Source: r.source, Count: 1})
			continue
		}
		out[i].Count++
	}
	return out
}

// SourceCount 来源记录数
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}
