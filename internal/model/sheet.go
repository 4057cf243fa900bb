package model

// SourceKind 来源类型
type SourceKind string

const (
	SourceKindPending  SourceKind = "PENDENTE"
	SourceKindResolved SourceKind = "RESOLVIDO"
)

// Source 已配置的数据来源（一个 aba）
type Source struct {
	Name     string     `json:"name"`
	URL      string     `json:"url"`
	District string     `json:"district"`
	Kind     SourceKind `json:"kind"`
}

// SourcesOfKind 返回指定类型的来源名称集合
func SourcesOfKind(sources []Source, kind SourceKind) map[string]bool {
	out := make(map[string]bool)
	for _, s := range sources {
		if s.Kind == kind {
			out[s.Name] = true
		}
	}
	return out
}
