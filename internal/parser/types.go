package parser

import "errors"

var (
	// ErrNotTabular 响应内容是 HTML 页面而不是 CSV（通常是表格未公开）
	ErrNotTabular = errors.New("retornou HTML em vez de CSV (provável falta de permissão ou planilha não pública)")
	// ErrNoData 所有来源都没有可用记录
	ErrNoData = errors.New("nenhum dado foi carregado das planilhas")
)

// SourceRows 单个来源的解析结果
type SourceRows struct {
	Name string
	Rows [][]string
}
