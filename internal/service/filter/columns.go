package filter

import (
	"fmt"

	"distritoeldorado/internal/model"
)

// 表格列（顺序即展示顺序）
var tableColumns = []model.Column{
	{Key: "origem", Title: "Origem"},
	{Key: "data_solicitacao", Title: "Data Solicitação", Field: model.FieldRequestDate, IsDate: true},
	{Key: "solicitacao", Title: "SOLICITAÇÃO", Field: model.FieldRequest},
	{Key: "prontuario", Title: "Nº Prontuário", Field: model.FieldRecordNumber},
	{Key: "telefone", Title: "Telefone", Field: model.FieldPhone},
	{Key: "unidade", Title: "Unidade Solicitante", Field: model.FieldRequestingUnit},
	{Key: "cbo", Title: "CBO Especialidade", Field: model.FieldSpecialty},
	{Key: "data_inicio", Title: "Data Início Pendência", Field: model.FieldPendingStartDate, IsDate: true},
	{Key: "status", Title: "Status", Field: model.FieldStatus},
	{Key: "prazo_15", Title: "Data Final Prazo (15d)", Field: model.FieldDeadline15, IsDate: true},
	{Key: "email_15", Title: "Data Envio Email (15d)", Field: model.FieldEmail15, IsDate: true},
	{Key: "prazo_30", Title: "Data Final Prazo (30d)", Field: model.FieldDeadline30, IsDate: true},
	{Key: "email_30", Title: "Data Envio Email (30d)", Field: model.FieldEmail30, IsDate: true},
}

// Columns 返回表格列定义
func Columns() []model.Column {
	return append([]model.Column(nil), tableColumns...)
}

// ColumnByKey 按 key 查找列
func ColumnByKey(key model.ColumnKey) (model.Column, error) {
	for _, c := range tableColumns {
		if c.Key == key {
			return c, nil
		}
	}
	return model.Column{}, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
}

// ParseFacet 校验筛选维度名称
func ParseFacet(name string) (model.Facet, error) {
	for _, f := range model.Facets() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFacet, name)
}
