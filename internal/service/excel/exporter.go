package excel

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"distritoeldorado/internal/model"
	"distritoeldorado/internal/parser"
)

// ErrNoRows 当前视图没有记录
var ErrNoRows = errors.New("não há dados para exportar")

const (
	DefaultSheetName  = "Dados Completos"
	DefaultFilePrefix = "Dados_Eldorado"
	summarySheetName  = "Resumo"
)

// ExportColumn 导出列定义（Field 为空时取来源）
type ExportColumn struct {
	Title string
	Field model.CanonicalField
	Width float64
}

// 导出列（固定顺序）
var exportColumns = []ExportColumn{
	{Title: "Origem", Width: 22},
	{Title: "Data Solicitação", Field: model.FieldRequestDate, Width: 18},
	{Title: "SOLICITAÇÃO", Field: model.FieldRequest, Width: 18},
	{Title: "Nº Prontuário", Field: model.FieldRecordNumber, Width: 15},
	{Title: "Telefone", Field: model.FieldPhone, Width: 18},
	{Title: "Unidade Solicitante", Field: model.FieldRequestingUnit, Width: 30},
	{Title: "CBO Especialidade", Field: model.FieldSpecialty, Width: 30},
	{Title: "Data Início Pendência", Field: model.FieldPendingStartDate, Width: 18},
	{Title: "Status", Field: model.FieldStatus, Width: 18},
	{Title: "Prestador", Field: model.FieldProvider, Width: 22},
	{Title: "Data Final Prazo 15d", Field: model.FieldDeadline15, Width: 20},
	{Title: "Data Envio Email 15d", Field: model.FieldEmail15, Width: 22},
	{Title: "Data Final Prazo 30d", Field: model.FieldDeadline30, Width: 20},
	{Title: "Data Envio Email 30d", Field: model.FieldEmail30, Width: 22},
}

// Columns 导出列定义
func Columns() []ExportColumn {
	return append([]ExportColumn(nil), exportColumns...)
}

// Exporter Excel导出器
type Exporter struct {
	mapper     *parser.FieldMapper
	sheetName  string
	filePrefix string
}

// NewExporter 创建导出器；sheetName/filePrefix 为空时使用默认值
func NewExporter(mapper *parser.FieldMapper, sheetName, filePrefix string) *Exporter {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	if filePrefix == "" {
		filePrefix = DefaultFilePrefix
	}
	return &Exporter{mapper: mapper, sheetName: sheetName, filePrefix: filePrefix}
}

// FileName 导出文件名，包含当天日期 YYYY-MM-DD
func (e *Exporter) FileName(now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", e.filePrefix, now.Format("2006-01-02"))
}

// Row 单条记录的导出值（缺失字段为空字符串）
func (e *Exporter) Row(rec *model.Record) []string {
	row := make([]string, len(exportColumns))
	for i, col := range exportColumns {
		if col.Field == "" {
			row[i] = rec.Source()
			continue
		}
		row[i] = e.mapper.Resolve(rec, col.Field, "")
	}
	return row
}

// Export 导出当前视图到 Excel；metrics 不为空时追加汇总表
func (e *Exporter) Export(records []*model.Record, metrics *model.Metrics) (*excelize.File, error) {
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", e.sheetName); err != nil {
		return nil, err
	}

	// 设置表头
	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(e.sheetName, cell, col.Title); err != nil {
			return nil, err
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetRowStyle(e.sheetName, 1, 1, headerStyle)

	// 写入数据（全部按文本写入，保留原始日期写法）
	for i, rec := range records {
		for j, v := range e.Row(rec) {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellStr(e.sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	// 设置列宽
	for i, col := range exportColumns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(e.sheetName, name, name, col.Width)
	}

	if metrics != nil {
		if err := e.writeSummary(f, metrics, headerStyle); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// WriteTo 导出并写入 w
func (e *Exporter) WriteTo(w io.Writer, records []*model.Record, metrics *model.Metrics) error {
	f, err := e.Export(records, metrics)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// writeSummary 汇总表
func (e *Exporter) writeSummary(f *excelize.File, m *model.Metrics, headerStyle int) error {
	if _, err := f.NewSheet(summarySheetName); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Indicador", "Valor"},
		{"Total de registros", m.Total},
		{"Registros exportados", m.Active},
		{"% filtrados", m.PercentLabel},
		{"Pendências 15 dias", m.Aging15},
		{"Pendências 30 dias", m.Aging30},
		{"Data de referência", m.AsOf.Format("02/01/2006")},
	}
	for i, row := range rows {
		for j, val := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(summarySheetName, cell, val); err != nil {
				return err
			}
		}
	}

	_ = f.SetRowStyle(summarySheetName, 1, 1, headerStyle)
	_ = f.SetColWidth(summarySheetName, "A", "A", 24)
	_ = f.SetColWidth(summarySheetName, "B", "B", 16)
	return nil
}
