package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"distritoeldorado/internal/model"
)

// DefaultMaxCellWidth 单元格最大显示宽度
const DefaultMaxCellWidth = 28

// Table 终端表格：按显示宽度对齐（兼容重音字符与全角字符）
type Table struct {
	Headers  []string
	Rows     [][]string
	MaxWidth int
}

// Lines 渲染为 Markdown 风格的表格行
func (t Table) Lines() []string {
	colCount := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	maxWidth := t.MaxWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxCellWidth
	}

	table := make([][]string, 0, len(t.Rows)+1)
	table = append(table, t.Headers)
	table = append(table, t.Rows...)

	cells := make([][]string, len(table))
	colWidths := make([]int, colCount)
	for r, row := range table {
		cells[r] = make([]string, colCount)
		for i := 0; i < colCount; i++ {
			content := ""
			if i < len(row) {
				content = strings.ReplaceAll(row[i], "\n", " ")
			}
			content = runewidth.Truncate(content, maxWidth, "…")
			cells[r][i] = content
			if w := runewidth.StringWidth(content); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	// 分隔行至少 3 个 "-"
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	lines := make([]string, 0, len(cells)+1)
	for r, row := range cells {
		lines = append(lines, renderRow(row, colWidths))
		if r == 0 {
			sep := make([]string, colCount)
			for i, w := range colWidths {
				sep[i] = strings.Repeat("-", w)
			}
			lines = append(lines, renderRow(sep, colWidths))
		}
	}
	return lines
}

func renderRow(row []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for i, content := range row {
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(content, widths[i]))
		sb.WriteString(" |")
	}
	return sb.String()
}

// Render 写出表格
func (t Table) Render(w io.Writer) error {
	for _, line := range t.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderMetrics 写出指标摘要
func RenderMetrics(w io.Writer, m model.Metrics) error {
	t := Table{
		Headers: []string{"Indicador", "Valor"},
		Rows: [][]string{
			{"Total de registros", fmt.Sprint(m.Total)},
			{"Registros filtrados", fmt.Sprint(m.Active)},
			{"Percentual", m.PercentLabel},
			{"Pendências > 15 dias", fmt.Sprint(m.Aging15)},
			{"Pendências > 30 dias", fmt.Sprint(m.Aging30)},
		},
	}
	return t.Render(w)
}

// RenderBuckets 写出分组计数
func RenderBuckets(w io.Writer, title string, buckets []model.Bucket) error {
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{b.Label, fmt.Sprint(b.Count)})
	}
	return Table{Headers: []string{title, "Qtd"}, Rows: rows}.Render(w)
}
