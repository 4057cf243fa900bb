package parser

import "strings"

// ParseCSV 解析逗号分隔文本，支持引号字段（含逗号/换行、"" 转义）
// 未闭合的引号在文本结尾处视为闭合；不校验每行列数
func ParseCSV(text string) [][]string {
	var (
		rows        [][]string
		row         []string
		cell        strings.Builder
		insideQuote bool
	)

	flush := func() {
		row = append(row, strings.TrimSpace(cell.String()))
		cell.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch {
		case ch == '"':
			if insideQuote && i+1 < len(runes) && runes[i+1] == '"' {
				cell.WriteRune('"')
				i++
				continue
			}
			insideQuote = !insideQuote
		case ch == ',' && !insideQuote:
			flush()
		case (ch == '\n' || ch == '\r') && !insideQuote:
			// 空行不产生记录
			if cell.Len() > 0 || len(row) > 0 {
				flush()
				rows = append(rows, row)
				row = nil
			}
			if ch == '\r' && i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
		default:
			cell.WriteRune(ch)
		}
	}

	if cell.Len() > 0 || len(row) > 0 {
		flush()
		rows = append(rows, row)
	}

	return rows
}

// QuoteField 按 CSV 规则包裹字段（导出/测试用）
func QuoteField(field string) string {
	if !strings.ContainsAny(field, ",\"\r\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// FormatRow 将一行字段拼接为 CSV 文本行
func FormatRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = QuoteField(f)
	}
	return strings.Join(quoted, ",")
}
