package parser

import (
	"log"
	"strings"

	"distritoeldorado/internal/model"
)

// Normalize 将各来源的行数据转换为记录集合
// 第一行为表头；仅保留列数 > 1 且首列非空的行；缺失单元格取空字符串
func Normalize(batches []SourceRows) (model.Dataset, error) {
	var dataset model.Dataset

	for _, batch := range batches {
		if len(batch.Rows) < 2 {
			log.Printf("aba %q está vazia ou sem dados", batch.Name)
			continue
		}

		headers := make([]string, len(batch.Rows[0]))
		for i, h := range batch.Rows[0] {
			headers[i] = strings.TrimSpace(h)
		}

		count := 0
		for _, row := range batch.Rows[1:] {
			if len(row) <= 1 || strings.TrimSpace(row[0]) == "" {
				continue
			}
			fields := make(map[string]string, len(headers))
			for i, h := range headers {
				if h == "" {
					continue
				}
				value := ""
				if i < len(row) {
					value = strings.TrimSpace(row[i])
				}
				fields[h] = value
			}
			dataset = append(dataset, model.NewRecord(batch.Name, fields))
			count++
		}
		log.Printf("%d registros carregados da aba %q", count, batch.Name)
	}

	if len(dataset) == 0 {
		return nil, ErrNoData
	}
	return dataset, nil
}
