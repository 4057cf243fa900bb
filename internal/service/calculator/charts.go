package calculator

import (
	"math"
	"sort"
	"strings"

	"distritoeldorado/internal/model"
	"distritoeldorado/internal/parser"
)

// UnknownLabel 图表中空值的标签
const UnknownLabel = "Não informado"

// CountBy 按业务字段分组计数，按数量倒序、标签升序
func (e *Engine) CountBy(records []*model.Record, field model.CanonicalField) []model.Bucket {
	return e.countBy(records, field, nil)
}

// PendingBy 仅统计待处理（Usuário 已填写）的记录
func (e *Engine) PendingBy(records []*model.Record, field model.CanonicalField) []model.Bucket {
	return e.countBy(records, field, e.IsPending)
}

func (e *Engine) countBy(records []*model.Record, field model.CanonicalField, keep func(*model.Record) bool) []model.Bucket {
	counts := make(map[string]int)
	for _, rec := range records {
		if keep != nil && !keep(rec) {
			continue
		}
		counts[e.label(rec, field)]++
	}

	out := make([]model.Bucket, 0, len(counts))
	for label, n := range counts {
		out = append(out, model.Bucket{Key: label, Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// CountByMonth 按待处理开始月份计数（升序）；无日期的记录不计入
func (e *Engine) CountByMonth(records []*model.Record) []model.Bucket {
	counts := make(map[string]int)
	for _, rec := range records {
		start, ok := e.PendingStart(rec)
		if !ok {
			continue
		}
		counts[parser.MonthBucket(start)]++
	}

	out := make([]model.Bucket, 0, len(counts))
	for key, n := range counts {
		out = append(out, model.Bucket{Key: key, Label: parser.MonthLabel(key), Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Resolution 解决率：各分组中来自“已解决”来源的记录占比
func (e *Engine) Resolution(records []*model.Record, field model.CanonicalField, resolvedSources map[string]bool) []model.ResolutionBucket {
	index := make(map[string]*model.ResolutionBucket)
	for _, rec := range records {
		label := e.label(rec, field)
		b, ok := index[label]
		if !ok {
			b = &model.ResolutionBucket{Label: label}
			index[label] = b
		}
		b.Total++
		if resolvedSources[rec.Source()] {
			b.Resolved++
		}
	}

	out := make([]model.ResolutionBucket, 0, len(index))
	for _, b := range index {
		b.Rate = math.Round(float64(b.Resolved)/float64(b.Total)*1000) / 10
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rate != out[j].Rate {
			return out[i].Rate > out[j].Rate
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func (e *Engine) label(rec *model.Record, field model.CanonicalField) string {
	v := strings.TrimSpace(e.mapper.Resolve(rec, field, ""))
	if v == "" {
		return UnknownLabel
	}
	return v
}
