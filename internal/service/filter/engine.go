package filter

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"distritoeldorado/internal/model"
	"distritoeldorado/internal/parser"
)

var (
	ErrUnknownFacet  = errors.New("filtro desconhecido")
	ErrUnknownColumn = errors.New("coluna desconhecida")
)

// 维度 -> 业务字段（月份维度单独处理）
var facetFields = map[model.Facet]model.CanonicalField{
	model.FacetStatus:    model.FieldStatus,
	model.FacetUnit:      model.FieldRequestingUnit,
	model.FacetSpecialty: model.FieldSpecialty,
	model.FacetProvider:  model.FieldProvider,
}

// Engine 两阶段筛选引擎（顶部维度筛选 -> 列筛选）
// 所有方法都是纯函数：不修改记录，不改变顺序
type Engine struct {
	mapper *parser.FieldMapper
}

// NewEngine 创建筛选引擎
func NewEngine(mapper *parser.FieldMapper) *Engine {
	return &Engine{mapper: mapper}
}

// FacetValue 记录在某维度上的取值；月份维度返回 YYYY-MM，日期缺失时返回 false
func (e *Engine) FacetValue(rec *model.Record, facet model.Facet) (string, bool) {
	if facet == model.FacetMonth {
		t, ok := e.mapper.PendingStart(rec)
		if !ok {
			return "", false
		}
		return parser.MonthBucket(t), true
	}
	return e.mapper.Resolve(rec, facetFields[facet], ""), true
}

// ApplyFacets 阶段 A：各维度已选值取交集，空选择不限制
func (e *Engine) ApplyFacets(records []*model.Record, sel model.FacetSelection) []*model.Record {
	sets := make(map[model.Facet]map[string]bool)
	for _, f := range model.Facets() {
		if vals := sel[f]; len(vals) > 0 {
			sets[f] = toSet(vals)
		}
	}

	out := make([]*model.Record, 0, len(records))
	for _, rec := range records {
		if e.matchFacets(rec, sets) {
			out = append(out, rec)
		}
	}
	return out
}

func (e *Engine) matchFacets(rec *model.Record, sets map[model.Facet]map[string]bool) bool {
	for facet, set := range sets {
		v, ok := e.FacetValue(rec, facet)
		if !ok || !set[v] {
			return false
		}
	}
	return true
}

// DisplayValue 记录在表格列中的展示值（日期列格式化为 DD/MM/YYYY，空值为 "-"）
func (e *Engine) DisplayValue(rec *model.Record, col model.Column) string {
	var raw string
	if col.Field == "" {
		raw = rec.Source()
	} else {
		raw = e.mapper.Resolve(rec, col.Field, "-")
	}
	if col.IsDate {
		raw = parser.FormatDate(raw)
	}
	return normalizeDisplay(raw)
}

// DisplayRow 记录的全部展示单元格
func (e *Engine) DisplayRow(rec *model.Record) []string {
	cells := make([]string, len(tableColumns))
	for i, col := range tableColumns {
		cells[i] = e.DisplayValue(rec, col)
	}
	return cells
}

// ApplyColumns 阶段 B：按列展示值过滤阶段 A 的结果
func (e *Engine) ApplyColumns(records []*model.Record, sel model.ColumnSelection) []*model.Record {
	type colFilter struct {
		col model.Column
		set map[string]bool
	}
	var filters []colFilter
	for _, col := range tableColumns {
		if vals := sel[col.Key]; len(vals) > 0 {
			filters = append(filters, colFilter{col: col, set: toSet(vals)})
		}
	}

	out := make([]*model.Record, 0, len(records))
	for _, rec := range records {
		ok := true
		for _, f := range filters {
			if !f.set[e.DisplayValue(rec, f.col)] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out
}

// Apply 依次执行两个阶段，返回阶段 A 结果与最终视图
func (e *Engine) Apply(records []*model.Record, facets model.FacetSelection, columns model.ColumnSelection) (stageA, active []*model.Record) {
	stageA = e.ApplyFacets(records, facets)
	active = e.ApplyColumns(stageA, columns)
	return stageA, active
}

// FacetOptions 顶部筛选的可选值（基于全部数据）
func (e *Engine) FacetOptions(records []*model.Record) model.FacetOptions {
	distinct := func(facet model.Facet) []string {
		seen := make(map[string]bool)
		var out []string
		for _, rec := range records {
			v, _ := e.FacetValue(rec, facet)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
		sort.Strings(out)
		return out
	}

	months := distinct(model.FacetMonth)
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	monthOptions := make([]model.MonthOption, 0, len(months))
	for _, m := range months {
		monthOptions = append(monthOptions, model.MonthOption{Value: m, Label: parser.MonthLabel(m)})
	}

	return model.FacetOptions{
		Status:    distinct(model.FacetStatus),
		Unit:      distinct(model.FacetUnit),
		Specialty: distinct(model.FacetSpecialty),
		Provider:  distinct(model.FacetProvider),
		Month:     monthOptions,
	}
}

// ColumnOptions 列筛选可选值，仅来自阶段 A 的结果（不受其他列筛选影响）
// 日期按时间倒序排在前面，其余按 pt-BR 排序
func (e *Engine) ColumnOptions(stageA []*model.Record, col model.Column) []string {
	seen := make(map[string]bool)
	var dates, others []string
	for _, rec := range stageA {
		v := e.DisplayValue(rec, col)
		if seen[v] {
			continue
		}
		seen[v] = true
		if _, ok := parser.ParseDate(v); ok {
			dates = append(dates, v)
		} else {
			others = append(others, v)
		}
	}

	sort.SliceStable(dates, func(i, j int) bool {
		di, _ := parser.ParseDate(dates[i])
		dj, _ := parser.ParseDate(dates[j])
		return di.After(dj)
	})

	// collate.Collator 非并发安全，每次调用单独创建
	collator := collate.New(language.BrazilianPortuguese, collate.Loose)
	sort.SliceStable(others, func(i, j int) bool {
		if c := collator.CompareString(others[i], others[j]); c != 0 {
			return c < 0
		}
		return others[i] < others[j]
	})

	return append(dates, others...)
}

// NormalizeColumnValues 去重并校验列筛选值；覆盖全部可选值时返回 nil（等同不限制）
func NormalizeColumnValues(options, values []string) []string {
	offered := toSet(options)
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	covered := 0
	for v := range seen {
		if offered[v] {
			covered++
		}
	}
	if len(options) > 0 && covered == len(offered) {
		return nil
	}
	return out
}

// Search 在全部展示单元格中做不区分大小写的子串匹配；空查询返回全部
func (e *Engine) Search(records []*model.Record, query string) []*model.Record {
	lower := cases.Lower(language.BrazilianPortuguese)
	q := lower.String(strings.TrimSpace(query))
	if q == "" {
		return records
	}

	out := make([]*model.Record, 0, len(records))
	for _, rec := range records {
		for _, cell := range e.DisplayRow(rec) {
			if strings.Contains(lower.String(cell), q) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

func normalizeDisplay(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func toSet(vals []string) map[string]bool {
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}
