package calculator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"distritoeldorado/internal/model"
	"distritoeldorado/internal/parser"
)

const (
	agingWarnDays     = 15 // 15 天提醒
	agingCriticalDays = 30 // 30 天超期
)

// Engine 指标计算引擎
type Engine struct {
	mapper *parser.FieldMapper
	now    func() time.Time
}

// Option 计算引擎选项
type Option func(*Engine)

// WithClock 指定当前时间（测试与 -as-of 参数使用）
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine 创建计算引擎
func NewEngine(mapper *parser.FieldMapper, opts ...Option) *Engine {
	e := &Engine{mapper: mapper, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now 当前时间
func (e *Engine) Now() time.Time {
	return e.now()
}

// IsPending 待处理规则：Usuário 列已填写
func (e *Engine) IsPending(rec *model.Record) bool {
	return strings.TrimSpace(e.mapper.Resolve(rec, model.FieldAssignedUser, "")) != ""
}

// PendingStart 解析待处理开始日期
func (e *Engine) PendingStart(rec *model.Record) (time.Time, bool) {
	return e.mapper.PendingStart(rec)
}

// Calculate 计算汇总卡片指标
// total 为未筛选数据量，active 为当前视图
func (e *Engine) Calculate(total int, active []*model.Record) model.Metrics {
	now := e.now()
	metrics := model.Metrics{
		Total:  total,
		Active: len(active),
		AsOf:   parser.DateOnly(now),
	}

	metrics.Percent = 100
	if total > 0 {
		metrics.Percent = math.Round(float64(len(active))/float64(total)*1000) / 10
	}
	metrics.PercentLabel = fmt.Sprintf("%.1f%%", metrics.Percent)

	for _, rec := range active {
		if !e.IsPending(rec) {
			continue
		}
		start, ok := e.PendingStart(rec)
		if !ok {
			continue
		}
		switch days := ElapsedDays(now, start); {
		case days >= agingCriticalDays:
			metrics.Aging30++
		case days >= agingWarnDays:
			metrics.Aging15++
		}
	}

	return metrics
}

// DueSoon 表格高亮：来自待处理来源且已过 15 天未满 30 天
func (e *Engine) DueSoon(rec *model.Record, pendingSources map[string]bool) bool {
	if !pendingSources[rec.Source()] {
		return false
	}
	start, ok := e.PendingStart(rec)
	if !ok {
		return false
	}
	days := ElapsedDays(e.now(), start)
	return days >= agingWarnDays && days < agingCriticalDays
}

// ElapsedDays 两个日历日期之间的整天数（忽略时刻与时区偏移）
func ElapsedDays(now, start time.Time) int {
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Floor(a.Sub(b).Hours() / 24))
}
