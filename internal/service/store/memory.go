package store

import (
	"sync"
	"time"

	"distritoeldorado/internal/model"
	"distritoeldorado/internal/service/filter"
)

// LoadInfo 最近一次加载的信息
type LoadInfo struct {
	LoadID    string              `json:"loadId"`
	LoadedAt  time.Time           `json:"loadedAt"`
	Sources   []model.SourceCount `json:"sources"`
	LastError string              `json:"lastError,omitempty"`
	ErrorAt   *time.Time          `json:"errorAt,omitempty"`
}

// View 当前状态快照（切片只读，不要修改其中的记录）
type View struct {
	Dataset model.Dataset
	StageA  []*model.Record
	Active  []*model.Record
	Facets  model.FacetSelection
	Columns model.ColumnSelection
	Sources []model.Source
	Load    LoadInfo
}

// MemoryStore 看板状态：数据集、筛选选择与当前视图
// 每次选择变化都在写锁内同步重新计算视图
type MemoryStore struct {
	engine *filter.Engine

	dataset model.Dataset
	sources []model.Source
	load    LoadInfo

	facets  model.FacetSelection
	columns model.ColumnSelection
	stageA  []*model.Record
	active  []*model.Record

	mu sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore(engine *filter.Engine) *MemoryStore {
	return &MemoryStore{
		engine:  engine,
		facets:  model.FacetSelection{},
		columns: model.ColumnSelection{},
	}
}

// Engine 返回筛选引擎
func (s *MemoryStore) Engine() *filter.Engine {
	return s.engine
}

// ReplaceDataset 整体替换数据集并重置全部筛选
func (s *MemoryStore) ReplaceDataset(ds model.Dataset, sources []model.Source, loadID string, loadedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dataset = ds
	s.sources = append([]model.Source(nil), sources...)
	s.load = LoadInfo{
		LoadID:   loadID,
		LoadedAt: loadedAt,
		Sources:  ds.CountBySource(),
	}
	s.facets = model.FacetSelection{}
	s.columns = model.ColumnSelection{}
	s.recomputeLocked()
}

// RecordLoadError 记录加载失败（保留之前的数据集）
func (s *MemoryStore) RecordLoadError(err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load.LastError = err.Error()
	s.load.ErrorAt = &at
}

// Loaded 是否已有数据
func (s *MemoryStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dataset) > 0
}

// Count 全部记录数
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dataset)
}

// Snapshot 获取当前状态快照
func (s *MemoryStore) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	load := s.load
	load.Sources = append([]model.SourceCount(nil), s.load.Sources...)
	return View{
		Dataset: s.dataset,
		StageA:  s.stageA,
		Active:  s.active,
		Facets:  s.facets.Clone(),
		Columns: s.columns.Clone(),
		Sources: append([]model.Source(nil), s.sources...),
		Load:    load,
	}
}

// Active 当前视图
func (s *MemoryStore) Active() []*model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// FacetOptions 顶部筛选可选值
func (s *MemoryStore) FacetOptions() model.FacetOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.FacetOptions(s.dataset)
}

// SetFacet 设置某维度的已选值；空切片表示不限制
func (s *MemoryStore) SetFacet(facet model.Facet, values []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values = dedupe(values)
	if len(values) == 0 {
		delete(s.facets, facet)
	} else {
		s.facets[facet] = values
	}
	s.recomputeLocked()
}

// SelectAllFacet “全选”：等同不限制
func (s *MemoryStore) SelectAllFacet(facet model.Facet) {
	s.SetFacet(facet, nil)
}

// SelectNoneFacet “清空”：空选择，同样不限制
func (s *MemoryStore) SelectNoneFacet(facet model.Facet) {
	s.SetFacet(facet, nil)
}

// ColumnOptions 列筛选可选值（基于当前阶段 A 结果）与已选值
func (s *MemoryStore) ColumnOptions(col model.Column) (options, selected []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	options = s.engine.ColumnOptions(s.stageA, col)
	selected = append([]string(nil), s.columns[col.Key]...)
	return options, selected
}

// SetColumnFilter 设置列筛选；选中全部可选值时等同不限制
func (s *MemoryStore) SetColumnFilter(col model.Column, values []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	options := s.engine.ColumnOptions(s.stageA, col)
	values = filter.NormalizeColumnValues(options, values)
	if len(values) == 0 {
		delete(s.columns, col.Key)
	} else {
		s.columns[col.Key] = values
	}
	s.recomputeLocked()
	return values
}

// ClearFilters 清空所有维度与列筛选
func (s *MemoryStore) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facets = model.FacetSelection{}
	s.columns = model.ColumnSelection{}
	s.recomputeLocked()
}

func (s *MemoryStore) recomputeLocked() {
	s.stageA, s.active = s.engine.Apply(s.dataset, s.facets, s.columns)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
