package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"distritoeldorado/internal/model"
	"distritoeldorado/internal/service/filter"
)

const errUnknownChart = "gráfico desconhecido"

type recordRow struct {
	Source  string   `json:"source"`
	Cells   []string `json:"cells"`
	DueSoon bool     `json:"dueSoon"` // 待处理已满 15 天未满 30 天
}

type listRecordsResponse struct {
	Total   int         `json:"total"`  // 全部记录数
	Active  int         `json:"active"` // 当前视图记录数
	Shown   int         `json:"shown"`  // 搜索后显示的记录数
	Query   string      `json:"query"`
	Columns []string    `json:"columns"` // 列标题
	Rows    []recordRow `json:"rows"`
}

// ListRecords 当前视图表格；q 只过滤显示，不影响指标与导出
// GET /api/records?q=
func (h *Handler) ListRecords(c *gin.Context) {
	view := h.store.Snapshot()
	engine := h.store.Engine()
	query := strings.TrimSpace(c.Query("q"))

	shown := engine.Search(view.Active, query)
	pending := model.SourcesOfKind(view.Sources, model.SourceKindPending)

	rows := make([]recordRow, 0, len(shown))
	for _, rec := range shown {
		rows = append(rows, recordRow{
			Source:  rec.Source(),
			Cells:   engine.DisplayRow(rec),
			DueSoon: h.calc.DueSoon(rec, pending),
		})
	}

	var columns []string
	for _, col := range filter.Columns() {
		columns = append(columns, col.Title)
	}

	c.JSON(http.StatusOK, listRecordsResponse{
		Total:   len(view.Dataset),
		Active:  len(view.Active),
		Shown:   len(shown),
		Query:   query,
		Columns: columns,
		Rows:    rows,
	})
}

// GetMetrics 汇总卡片指标
// GET /api/metrics
func (h *Handler) GetMetrics(c *gin.Context) {
	view := h.store.Snapshot()
	c.JSON(http.StatusOK, h.calc.Calculate(len(view.Dataset), view.Active))
}

// GetChart 图表数据（基于当前视图）
// GET /api/charts/:chart
func (h *Handler) GetChart(c *gin.Context) {
	view := h.store.Snapshot()
	chart := c.Param("chart")

	var data any
	switch chart {
	case "unit":
		data = h.calc.CountBy(view.Active, model.FieldRequestingUnit)
	case "specialty":
		data = h.calc.CountBy(view.Active, model.FieldSpecialty)
	case "status":
		data = h.calc.CountBy(view.Active, model.FieldStatus)
	case "provider":
		data = h.calc.CountBy(view.Active, model.FieldProvider)
	case "month":
		data = h.calc.CountByMonth(view.Active)
	case "pending-unit":
		data = h.calc.PendingBy(view.Active, model.FieldRequestingUnit)
	case "pending-provider":
		data = h.calc.PendingBy(view.Active, model.FieldProvider)
	case "resolution-unit":
		resolved := model.SourcesOfKind(view.Sources, model.SourceKindResolved)
		data = h.calc.Resolution(view.Active, model.FieldRequestingUnit, resolved)
	case "resolution-provider":
		resolved := model.SourcesOfKind(view.Sources, model.SourceKindResolved)
		data = h.calc.Resolution(view.Active, model.FieldProvider, resolved)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": errUnknownChart + ": " + chart})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chart":  chart,
		"active": len(view.Active),
		"data":   data,
	})
}
