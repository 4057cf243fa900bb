package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"distritoeldorado/internal/importer"
	"distritoeldorado/internal/service/calculator"
	"distritoeldorado/internal/service/excel"
	"distritoeldorado/internal/service/store"
)

// Loader 重新加载全部来源
type Loader interface {
	Reload(ctx context.Context) (*importer.LoadReport, error)
}

// Handler API 处理器
type Handler struct {
	store     *store.MemoryStore
	loader    Loader
	calc      *calculator.Engine
	exporter  *excel.Exporter
	downloads *exportDownloadStore
	now       func() time.Time
}

// NewHandler 创建 API 处理器
func NewHandler(st *store.MemoryStore, loader Loader, calc *calculator.Engine, exporter *excel.Exporter) *Handler {
	return &Handler{
		store:     st,
		loader:    loader,
		calc:      calc,
		exporter:  exporter,
		downloads: newExportDownloadStore(),
		now:       calc.Now,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 加载状态
	router.GET("/status", h.GetStatus)
	router.POST("/reload", h.Reload)

	// 顶部筛选
	router.GET("/filters", h.GetFilters)
	router.POST("/filters/clear", h.ClearFilters)
	router.PUT("/filters/:facet", h.SetFacet)
	router.POST("/filters/:facet/all", h.SelectAllFacet)
	router.POST("/filters/:facet/none", h.SelectNoneFacet)

	// 列筛选
	router.GET("/columns", h.GetColumns)
	router.GET("/columns/:column/options", h.GetColumnOptions)
	router.PUT("/columns/:column", h.SetColumnFilter)

	// 表格、指标与图表
	router.GET("/records", h.ListRecords)
	router.GET("/metrics", h.GetMetrics)
	router.GET("/charts/:chart", h.GetChart)

	// 导出
	router.GET("/export", h.ExportStream)
	router.POST("/export", h.PrepareExport)
	router.GET("/export/download/:token", h.DownloadExport)
}
