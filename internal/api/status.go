package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"distritoeldorado/internal/importer"
	"distritoeldorado/internal/model"
	"distritoeldorado/internal/parser"
)

// StatusResponse 加载状态响应
type StatusResponse struct {
	Loaded    bool                 `json:"loaded"`    // 是否已有数据
	LoadID    string               `json:"loadId"`    // 最近一次成功加载
	LoadedAt  *time.Time           `json:"loadedAt"`  // 最近一次成功加载时间
	Total     int                  `json:"total"`     // 全部记录数
	Active    int                  `json:"active"`    // 当前视图记录数
	Sources   []sourceStatus       `json:"sources"`   // 各 aba 记录数
	LastError string               `json:"lastError"` // 最近一次加载失败原因
	ErrorAt   *time.Time           `json:"errorAt"`
	Filters   model.FacetSelection `json:"filters"`
}

type sourceStatus struct {
	Name     string           `json:"name"`
	District string           `json:"district"`
	Kind     model.SourceKind `json:"kind"`
	Count    int              `json:"count"`
}

// GetStatus 获取加载状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	view := h.store.Snapshot()

	counts := make(map[string]int, len(view.Load.Sources))
	for _, sc := range view.Load.Sources {
		counts[sc.Source] = sc.Count
	}
	sources := make([]sourceStatus, 0, len(view.Sources))
	for _, s := range view.Sources {
		sources = append(sources, sourceStatus{
			Name:     s.Name,
			District: s.District,
			Kind:     s.Kind,
			Count:    counts[s.Name],
		})
	}

	resp := StatusResponse{
		Loaded:    len(view.Dataset) > 0,
		LoadID:    view.Load.LoadID,
		Total:     len(view.Dataset),
		Active:    len(view.Active),
		Sources:   sources,
		LastError: view.Load.LastError,
		ErrorAt:   view.Load.ErrorAt,
		Filters:   view.Facets,
	}
	if !view.Load.LoadedAt.IsZero() {
		loadedAt := view.Load.LoadedAt
		resp.LoadedAt = &loadedAt
	}
	c.JSON(http.StatusOK, resp)
}

// Reload 重新加载全部 abas；失败时保留之前的数据
// POST /api/reload
func (h *Handler) Reload(c *gin.Context) {
	report, err := h.loader.Reload(c.Request.Context())
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, parser.ErrNoData) {
			status = http.StatusUnprocessableEntity
		}
		var se *importer.SourceError
		source := ""
		if errors.As(err, &se) {
			source = se.Source
		}
		c.JSON(status, gin.H{
			"error":   err.Error(),
			"source":  source,
			"message": importer.LoadMessage(err),
		})
		return
	}
	c.JSON(http.StatusOK, report)
}
