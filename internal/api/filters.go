package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"distritoeldorado/internal/model"
	"distritoeldorado/internal/service/filter"
)

type valuesRequest struct {
	Values []string `json:"values"`
}

type filtersResponse struct {
	Options  model.FacetOptions   `json:"options"`
	Selected model.FacetSelection `json:"selected"`
	Total    int                  `json:"total"`
	Active   int                  `json:"active"`
}

func (h *Handler) filtersResponse() filtersResponse {
	view := h.store.Snapshot()
	return filtersResponse{
		Options:  h.store.FacetOptions(),
		Selected: view.Facets,
		Total:    len(view.Dataset),
		Active:   len(view.Active),
	}
}

// GetFilters 顶部筛选可选值与当前选择
// GET /api/filters
func (h *Handler) GetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.filtersResponse())
}

func facetParam(c *gin.Context) (model.Facet, bool) {
	facet, err := filter.ParseFacet(c.Param("facet"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return facet, true
}

// SetFacet 设置某维度的已选值
// PUT /api/filters/:facet
func (h *Handler) SetFacet(c *gin.Context) {
	facet, ok := facetParam(c)
	if !ok {
		return
	}
	var req valuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo inválido: " + err.Error()})
		return
	}
	h.store.SetFacet(facet, req.Values)
	c.JSON(http.StatusOK, h.filtersResponse())
}

// SelectAllFacet 全选
// POST /api/filters/:facet/all
func (h *Handler) SelectAllFacet(c *gin.Context) {
	facet, ok := facetParam(c)
	if !ok {
		return
	}
	h.store.SelectAllFacet(facet)
	c.JSON(http.StatusOK, h.filtersResponse())
}

// SelectNoneFacet 清空选择
// POST /api/filters/:facet/none
func (h *Handler) SelectNoneFacet(c *gin.Context) {
	facet, ok := facetParam(c)
	if !ok {
		return
	}
	h.store.SelectNoneFacet(facet)
	c.JSON(http.StatusOK, h.filtersResponse())
}

// ClearFilters 清空全部顶部筛选与列筛选
// POST /api/filters/clear
func (h *Handler) ClearFilters(c *gin.Context) {
	h.store.ClearFilters()
	c.JSON(http.StatusOK, h.filtersResponse())
}

// GetColumns 表格列与当前列筛选
// GET /api/columns
func (h *Handler) GetColumns(c *gin.Context) {
	view := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"columns":  filter.Columns(),
		"selected": view.Columns,
	})
}

func columnParam(c *gin.Context) (model.Column, bool) {
	col, err := filter.ColumnByKey(model.ColumnKey(c.Param("column")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return model.Column{}, false
	}
	return col, true
}

// GetColumnOptions 列筛选可选值（仅来自顶部筛选后的记录）
// GET /api/columns/:column/options
func (h *Handler) GetColumnOptions(c *gin.Context) {
	col, ok := columnParam(c)
	if !ok {
		return
	}
	options, selected := h.store.ColumnOptions(col)
	if options == nil {
		options = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"column":   col,
		"options":  options,
		"selected": selected,
	})
}

// SetColumnFilter 设置列筛选
// PUT /api/columns/:column
func (h *Handler) SetColumnFilter(c *gin.Context) {
	col, ok := columnParam(c)
	if !ok {
		return
	}
	var req valuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo inválido: " + err.Error()})
		return
	}
	selected := h.store.SetColumnFilter(col, req.Values)
	c.JSON(http.StatusOK, gin.H{
		"column":   col,
		"selected": selected,
		"active":   len(h.store.Active()),
	})
}
