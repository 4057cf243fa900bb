package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"distritoeldorado/internal/service/excel"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportTTL       = 10 * time.Minute
)

// buildContentDisposition 同时提供 ASCII 文件名与 RFC 5987 编码的原始文件名
func buildContentDisposition(fileName string) string {
	ascii := make([]rune, 0, len(fileName))
	for _, r := range fileName {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			r = '_'
		}
		ascii = append(ascii, r)
	}
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s",
		string(ascii), url.PathEscape(fileName))
}

// renderExport 生成当前视图的工作簿
func (h *Handler) renderExport() (name string, data []byte, rows int, err error) {
	view := h.store.Snapshot()
	metrics := h.calc.Calculate(len(view.Dataset), view.Active)

	var buf bytes.Buffer
	if err := h.exporter.WriteTo(&buf, view.Active, &metrics); err != nil {
		return "", nil, 0, err
	}
	return h.exporter.FileName(h.now()), buf.Bytes(), len(view.Active), nil
}

func exportErrorStatus(err error) int {
	if errors.Is(err, excel.ErrNoRows) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// ExportStream 导出当前视图（不受搜索框影响）
// GET /api/export
func (h *Handler) ExportStream(c *gin.Context) {
	name, data, rows, err := h.renderExport()
	if err != nil {
		c.JSON(exportErrorStatus(err), gin.H{"error": "Erro ao exportar: " + err.Error()})
		return
	}
	c.Header("Content-Disposition", buildContentDisposition(name))
	c.Header("X-Export-Rows", strconv.Itoa(rows))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// PrepareExport 生成导出文件并返回一次性下载地址
// POST /api/export
func (h *Handler) PrepareExport(c *gin.Context) {
	name, data, rows, err := h.renderExport()
	if err != nil {
		c.JSON(exportErrorStatus(err), gin.H{"error": "Erro ao exportar: " + err.Error()})
		return
	}

	token := h.downloads.put(name, data, rows, exportTTL)
	prefix := strings.TrimSuffix(c.FullPath(), "/export")
	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"fileName":    name,
		"rows":        rows,
		"downloadUrl": fmt.Sprintf("%s/export/download/%s", prefix, token),
		"expiresIn":   int(exportTTL.Seconds()),
	})
}

// DownloadExport 下载已生成的导出文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token ausente"})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "link de download expirado"})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(item.fileName))
	c.Header("X-Export-Rows", strconv.Itoa(item.rows))
	c.Data(http.StatusOK, xlsxContentType, item.data)
	h.downloads.delete(token)
}
