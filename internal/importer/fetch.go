package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"distritoeldorado/internal/model"
	"distritoeldorado/internal/parser"
)

// ErrHTTPStatus 非 2xx 响应
var ErrHTTPStatus = errors.New("status HTTP inesperado")

// SourceError 指明出错的来源
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("aba %q: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// GvizCSVURL Google Sheets 某个 aba 的 CSV 导出地址
func GvizCSVURL(sheetID, gid string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv&gid=%s",
		url.PathEscape(sheetID), url.QueryEscape(gid))
}

// cacheBust 追加防缓存参数 _=<毫秒时间戳>
func cacheBust(rawURL string, now time.Time) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("_", strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// fetchText 获取单个来源的文本内容（file:// 读取本地文件）
func (c *Coordinator) fetchText(ctx context.Context, src model.Source) (string, int, error) {
	if path, ok := strings.CutPrefix(src.URL, "file://"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", 0, err
		}
		return checkTabular(data)
	}

	target, err := cacheBust(src.URL, c.now())
	if err != nil {
		return "", 0, fmt.Errorf("URL inválida: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("falha ao criar requisição: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.8")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", 0, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("falha ao ler resposta: %w", err)
	}
	return checkTabular(body)
}

func checkTabular(body []byte) (string, int, error) {
	text := parser.DecodeText(body)
	if parser.IsMarkup(text) {
		return "", len(body), parser.ErrNotTabular
	}
	return text, len(body), nil
}

// LoadMessage 面向用户的加载错误说明
func LoadMessage(err error) string {
	if errors.Is(err, parser.ErrNoData) {
		return "Nenhum dado foi carregado das planilhas. Verifique se há dados nas abas."
	}
	return fmt.Sprintf("Erro ao carregar dados da planilha: %v\n\n"+
		"Verifique:\n"+
		"1. A planilha está com acesso \"Qualquer pessoa com o link pode visualizar\"?\n"+
		"2. Os GIDs estão corretos (aba certa)?\n"+
		"3. Há dados nas abas?", err)
}
