package parser

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// DecodeText 将响应体转换为文本：去除 BOM，非 UTF-8 内容按 Windows-1252 解码，
// 统一为 NFC 以便带重音的表头可以直接比较
func DecodeText(body []byte) string {
	body = bytes.TrimPrefix(body, utf8BOM)

	if !utf8.Valid(body) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(body)
		if err == nil {
			body = decoded
		}
	}

	text := norm.NFC.String(string(body))
	return strings.TrimPrefix(text, "\ufeff")
}

// IsMarkup 判断文本是否为 HTML/XML 文档（而非表格数据）
// 以 "<" 加字母、"!" 或 "?" 开头即视为标记
func IsMarkup(text string) bool {
	head := strings.TrimLeft(text, " \t\r\n\ufeff")
	if len(head) < 2 || head[0] != '<' {
		return false
	}
	switch c := head[1]; {
	case c == '!' || c == '?':
		return true
	case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		return true
	}
	return false
}
