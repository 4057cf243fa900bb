package parser

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"distritoeldorado/internal/model"
)

//go:embed aliases.yaml
var defaultAliases []byte

// FieldMapper 字段映射器：业务字段 -> 按优先级排列的表头写法
type FieldMapper struct {
	aliases map[model.CanonicalField][]string
}

// NewFieldMapper 由别名表创建字段映射器，校验每个业务字段至少有一个写法
func NewFieldMapper(aliases map[model.CanonicalField][]string) (*FieldMapper, error) {
	m := &FieldMapper{aliases: make(map[model.CanonicalField][]string, len(aliases))}
	for field, names := range aliases {
		for _, name := range names {
			name = norm.NFC.String(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			m.aliases[field] = append(m.aliases[field], name)
		}
	}
	for _, field := range model.CanonicalFields() {
		if len(m.aliases[field]) == 0 {
			return nil, fmt.Errorf("campo %q sem nomes de coluna configurados", field)
		}
	}
	return m, nil
}

// ParseFieldAliases 解析 YAML 别名表
func ParseFieldAliases(data []byte) (map[model.CanonicalField][]string, error) {
	var raw map[model.CanonicalField][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ler tabela de aliases: %w", err)
	}
	return raw, nil
}

// DefaultFieldMapper 使用内置别名表
func DefaultFieldMapper() *FieldMapper {
	aliases, err := ParseFieldAliases(defaultAliases)
	if err != nil {
		panic(err)
	}
	m, err := NewFieldMapper(aliases)
	if err != nil {
		panic(err)
	}
	return m
}

// LoadFieldMapper 从 YAML 文件加载别名表；path 为空时使用内置表
func LoadFieldMapper(path string) (*FieldMapper, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultFieldMapper(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	aliases, err := ParseFieldAliases(data)
	if err != nil {
		return nil, err
	}
	return NewFieldMapper(aliases)
}

// Aliases 返回业务字段的表头写法（按优先级）
func (m *FieldMapper) Aliases(field model.CanonicalField) []string {
	return append([]string(nil), m.aliases[field]...)
}

// Resolve 返回第一个存在且非空的表头写法对应的值，否则返回 def
func (m *FieldMapper) Resolve(rec *model.Record, field model.CanonicalField, def string) string {
	for _, name := range m.aliases[field] {
		if v, ok := rec.Get(name); ok && v != "" {
			return v
		}
	}
	return def
}

// PendingStart 待处理开始日期（Data Início da Pendência），无法解析时 ok 为 false
func (m *FieldMapper) PendingStart(rec *model.Record) (time.Time, bool) {
	return ParseDate(m.Resolve(rec, model.FieldPendingStartDate, "-"))
}
