package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"distritoeldorado/internal/importer"
	"distritoeldorado/internal/model"
)

// 默认的 Eldorado 表格
const (
	DefaultSheetID     = "1r6NLcVkVLD5vp4UxPEa7TcreBpOd0qeNt-QREOG4Xr4"
	DefaultPendingGID  = "278071504"
	DefaultResolvedGID = "2142054254"
)

var (
	ErrNoSources      = errors.New("nenhuma aba configurada")
	ErrInvalidSource  = errors.New("aba inválida")
	ErrDuplicateName  = errors.New("nome de aba duplicado")
	ErrInvalidPort    = errors.New("porta inválida")
	ErrInvalidTimeout = errors.New("timeout inválido")
	ErrInvalidCron    = errors.New("agendamento inválido")
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Sources  []SourceConfig `toml:"sources"`
	Fetch    FetchConfig    `toml:"fetch"`
	Schedule ScheduleConfig `toml:"schedule"`
	Export   ExportConfig   `toml:"export"`
	Fields   FieldsConfig   `toml:"fields"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// SourceConfig 一个 aba；url 与 sheet_id+gid 二选一
type SourceConfig struct {
	Name     string `toml:"name"`
	URL      string `toml:"url,omitempty"`
	SheetID  string `toml:"sheet_id,omitempty"`
	GID      string `toml:"gid,omitempty"`
	District string `toml:"district"`
	Kind     string `toml:"kind"`
}

// FetchConfig 拉取配置
type FetchConfig struct {
	TimeoutSec int    `toml:"timeout_sec"`
	UserAgent  string `toml:"user_agent"`
}

// ScheduleConfig 定时重新加载（5 段 cron 表达式，空为关闭）
type ScheduleConfig struct {
	Reload string `toml:"reload"`
}

// ExportConfig Excel 导出配置
type ExportConfig struct {
	FilePrefix string `toml:"file_prefix"`
	SheetName  string `toml:"sheet_name"`
}

// FieldsConfig 表头别名表（空则使用内置表）
type FieldsConfig struct {
	AliasesPath string `toml:"aliases_path"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	Found         bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Sources: []SourceConfig{
			{
				Name:     "PENDÊNCIAS ELDORADO",
				SheetID:  DefaultSheetID,
				GID:      DefaultPendingGID,
				District: "ELDORADO",
				Kind:     string(model.SourceKindPending),
			},
			{
				Name:     "RESOLVIDOS ELDORADO",
				SheetID:  DefaultSheetID,
				GID:      DefaultResolvedGID,
				District: "ELDORADO",
				Kind:     string(model.SourceKindResolved),
			},
		},
		Fetch: FetchConfig{
			TimeoutSec: 30,
			UserAgent:  "distritoeldorado/1.0",
		},
		Export: ExportConfig{
			FilePrefix: "Dados_Eldorado",
			SheetName:  "Dados Completos",
		},
	}
}

// Timeout 单次请求超时
func (c *AppConfig) Timeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSec) * time.Second
}

// ModelSources 解析为运行时来源（sheet_id+gid 转换为 CSV 导出地址）
func (c *AppConfig) ModelSources() []model.Source {
	out := make([]model.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		url := s.URL
		if url == "" {
			url = importer.GvizCSVURL(s.SheetID, s.GID)
		}
		out = append(out, model.Source{
			Name:     s.Name,
			URL:      url,
			District: s.District,
			Kind:     model.SourceKind(strings.ToUpper(s.Kind)),
		})
	}
	return out
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}
	if c.Fetch.TimeoutSec <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTimeout, c.Fetch.TimeoutSec)
	}
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%w: #%d sem nome", ErrInvalidSource, i+1)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, s.Name)
		}
		seen[s.Name] = true

		if s.URL == "" && (s.SheetID == "" || s.GID == "") {
			return fmt.Errorf("%w: %q precisa de url ou sheet_id+gid", ErrInvalidSource, s.Name)
		}
		switch model.SourceKind(strings.ToUpper(s.Kind)) {
		case model.SourceKindPending, model.SourceKindResolved:
		default:
			return fmt.Errorf("%w: %q tipo %q", ErrInvalidSource, s.Name, s.Kind)
		}
	}

	if spec := strings.TrimSpace(c.Schedule.Reload); spec != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(spec); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCron, err)
		}
	}
	return nil
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 默认配置文件路径：ELDORADO_CONFIG，否则可执行文件同目录的 config.toml
func DefaultPath() string {
	if v := os.Getenv("ELDORADO_CONFIG"); v != "" {
		return v
	}
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 加载配置并返回元信息；path 为空时使用 DefaultPath
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.Found = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		defaults := config.Sources
		// [[sources]] 出现时整体替换默认来源
		config.Sources = nil
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("config.toml inválido: %w", err)
		}
		if len(config.Sources) == 0 {
			config.Sources = defaults
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// applyEnv 环境变量覆盖
func applyEnv(config *AppConfig) {
	if v := os.Getenv("ELDORADO_SHEET_ID"); v != "" {
		for i := range config.Sources {
			if config.Sources[i].URL == "" {
				config.Sources[i].SheetID = v
			}
		}
	}
	if v, ok := os.LookupEnv("ELDORADO_RELOAD_SCHEDULE"); ok {
		config.Schedule.Reload = v
	}
}

// SaveConfig 保存配置
func SaveConfig(path string, config *AppConfig) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
