package importer

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"distritoeldorado/internal/model"
	"distritoeldorado/internal/parser"
	"distritoeldorado/internal/service/store"
)

const defaultTimeout = 30 * time.Second

// Coordinator 加载协调器：并行获取全部来源，全部成功后才提交数据集
type Coordinator struct {
	store     *store.MemoryStore
	sources   []model.Source
	client    *http.Client
	userAgent string
	now       func() time.Time

	// 串行化重新加载
	mu sync.Mutex
}

// Options 协调器选项
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
	Now       func() time.Time
}

// NewCoordinator 创建加载协调器
func NewCoordinator(st *store.MemoryStore, sources []model.Source, opts Options) *Coordinator {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Coordinator{
		store:     st,
		sources:   append([]model.Source(nil), sources...),
		client:    client,
		userAgent: opts.UserAgent,
		now:       now,
	}
}

// SourceReport 单个来源的加载结果
type SourceReport struct {
	Name     string        `json:"name"`
	Bytes    int           `json:"bytes"`
	Rows     int           `json:"rows"`
	Duration time.Duration `json:"duration"`
}

// LoadReport 加载报告
type LoadReport struct {
	LoadID   string         `json:"loadId"`
	Records  int            `json:"records"`
	Duration time.Duration  `json:"duration"`
	Sources  []SourceReport `json:"sources"`
}

// Fetch 并行获取并解析全部来源；任一来源失败即返回错误
func (c *Coordinator) Fetch(ctx context.Context) (model.Dataset, []SourceReport, error) {
	batches := make([]parser.SourceRows, len(c.sources))
	reports := make([]SourceReport, len(c.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range c.sources {
		g.Go(func() error {
			start := time.Now()
			text, size, err := c.fetchText(gctx, src)
			if err != nil {
				return &SourceError{Source: src.Name, Err: err}
			}
			rows := parser.ParseCSV(text)
			batches[i] = parser.SourceRows{Name: src.Name, Rows: rows}
			reports[i] = SourceReport{Name: src.Name, Bytes: size, Rows: len(rows), Duration: time.Since(start)}
			log.Printf("dados CSV da aba %q recebidos (%d bytes)", src.Name, size)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	ds, err := parser.Normalize(batches)
	if err != nil {
		return nil, nil, err
	}
	return ds, reports, nil
}

// Reload 重新加载全部来源；失败时保留之前的数据集
func (c *Coordinator) Reload(ctx context.Context) (*LoadReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	log.Printf("carregando %d abas...", len(c.sources))

	ds, reports, err := c.Fetch(ctx)
	if err != nil {
		log.Printf("erro ao carregar dados: %v", err)
		c.store.RecordLoadError(err, c.now())
		return nil, err
	}

	loadID := uuid.NewString()
	c.store.ReplaceDataset(ds, c.sources, loadID, c.now())

	report := &LoadReport{
		LoadID:   loadID,
		Records:  len(ds),
		Duration: time.Since(start),
		Sources:  reports,
	}
	log.Printf("dados carregados com sucesso: %d registros (load %s)", len(ds), loadID)
	return report, nil
}
