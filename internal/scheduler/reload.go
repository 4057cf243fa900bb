package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"distritoeldorado/internal/importer"
)

// Reloader 可重新加载的数据源
type Reloader interface {
	Reload(ctx context.Context) (*importer.LoadReport, error)
}

// ReloadScheduler 按 cron 表达式定时重新加载全部 abas
type ReloadScheduler struct {
	spec     string
	schedule cron.Schedule
	reloader Reloader
	timeout  time.Duration

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// New 解析标准 5 段 cron 表达式（分 时 日 月 周）
func New(spec string, reloader Reloader, timeout time.Duration) (*ReloadScheduler, error) {
	spec = strings.TrimSpace(spec)
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("agendamento %q inválido: %w", spec, err)
	}
	return &ReloadScheduler{
		spec:     spec,
		schedule: sched,
		reloader: reloader,
		timeout:  timeout,
		now:      time.Now,
		after:    time.After,
	}, nil
}

// Next 下一次执行时间
func (s *ReloadScheduler) Next(from time.Time) time.Time {
	return s.schedule.Next(from)
}

// Run 阻塞运行直到 ctx 取消
func (s *ReloadScheduler) Run(ctx context.Context) {
	log.Printf("recarga automática agendada (cron: %s)", s.spec)
	for {
		now := s.now()
		next := s.schedule.Next(now)
		wait := next.Sub(now)
		log.Printf("próxima recarga em %s (em %s)", next.Format("02/01 15:04"), wait.Round(time.Minute))

		select {
		case <-ctx.Done():
			log.Printf("recarga automática encerrada")
			return
		case <-s.after(wait):
		}

		s.reloadOnce(ctx)
	}
}

// Start 在后台运行
func (s *ReloadScheduler) Start(ctx context.Context) {
	go s.Run(ctx)
}

func (s *ReloadScheduler) reloadOnce(ctx context.Context) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	report, err := s.reloader.Reload(ctx)
	if err != nil {
		// 保留上一次的数据
		log.Printf("recarga automática falhou: %v", err)
		return
	}
	log.Printf("recarga automática concluída: %d registros em %s", report.Records, report.Duration.Round(time.Millisecond))
}
