package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"distritoeldorado/internal/api"
	"distritoeldorado/internal/config"
	"distritoeldorado/internal/importer"
	"distritoeldorado/internal/parser"
	"distritoeldorado/internal/scheduler"
	"distritoeldorado/internal/service/calculator"
	"distritoeldorado/internal/service/excel"
	"distritoeldorado/internal/service/filter"
	"distritoeldorado/internal/service/store"
)

// Server HTTP服务器
type Server struct {
	cfg         *config.AppConfig
	router      *gin.Engine
	store       *store.MemoryStore
	coordinator *importer.Coordinator
	api         *api.Handler
	httpServer  *http.Server
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	mapper, err := parser.LoadFieldMapper(cfg.Fields.AliasesPath)
	if err != nil {
		return nil, fmt.Errorf("tabela de aliases: %w", err)
	}

	st := store.NewMemoryStore(filter.NewEngine(mapper))
	coordinator := importer.NewCoordinator(st, cfg.ModelSources(), importer.Options{
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.Fetch.UserAgent,
	})
	calc := calculator.NewEngine(mapper)
	exporter := excel.NewExporter(mapper, cfg.Export.SheetName, cfg.Export.FilePrefix)

	s := &Server{
		cfg:         cfg,
		router:      gin.Default(),
		store:       st,
		coordinator: coordinator,
		api:         api.NewHandler(st, coordinator, calc, exporter),
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	s.api.RegisterRoutes(s.router.Group("/api"))

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "rota não encontrada"})
	})
}

// Handler 用于测试
func (s *Server) Handler() http.Handler {
	return s.router
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.MemoryStore {
	return s.store
}

// InitialLoad 首次加载；失败只记录日志，服务照常启动
func (s *Server) InitialLoad(ctx context.Context) {
	if _, err := s.coordinator.Reload(ctx); err != nil {
		log.Printf("carga inicial falhou: %s", importer.LoadMessage(err))
	}
}

// StartScheduler 启动定时重新加载（未配置时不启动）
func (s *Server) StartScheduler(ctx context.Context) error {
	if s.cfg.Schedule.Reload == "" {
		log.Println("recarga automática desativada (schedule.reload vazio)")
		return nil
	}
	sched, err := scheduler.New(s.cfg.Schedule.Reload, s.coordinator, s.cfg.Timeout()*2)
	if err != nil {
		return err
	}
	sched.Start(ctx)
	return nil
}

// Run 启动服务器，阻塞直到 Shutdown
func (s *Server) Run(addr string) error {
	s.httpServer.Addr = addr
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
