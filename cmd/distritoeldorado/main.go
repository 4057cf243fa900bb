package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"distritoeldorado/internal/config"
	"distritoeldorado/internal/server"
)

var (
	port       = flag.Int("port", 0, "porta HTTP (config.toml tem prioridade; só vale quando port não está configurado)")
	devMode    = flag.Bool("dev", false, "modo de desenvolvimento")
	configPath = flag.String("config", "", "caminho do config.toml (padrão: ELDORADO_CONFIG ou ao lado do executável)")
	initConfig = flag.Bool("init-config", false, "grava a configuração efetiva em config.toml e sai")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Distrito Eldorado - Painel de Pendências")
	fmt.Println("==========================================")

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo(*configPath)
	if err != nil {
		log.Fatalf("falha ao carregar configuração: %v", err)
	}
	if info.Found {
		fmt.Printf("Configuração: %s\n", info.Path)
	}

	if *initConfig {
		if err := config.SaveConfig(info.Path, cfg); err != nil {
			log.Fatalf("falha ao gravar configuração: %v", err)
		}
		fmt.Printf("Configuração gravada em %s\n", info.Path)
		return
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("falha ao criar servidor: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv.InitialLoad(ctx)
	if err := srv.StartScheduler(ctx); err != nil {
		log.Printf("recarga automática desativada: %v", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		fmt.Printf("Servidor ouvindo em http://localhost:%d\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Printf("falha ao iniciar servidor: %v", err)
			os.Exit(1)
		}
	}()

	fmt.Println("\nPressione Ctrl+C para encerrar...")
	<-ctx.Done()

	fmt.Println("\nEncerrando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("falha ao encerrar servidor: %v", err)
	}
}
