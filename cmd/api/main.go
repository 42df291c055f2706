package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hugohenrick/pdv-sync/internal/config"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "arquivo .env (padrão: .env do diretório atual)")
	flag.Parse()

	// Carregar configuração
	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Erro ao criar logger: %v", err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Criar aplicação
	app, err := NewApp(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("erro ao inicializar aplicação", "error", err.Error())
		os.Exit(1)
	}
	defer app.Close()

	// Iniciar o servidor
	if err := app.Start(ctx); err != nil {
		appLogger.Error("servidor encerrado com erro", "error", err.Error())
		os.Exit(1)
	}
}
