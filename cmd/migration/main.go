package main

import (
	"flag"
	"log"
	"os"

	"github.com/hugohenrick/pdv-sync/internal/config"
	"github.com/hugohenrick/pdv-sync/internal/infrastructure/database"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "arquivo .env (padrão: .env do diretório atual)")
	down := flag.Int("down", 0, "quantidade de migrações a desfazer")
	flag.Parse()

	// Carregar variáveis de ambiente
	dbCfg, logLevel, err := config.LoadDatabase(*envFile)
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	appLogger, err := logger.NewLogger(logLevel)
	if err != nil {
		log.Fatalf("Erro ao criar logger: %v", err)
	}
	defer appLogger.Sync()

	if *down > 0 {
		if err := database.RollbackMigrations(dbCfg.URL, *down, appLogger); err != nil {
			appLogger.Error("erro ao desfazer migrações", "error", err.Error())
			os.Exit(1)
		}
		return
	}

	// Executar as migrações
	if err := database.RunMigrations(dbCfg.URL, appLogger); err != nil {
		appLogger.Error("erro ao executar migrações", "error", err.Error())
		os.Exit(1)
	}
}
