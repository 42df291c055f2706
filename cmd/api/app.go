package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/docs"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/route"
	"github.com/hugohenrick/pdv-sync/internal/adapter/repository"
	"github.com/hugohenrick/pdv-sync/internal/adapter/repository/memory"
	"github.com/hugohenrick/pdv-sync/internal/config"
	"github.com/hugohenrick/pdv-sync/internal/domain/store"
	"github.com/hugohenrick/pdv-sync/internal/domain/syncevent"
	"github.com/hugohenrick/pdv-sync/internal/infrastructure/database"
	"github.com/hugohenrick/pdv-sync/internal/service/ledger"
	"github.com/hugohenrick/pdv-sync/internal/service/reconcile"
	"github.com/hugohenrick/pdv-sync/pkg/auth"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
	"github.com/hugohenrick/pdv-sync/pkg/shopctx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const version = "1.0.0"

// App representa a aplicação e suas dependências
type App struct {
	cfg    *config.Config
	logger logger.Logger
	router *gin.Engine
	server *http.Server
	db     *database.PostgresDB
	store  store.Store
}

// NewApp cria uma nova instância do aplicativo
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	app := &App{cfg: cfg, logger: log}

	if err := app.setupStore(ctx); err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Expiration)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Criar serviços
	writer := ledger.NewWriter(app.store, log)
	reconciler := reconcile.NewService(writer, cfg.Sync.MaxBatch, log)

	// Configurar router com modo correto
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	route.Setup(router, jwtService, route.Controllers{
		Health:   controller.NewHealthController(app.store, version),
		Sync:     controller.NewSyncController(reconciler, log.Named("http")),
		Sale:     controller.NewSaleController(writer, log.Named("http")),
		Purchase: controller.NewPurchaseController(writer, log.Named("http")),
		Stock:    controller.NewStockController(writer, log.Named("http")),
		Customer: controller.NewCustomerController(writer, log.Named("http")),
		Expense:  controller.NewExpenseController(writer, log.Named("http")),
	})

	docs.SwaggerInfo.Host = ""
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	app.router = router
	app.server = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return app, nil
}

// setupStore abre o PostgreSQL ou o armazenamento em memória conforme STORE_DRIVER
func (a *App) setupStore(ctx context.Context) error {
	if a.cfg.Database.Driver == "memory" {
		mem := memory.NewStore()
		if a.cfg.Database.SeedFile != "" {
			n, err := loadSeed(mem, a.cfg.Database.SeedFile)
			if err != nil {
				return err
			}
			a.logger.Info("cadastro inicial carregado", "products", n)
		}
		a.logger.Warn("usando armazenamento em memória; os dados serão perdidos ao encerrar")
		a.store = mem
		return nil
	}

	if a.cfg.Database.AutoMigrate {
		if err := database.RunMigrations(a.cfg.Database.URL, a.logger); err != nil {
			return err
		}
	}

	db, err := database.NewPostgresDB(ctx, a.cfg.Database, a.logger)
	if err != nil {
		return err
	}
	a.db = db
	a.store = repository.NewStore(db)
	return nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Device-ID", shopctx.HeaderShopID},
		ExposeHeaders:    []string{"Content-Length", syncevent.HeaderMaxBatch},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Router retorna o router da aplicação
func (a *App) Router() *gin.Engine {
	return a.router
}

// Start inicia o servidor e bloqueia até ctx ser cancelado
func (a *App) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("servidor iniciado", "port", a.cfg.Server.Port, "driver", a.cfg.Database.Driver)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("erro ao iniciar servidor: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("encerrando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
