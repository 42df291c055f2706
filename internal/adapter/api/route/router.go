// Package route monta as rotas HTTP do servidor de registro.
package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-sync/pkg/auth"
)

// Controllers agrupa os controllers expostos pela API
type Controllers struct {
	Health   *controller.HealthController
	Sync     *controller.SyncController
	Sale     *controller.SaleController
	Purchase *controller.PurchaseController
	Stock    *controller.StockController
	Customer *controller.CustomerController
	Expense  *controller.ExpenseController
}

// supervisorRoles podem estornar documentos e ajustar estoque pelas rotas online
var supervisorRoles = []string{"owner", "manager", "admin"}

// Setup registra /health fora da autenticação e o restante em /api/v1 com JWT
func Setup(router *gin.Engine, jwtService *auth.JWTService, c Controllers) {
	router.GET("/health", c.Health.Health)

	v1 := router.Group("/api/v1")
	v1.GET("/health", c.Health.Health)

	protected := v1.Group("")
	protected.Use(auth.JWTAuthMiddleware(jwtService))

	RegisterSyncRoutes(protected, c.Sync)
	RegisterSaleRoutes(protected, c.Sale)
	RegisterPurchaseRoutes(protected, c.Purchase)
	RegisterExpenseRoutes(protected, c.Expense)
	RegisterStockRoutes(protected, c.Stock)
	RegisterCustomerRoutes(protected, c.Customer)
}
