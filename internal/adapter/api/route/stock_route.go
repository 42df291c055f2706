package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-sync/pkg/auth"
)

// RegisterStockRoutes registra as rotas de estoque
func RegisterStockRoutes(r *gin.RouterGroup, stockController *controller.StockController) {
	stock := r.Group("/stock")
	{
		stock.GET("", stockController.List)
		stock.GET("/:productId/ledger", stockController.Ledger)
	}
	r.POST("/stock-adjustments", auth.RoleAuthMiddleware(supervisorRoles...), stockController.Adjust)
}
