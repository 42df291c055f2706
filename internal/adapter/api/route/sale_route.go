package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-sync/pkg/auth"
)

// RegisterSaleRoutes registra as rotas de vendas
func RegisterSaleRoutes(r *gin.RouterGroup, saleController *controller.SaleController) {
	sales := r.Group("/sales")
	{
		sales.POST("", saleController.Create)
		sales.GET("/:id", saleController.Get)
		sales.POST("/:id/void", auth.RoleAuthMiddleware(supervisorRoles...), saleController.Void)
	}
}

// RegisterPurchaseRoutes registra as rotas de compras
func RegisterPurchaseRoutes(r *gin.RouterGroup, purchaseController *controller.PurchaseController) {
	purchases := r.Group("/purchases")
	{
		purchases.POST("", purchaseController.Create)
		purchases.POST("/:id/void", auth.RoleAuthMiddleware(supervisorRoles...), purchaseController.Void)
	}
}

// RegisterExpenseRoutes registra as rotas de despesas
func RegisterExpenseRoutes(r *gin.RouterGroup, expenseController *controller.ExpenseController) {
	r.POST("/expenses", expenseController.Create)
}
