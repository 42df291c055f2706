package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/controller"
)

// RegisterCustomerRoutes registra as rotas de clientes e recebimentos de fiado
func RegisterCustomerRoutes(r *gin.RouterGroup, customerController *controller.CustomerController) {
	customers := r.Group("/customers")
	{
		customers.POST("", customerController.Create)
		customers.GET("/:id/balance", customerController.Balance)
		customers.GET("/:id/ledger", customerController.Ledger)
	}
	r.POST("/udhaar-payments", customerController.Pay)
}
