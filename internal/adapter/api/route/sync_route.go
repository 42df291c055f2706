package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/controller"
)

// RegisterSyncRoutes registra o endpoint de reconciliação em lote
func RegisterSyncRoutes(r *gin.RouterGroup, syncController *controller.SyncController) {
	sync := r.Group("/sync")
	{
		sync.POST("/:type", syncController.Sync)
	}
}
