package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger verifica a disponibilidade do armazenamento
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController responde a consulta de saúde usada pelo PDV
type HealthController struct {
	store   Pinger
	version string
}

// NewHealthController cria uma nova instância de HealthController
func NewHealthController(p Pinger, version string) *HealthController {
	return &HealthController{store: p, version: version}
}

// Health verifica se o servidor e o banco estão respondendo
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.store.Ping(pingCtx); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": c.version,
	})
}
