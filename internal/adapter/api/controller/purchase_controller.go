package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-sync/internal/domain/purchase"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
	"github.com/hugohenrick/pdv-sync/pkg/validation"
)

// PurchaseController gerencia as entradas de mercadoria
type PurchaseController struct {
	service LedgerService
	logger  logger.Logger
}

// NewPurchaseController cria uma nova instância de PurchaseController
func NewPurchaseController(s LedgerService, log logger.Logger) *PurchaseController {
	return &PurchaseController{
		service: s,
		logger:  log,
	}
}

// Create grava uma compra
// @Summary Registrar compra
// @Tags purchases
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param purchase body purchase.Input true "Dados da compra"
// @Success 201 {object} dto.PurchaseResponse
// @Success 200 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /purchases [post]
func (c *PurchaseController) Create(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var in purchase.Input
	if !bindJSON(ctx, &in, validation.Struct) {
		return
	}

	res, err := c.service.CreatePurchase(ctx.Request.Context(), p.CurrentShopID, p.UserID, in)
	if err != nil {
		respondError(ctx, c.logger, "erro ao registrar compra", err)
		return
	}

	ctx.JSON(createdOrReplayed(res.Replayed), dto.ToPurchaseResponse(res))
}

// Void cancela uma compra
// @Summary Cancelar compra
// @Description Falha com estoque insuficiente se a mercadoria já tiver sido vendida e a loja não permitir estoque negativo
// @Tags purchases
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da compra"
// @Param request body dto.VoidRequest true "Motivo"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /purchases/{id}/void [post]
func (c *PurchaseController) Void(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.VoidRequest
	if !bindJSON(ctx, &req, nil) {
		return
	}

	res, err := c.service.VoidPurchase(ctx.Request.Context(), p.CurrentShopID, ctx.Param("id"), p.UserID, req.Reason)
	if err != nil {
		respondError(ctx, c.logger, "erro ao cancelar compra", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseResponse(res))
}
