package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-sync/internal/domain/sale"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
	"github.com/hugohenrick/pdv-sync/pkg/validation"
)

// SaleController gerencia as requisições de vendas
type SaleController struct {
	service LedgerService
	logger  logger.Logger
}

// NewSaleController cria uma nova instância de SaleController
func NewSaleController(s LedgerService, log logger.Logger) *SaleController {
	return &SaleController{
		service: s,
		logger:  log,
	}
}

// Create grava uma venda
// @Summary Registrar venda
// @Description Grava a nota, baixa o estoque e lança o fiado em uma única transação. Reenvios com o mesmo client_event_id devolvem a venda original.
// @Tags sales
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param sale body sale.Input true "Dados da venda"
// @Success 201 {object} dto.SaleResponse
// @Success 200 {object} dto.SaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales [post]
func (c *SaleController) Create(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var in sale.Input
	if !bindJSON(ctx, &in, validation.Struct) {
		return
	}

	res, err := c.service.CreateSale(ctx.Request.Context(), p.CurrentShopID, p.UserID, in)
	if err != nil {
		respondError(ctx, c.logger, "erro ao registrar venda", err)
		return
	}

	ctx.JSON(createdOrReplayed(res.Replayed), dto.ToSaleResponse(res))
}

// Get retorna uma venda pelo ID
// @Summary Buscar venda
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da venda"
// @Success 200 {object} sale.Invoice
// @Failure 404 {object} dto.ErrorResponse
// @Router /sales/{id} [get]
func (c *SaleController) Get(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	inv, err := c.service.GetInvoice(ctx.Request.Context(), p.CurrentShopID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao buscar venda", err)
		return
	}

	ctx.JSON(http.StatusOK, inv)
}

// Void cancela uma venda
// @Summary Cancelar venda
// @Description Estorna estoque e fiado da venda com lançamentos de reversão
// @Tags sales
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da venda"
// @Param request body dto.VoidRequest true "Motivo"
// @Success 200 {object} sale.Invoice
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sales/{id}/void [post]
func (c *SaleController) Void(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.VoidRequest
	if !bindJSON(ctx, &req, nil) {
		return
	}

	inv, err := c.service.VoidSale(ctx.Request.Context(), p.CurrentShopID, ctx.Param("id"), p.UserID, req.Reason)
	if err != nil {
		respondError(ctx, c.logger, "erro ao cancelar venda", err)
		return
	}

	ctx.JSON(http.StatusOK, inv)
}
