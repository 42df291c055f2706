package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
	"github.com/hugohenrick/pdv-sync/pkg/validation"
)

// StockController consulta e ajusta o estoque
type StockController struct {
	service LedgerService
	logger  logger.Logger
}

// NewStockController cria uma nova instância de StockController
func NewStockController(s LedgerService, log logger.Logger) *StockController {
	return &StockController{
		service: s,
		logger:  log,
	}
}

// List retorna o estoque calculado
// @Summary Consultar estoque
// @Description Sem productId lista todos os produtos com movimento.
// @Description Com productId a resposta mantém o mesmo formato: items com um único elemento e total 1.
// @Tags stock
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param productId query string false "ID do produto"
// @Success 200 {object} dto.StockListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stock [get]
func (c *StockController) List(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	if productID := ctx.Query("productId"); productID != "" {
		level, err := c.service.GetStock(ctx.Request.Context(), p.CurrentShopID, productID)
		if err != nil {
			respondError(ctx, c.logger, "erro ao consultar estoque", err)
			return
		}
		ctx.JSON(http.StatusOK, dto.StockListResponse{Items: []ledger.StockLevel{*level}, Total: 1})
		return
	}

	levels, err := c.service.ListStock(ctx.Request.Context(), p.CurrentShopID)
	if err != nil {
		respondError(ctx, c.logger, "erro ao consultar estoque", err)
		return
	}
	if levels == nil {
		levels = []ledger.StockLevel{}
	}

	ctx.JSON(http.StatusOK, dto.StockListResponse{Items: levels, Total: len(levels)})
}

// Ledger retorna o extrato de estoque de um produto
// @Summary Extrato de estoque
// @Tags stock
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param productId path string true "ID do produto"
// @Success 200 {object} dto.StockLedgerResponse
// @Router /stock/{productId}/ledger [get]
func (c *StockController) Ledger(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	productID := ctx.Param("productId")
	entries, err := c.service.StockLedger(ctx.Request.Context(), p.CurrentShopID, productID)
	if err != nil {
		respondError(ctx, c.logger, "erro ao consultar extrato", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStockLedgerResponse(productID, entries))
}

// Adjust grava um ajuste manual de estoque
// @Summary Ajustar estoque
// @Tags stock
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param adjustment body inventory.AdjustmentInput true "Ajuste"
// @Success 201 {object} dto.AdjustmentResponse
// @Success 200 {object} dto.AdjustmentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /stock-adjustments [post]
func (c *StockController) Adjust(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var in inventory.AdjustmentInput
	if !bindJSON(ctx, &in, validation.Struct) {
		return
	}

	res, err := c.service.CreateStockAdjustment(ctx.Request.Context(), p.CurrentShopID, p.UserID, in)
	if err != nil {
		respondError(ctx, c.logger, "erro ao ajustar estoque", err)
		return
	}

	ctx.JSON(createdOrReplayed(res.Replayed), dto.ToAdjustmentResponse(res))
}
