package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-sync/internal/domain/expense"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
	"github.com/hugohenrick/pdv-sync/pkg/validation"
)

// ExpenseController lança as despesas do caixa
type ExpenseController struct {
	service LedgerService
	logger  logger.Logger
}

// NewExpenseController cria uma nova instância de ExpenseController
func NewExpenseController(s LedgerService, log logger.Logger) *ExpenseController {
	return &ExpenseController{
		service: s,
		logger:  log,
	}
}

// Create lança uma despesa do caixa
// @Summary Lançar despesa
// @Tags expenses
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param expense body expense.Input true "Despesa"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /expenses [post]
func (c *ExpenseController) Create(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var in expense.Input
	if !bindJSON(ctx, &in, validation.Struct) {
		return
	}

	res, err := c.service.CreateExpense(ctx.Request.Context(), p.CurrentShopID, p.UserID, in)
	if err != nil {
		respondError(ctx, c.logger, "erro ao lançar despesa", err)
		return
	}

	ctx.JSON(createdOrReplayed(res.Replayed), dto.ExpenseResponse{Expense: res.Expense, Replayed: res.Replayed})
}
