package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-sync/internal/domain/customer"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
	"github.com/hugohenrick/pdv-sync/pkg/validation"
)

// CustomerController gerencia clientes de fiado e seus recebimentos
type CustomerController struct {
	service LedgerService
	logger  logger.Logger
}

// NewCustomerController cria uma nova instância de CustomerController
func NewCustomerController(s LedgerService, log logger.Logger) *CustomerController {
	return &CustomerController{
		service: s,
		logger:  log,
	}
}

// Create cadastra um cliente
// @Summary Criar cliente
// @Description Cadastra o cliente e lança o saldo inicial no razão
// @Tags customers
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param customer body customer.Input true "Dados do cliente"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /customers [post]
func (c *CustomerController) Create(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var in customer.Input
	if !bindJSON(ctx, &in, validation.Struct) {
		return
	}

	res, err := c.service.CreateCustomer(ctx.Request.Context(), p.CurrentShopID, p.UserID, in)
	if err != nil {
		respondError(ctx, c.logger, "erro ao criar cliente", err)
		return
	}

	ctx.JSON(createdOrReplayed(res.Replayed), dto.CustomerResponse{Customer: res.Customer, Replayed: res.Replayed})
}

// Pay registra um recebimento de fiado
// @Summary Receber fiado
// @Tags customers
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payment body customer.PaymentInput true "Recebimento"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /udhaar-payments [post]
func (c *CustomerController) Pay(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var in customer.PaymentInput
	if !bindJSON(ctx, &in, validation.Struct) {
		return
	}

	res, err := c.service.RecordUdhaarPayment(ctx.Request.Context(), p.CurrentShopID, p.UserID, in)
	if err != nil {
		respondError(ctx, c.logger, "erro ao registrar recebimento", err)
		return
	}

	ctx.JSON(createdOrReplayed(res.Replayed), dto.PaymentResponse{
		Payment:  res.Payment,
		Balance:  res.Balance,
		Replayed: res.Replayed,
	})
}

// Balance retorna o saldo devedor do cliente
// @Summary Saldo do cliente
// @Tags customers
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do cliente"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /customers/{id}/balance [get]
func (c *CustomerController) Balance(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	id := ctx.Param("id")
	balance, err := c.service.CustomerBalance(ctx.Request.Context(), p.CurrentShopID, id)
	if err != nil {
		respondError(ctx, c.logger, "erro ao consultar saldo", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.BalanceResponse{CustomerID: id, Balance: balance})
}

// Ledger retorna o extrato do cliente
// @Summary Extrato do cliente
// @Tags customers
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do cliente"
// @Success 200 {object} dto.CustomerLedgerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /customers/{id}/ledger [get]
func (c *CustomerController) Ledger(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	id := ctx.Param("id")
	entries, err := c.service.CustomerLedger(ctx.Request.Context(), p.CurrentShopID, id)
	if err != nil {
		respondError(ctx, c.logger, "erro ao consultar extrato", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewCustomerLedgerResponse(id, entries))
}
