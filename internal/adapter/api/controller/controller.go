// Package controller expõe o razão e o endpoint de sincronização via gin.
package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-sync/internal/domain/customer"
	"github.com/hugohenrick/pdv-sync/internal/domain/expense"
	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/internal/domain/purchase"
	"github.com/hugohenrick/pdv-sync/internal/domain/sale"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
	"github.com/hugohenrick/pdv-sync/pkg/shopctx"
	"github.com/shopspring/decimal"
)

// LedgerService reúne as operações do razão usadas pelos controllers
type LedgerService interface {
	CreateSale(ctx context.Context, shopID, userID string, in sale.Input) (*sale.Result, error)
	VoidSale(ctx context.Context, shopID, invoiceID, userID, reason string) (*sale.Invoice, error)
	GetInvoice(ctx context.Context, shopID, invoiceID string) (*sale.Invoice, error)

	CreatePurchase(ctx context.Context, shopID, userID string, in purchase.Input) (*purchase.Result, error)
	VoidPurchase(ctx context.Context, shopID, purchaseID, userID, reason string) (*purchase.Result, error)

	CreateStockAdjustment(ctx context.Context, shopID, userID string, in inventory.AdjustmentInput) (*inventory.AdjustmentResult, error)
	GetStock(ctx context.Context, shopID, productID string) (*ledger.StockLevel, error)
	ListStock(ctx context.Context, shopID string) ([]ledger.StockLevel, error)
	StockLedger(ctx context.Context, shopID, productID string) ([]ledger.StockLedgerEntry, error)

	CreateCustomer(ctx context.Context, shopID, userID string, in customer.Input) (*customer.Result, error)
	RecordUdhaarPayment(ctx context.Context, shopID, userID string, in customer.PaymentInput) (*customer.PaymentResult, error)
	CustomerBalance(ctx context.Context, shopID, customerID string) (decimal.Decimal, error)
	CustomerLedger(ctx context.Context, shopID, customerID string) ([]ledger.CustomerLedgerEntry, error)

	CreateExpense(ctx context.Context, shopID, userID string, in expense.Input) (*expense.Result, error)
}

// principal obtém o usuário autenticado; sem ele responde 401
func principal(ctx *gin.Context) (shopctx.Principal, bool) {
	p, err := shopctx.FromContext(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Autenticação requerida", err.Error()))
		return shopctx.Principal{}, false
	}
	return p, true
}

// respondError escreve a resposta de erro e registra as falhas internas
func respondError(ctx *gin.Context, log logger.Logger, message string, err error) {
	status, resp := dto.FromError(message, err)
	if status == http.StatusInternalServerError {
		log.Error(message, "path", ctx.FullPath(), "error", err.Error())
	}
	ctx.JSON(status, resp)
}

// createdOrReplayed devolve 200 para um evento já aplicado e 201 para um novo
func createdOrReplayed(replayed bool) int {
	if replayed {
		return http.StatusOK
	}
	return http.StatusCreated
}

func badRequest(ctx *gin.Context, message string, err error) {
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, message, err.Error()))
	ctx.Abort()
}

// bindJSON decodifica o corpo e aplica as tags validate da entrada
func bindJSON(ctx *gin.Context, dst interface{}, validate func(interface{}) error) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		badRequest(ctx, "dados inválidos", err)
		return false
	}
	if validate != nil {
		if err := validate(dst); err != nil {
			status, resp := dto.FromError("dados inválidos", err)
			ctx.JSON(status, resp)
			return false
		}
	}
	return true
}

