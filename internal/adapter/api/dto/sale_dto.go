package dto

import (
	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/internal/domain/sale"
)

// VoidRequest é o corpo dos cancelamentos
type VoidRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// SaleResponse é o retorno da gravação de uma venda
type SaleResponse struct {
	Invoice       *sale.Invoice         `json:"invoice"`
	StockWarnings []ledger.StockWarning `json:"stockWarnings,omitempty"`
	Replayed      bool                  `json:"replayed"`
}

// ToSaleResponse converte o resultado do serviço
func ToSaleResponse(res *sale.Result) SaleResponse {
	return SaleResponse{
		Invoice:       res.Invoice,
		StockWarnings: res.StockWarnings,
		Replayed:      res.Replayed,
	}
}
