package dto

import (
	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/internal/domain/purchase"
)

// PurchaseResponse é o retorno da gravação ou cancelamento de uma compra
type PurchaseResponse struct {
	Purchase      *purchase.Purchase    `json:"purchase"`
	StockWarnings []ledger.StockWarning `json:"stockWarnings,omitempty"`
	Replayed      bool                  `json:"replayed"`
}

// ToPurchaseResponse converte o resultado do serviço
func ToPurchaseResponse(res *purchase.Result) PurchaseResponse {
	return PurchaseResponse{
		Purchase:      res.Purchase,
		StockWarnings: res.StockWarnings,
		Replayed:      res.Replayed,
	}
}
