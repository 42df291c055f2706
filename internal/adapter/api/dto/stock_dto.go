package dto

import (
	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// StockListResponse lista o estoque calculado da loja
type StockListResponse struct {
	Items []ledger.StockLevel `json:"items"`
	Total int                 `json:"total"`
}

// StockLedgerResponse é o extrato de um produto
type StockLedgerResponse struct {
	ProductID string                    `json:"product_id"`
	Quantity  decimal.Decimal           `json:"quantity"`
	Entries   []ledger.StockLedgerEntry `json:"entries"`
}

// NewStockLedgerResponse soma os lançamentos do extrato
func NewStockLedgerResponse(productID string, entries []ledger.StockLedgerEntry) StockLedgerResponse {
	if entries == nil {
		entries = []ledger.StockLedgerEntry{}
	}
	return StockLedgerResponse{
		ProductID: productID,
		Quantity:  ledger.SumStock(entries),
		Entries:   entries,
	}
}

// AdjustmentResponse é o retorno de um ajuste de estoque
type AdjustmentResponse struct {
	Adjustment    *inventory.Adjustment `json:"adjustment"`
	StockWarnings []ledger.StockWarning `json:"stockWarnings,omitempty"`
	Replayed      bool                  `json:"replayed"`
}

// ToAdjustmentResponse converte o resultado do serviço
func ToAdjustmentResponse(res *inventory.AdjustmentResult) AdjustmentResponse {
	return AdjustmentResponse{
		Adjustment:    res.Adjustment,
		StockWarnings: res.StockWarnings,
		Replayed:      res.Replayed,
	}
}
