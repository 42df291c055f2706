package ledger

import (
	"fmt"
	"strings"

	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Shortfall descreve um item que deixaria o estoque negativo
type Shortfall struct {
	ProductID string          `json:"productId"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

// InsufficientStockError aborta a operação inteira e nomeia cada item em falta
type InsufficientStockError struct {
	Lines []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, fmt.Sprintf("%s (solicitado %s, disponível %s)", l.ProductID, l.Requested, l.Available))
	}
	return "estoque insuficiente: " + strings.Join(parts, "; ")
}

// ErrorKind classifica o erro na taxonomia da aplicação
func (e *InsufficientStockError) ErrorKind() apperror.Kind {
	return apperror.KindInsufficientStock
}

// Is permite errors.Is(err, apperror.ErrInsufficientStock)
func (e *InsufficientStockError) Is(target error) bool {
	t, ok := target.(*apperror.Error)
	return ok && t.Kind == apperror.KindInsufficientStock
}

// StockWarning é o aviso não fatal emitido quando a loja permite estoque negativo
type StockWarning struct {
	ProductID string          `json:"productId"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
	Resulting decimal.Decimal `json:"resulting"`
}

// ProductIDs retorna os produtos em falta
func (e *InsufficientStockError) ProductIDs() []string {
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}
