package inventory

import "context"

// Repository define o acesso a produtos e ajustes dentro de uma transação
type Repository interface {
	// ProductsByIDs busca os produtos informados; ausentes não aparecem no mapa
	ProductsByIDs(ctx context.Context, shopID string, ids []string) (map[string]Product, error)

	// InsertAdjustment grava o cabeçalho do ajuste
	InsertAdjustment(ctx context.Context, a *Adjustment) error

	// FindAdjustmentByClientEvent busca um ajuste pela chave de idempotência
	FindAdjustmentByClientEvent(ctx context.Context, shopID, clientEventID string) (*Adjustment, error)
}
