package purchase

import "context"

// Repository define o acesso a compras
type Repository interface {
	InsertPurchase(ctx context.Context, p *Purchase) error
	FindPurchase(ctx context.Context, shopID, id string) (*Purchase, error)
	FindPurchaseForUpdate(ctx context.Context, shopID, id string) (*Purchase, error)
	FindPurchaseByClientEvent(ctx context.Context, shopID, clientEventID string) (*Purchase, error)
	MarkPurchaseVoided(ctx context.Context, p *Purchase) error
}
