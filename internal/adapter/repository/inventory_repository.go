package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	"github.com/hugohenrick/pdv-sync/internal/domain/shop"
)

// ShopSettings implementa shop.Repository.ShopSettings
func (t *pgTx) ShopSettings(ctx context.Context, shopID string) (shop.Settings, error) {
	settings := shop.DefaultSettings(shopID)
	rows, err := t.tx.Query(ctx,
		`SELECT allow_negative_stock FROM shop_settings WHERE shop_id = $1`, shopID)
	if err != nil {
		return settings, mapError(err, "configuração da loja", shopID)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&settings.AllowNegativeStock); err != nil {
			return settings, fmt.Errorf("erro ao ler configuração da loja: %w", err)
		}
	}
	return settings, rows.Err()
}

// ProductsByIDs implementa inventory.Repository.ProductsByIDs
func (t *pgTx) ProductsByIDs(ctx context.Context, shopID string, ids []string) (map[string]inventory.Product, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT id, shop_id, name, COALESCE(sku, ''), price, track_stock, created_at
		FROM products WHERE shop_id = $1 AND id = ANY($2)`, shopID, ids)
	if err != nil {
		return nil, mapError(err, "produto", shopID)
	}
	defer rows.Close()

	products := make(map[string]inventory.Product, len(ids))
	for rows.Next() {
		var p inventory.Product
		if err := rows.Scan(&p.ID, &p.ShopID, &p.Name, &p.SKU, &p.Price, &p.TrackStock, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler produto: %w", err)
		}
		products[p.ID] = p
	}
	return products, rows.Err()
}

// InsertAdjustment implementa inventory.Repository.InsertAdjustment
func (t *pgTx) InsertAdjustment(ctx context.Context, a *inventory.Adjustment) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO stock_adjustments (id, shop_id, client_event_id, product_id, kind, change_qty,
			reason, created_by, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)`,
		a.ID, a.ShopID, a.ClientEventID, a.ProductID, a.Kind, a.ChangeQty, a.Reason, a.CreatedBy, a.CreatedAt)
	return mapError(err, "ajuste", a.ID)
}

// FindAdjustmentByClientEvent implementa inventory.Repository.FindAdjustmentByClientEvent
func (t *pgTx) FindAdjustmentByClientEvent(ctx context.Context, shopID, clientEventID string) (*inventory.Adjustment, error) {
	var a inventory.Adjustment
	err := t.tx.QueryRow(ctx,
		`SELECT id::text, shop_id, client_event_id, product_id, kind, change_qty, reason, created_by, created_at
		FROM stock_adjustments WHERE shop_id = $1 AND client_event_id = $2`,
		shopID, clientEventID).Scan(
		&a.ID, &a.ShopID, &a.ClientEventID, &a.ProductID, &a.Kind, &a.ChangeQty,
		&a.Reason, &a.CreatedBy, &a.CreatedAt)
	if err != nil {
		return nil, mapError(err, "ajuste", clientEventID)
	}
	return &a, nil
}
