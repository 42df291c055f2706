package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/pdv-sync/internal/domain/purchase"
	"github.com/jackc/pgx/v5"
)

const purchaseColumns = `id::text, shop_id, COALESCE(client_event_id, ''), COALESCE(supplier_name, ''),
	COALESCE(invoice_number, ''), user_id, status, total, COALESCE(void_reason, ''), voided_at, created_at`

// InsertPurchase implementa purchase.Repository.InsertPurchase
func (t *pgTx) InsertPurchase(ctx context.Context, p *purchase.Purchase) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO purchases (id, shop_id, client_event_id, supplier_name, invoice_number, user_id, status, total, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9)`,
		p.ID, p.ShopID, p.ClientEventID, p.SupplierName, p.InvoiceNumber, p.UserID, p.Status, p.Total, p.CreatedAt)
	if err != nil {
		return mapError(err, "compra", p.ID)
	}

	batch := &pgx.Batch{}
	for i, l := range p.Lines {
		batch.Queue(
			`INSERT INTO purchase_lines (id, purchase_id, product_id, qty, unit_cost, total, track_stock, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, p.ID, l.ProductID, l.Qty, l.UnitCost, l.Total, l.TrackStock, i)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "itens da compra", p.ID)
	}
	return nil
}

func (t *pgTx) findPurchase(ctx context.Context, where string, args ...interface{}) (*purchase.Purchase, error) {
	var p purchase.Purchase
	err := t.tx.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE `+where, args...).Scan(
		&p.ID, &p.ShopID, &p.ClientEventID, &p.SupplierName, &p.InvoiceNumber, &p.UserID,
		&p.Status, &p.Total, &p.VoidReason, &p.VoidedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := t.tx.Query(ctx,
		`SELECT id::text, purchase_id::text, product_id, qty, unit_cost, total, track_stock
		FROM purchase_lines WHERE purchase_id = $1 ORDER BY position`, p.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l purchase.Line
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.ProductID, &l.Qty, &l.UnitCost, &l.Total, &l.TrackStock); err != nil {
			return nil, fmt.Errorf("erro ao ler item da compra: %w", err)
		}
		p.Lines = append(p.Lines, l)
	}
	return &p, rows.Err()
}

// FindPurchase implementa purchase.Repository.FindPurchase
func (t *pgTx) FindPurchase(ctx context.Context, shopID, id string) (*purchase.Purchase, error) {
	p, err := t.findPurchase(ctx, `shop_id = $1 AND id::text = $2`, shopID, id)
	if err != nil {
		return nil, mapError(err, "compra", id)
	}
	return p, nil
}

// FindPurchaseForUpdate implementa purchase.Repository.FindPurchaseForUpdate
func (t *pgTx) FindPurchaseForUpdate(ctx context.Context, shopID, id string) (*purchase.Purchase, error) {
	p, err := t.findPurchase(ctx, `shop_id = $1 AND id::text = $2 FOR UPDATE`, shopID, id)
	if err != nil {
		return nil, mapError(err, "compra", id)
	}
	return p, nil
}

// FindPurchaseByClientEvent implementa purchase.Repository.FindPurchaseByClientEvent
func (t *pgTx) FindPurchaseByClientEvent(ctx context.Context, shopID, clientEventID string) (*purchase.Purchase, error) {
	p, err := t.findPurchase(ctx, `shop_id = $1 AND client_event_id = $2`, shopID, clientEventID)
	if err != nil {
		return nil, mapError(err, "compra", clientEventID)
	}
	return p, nil
}

// MarkPurchaseVoided implementa purchase.Repository.MarkPurchaseVoided
func (t *pgTx) MarkPurchaseVoided(ctx context.Context, p *purchase.Purchase) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE purchases SET status = $1, void_reason = $2, voided_at = $3
		WHERE shop_id = $4 AND id = $5 AND status = $6`,
		p.Status, p.VoidReason, p.VoidedAt, p.ShopID, p.ID, purchase.StatusCompleted)
	if err != nil {
		return mapError(err, "compra", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "compra", p.ID)
	}
	return nil
}
