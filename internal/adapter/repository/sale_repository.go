package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/pdv-sync/internal/domain/sale"
	"github.com/jackc/pgx/v5"
)

const invoiceColumns = `id::text, shop_id, COALESCE(client_event_id, ''), COALESCE(customer_id, ''), user_id,
	payment_mode, status, subtotal, discount, total, amount_paid, COALESCE(void_reason, ''), voided_at, created_at`

// InsertInvoice implementa sale.Repository.InsertInvoice
func (t *pgTx) InsertInvoice(ctx context.Context, inv *sale.Invoice) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO invoices (id, shop_id, client_event_id, customer_id, user_id, payment_mode, status,
			subtotal, discount, total, amount_paid, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12)`,
		inv.ID, inv.ShopID, inv.ClientEventID, inv.CustomerID, inv.UserID, inv.PaymentMode, inv.Status,
		inv.Subtotal, inv.Discount, inv.Total, inv.AmountPaid, inv.CreatedAt)
	if err != nil {
		return mapError(err, "venda", inv.ID)
	}

	batch := &pgx.Batch{}
	for i, l := range inv.Lines {
		batch.Queue(
			`INSERT INTO invoice_lines (id, invoice_id, product_id, qty, unit_price, discount, total, track_stock, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.ID, inv.ID, l.ProductID, l.Qty, l.UnitPrice, l.Discount, l.Total, l.TrackStock, i)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "itens da venda", inv.ID)
	}
	return nil
}

func (t *pgTx) findInvoice(ctx context.Context, where string, args ...interface{}) (*sale.Invoice, error) {
	var inv sale.Invoice
	err := t.tx.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE `+where, args...).Scan(
		&inv.ID, &inv.ShopID, &inv.ClientEventID, &inv.CustomerID, &inv.UserID,
		&inv.PaymentMode, &inv.Status, &inv.Subtotal, &inv.Discount, &inv.Total, &inv.AmountPaid,
		&inv.VoidReason, &inv.VoidedAt, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := t.tx.Query(ctx,
		`SELECT id::text, invoice_id::text, product_id, qty, unit_price, discount, total, track_stock
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY position`, inv.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l sale.Line
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Qty, &l.UnitPrice, &l.Discount, &l.Total, &l.TrackStock); err != nil {
			return nil, fmt.Errorf("erro ao ler item da venda: %w", err)
		}
		inv.Lines = append(inv.Lines, l)
	}
	return &inv, rows.Err()
}

// FindInvoice implementa sale.Repository.FindInvoice
func (t *pgTx) FindInvoice(ctx context.Context, shopID, id string) (*sale.Invoice, error) {
	inv, err := t.findInvoice(ctx, `shop_id = $1 AND id::text = $2`, shopID, id)
	if err != nil {
		return nil, mapError(err, "venda", id)
	}
	return inv, nil
}

// FindInvoiceForUpdate implementa sale.Repository.FindInvoiceForUpdate
func (t *pgTx) FindInvoiceForUpdate(ctx context.Context, shopID, id string) (*sale.Invoice, error) {
	inv, err := t.findInvoice(ctx, `shop_id = $1 AND id::text = $2 FOR UPDATE`, shopID, id)
	if err != nil {
		return nil, mapError(err, "venda", id)
	}
	return inv, nil
}

// FindInvoiceByClientEvent implementa sale.Repository.FindInvoiceByClientEvent
func (t *pgTx) FindInvoiceByClientEvent(ctx context.Context, shopID, clientEventID string) (*sale.Invoice, error) {
	inv, err := t.findInvoice(ctx, `shop_id = $1 AND client_event_id = $2`, shopID, clientEventID)
	if err != nil {
		return nil, mapError(err, "venda", clientEventID)
	}
	return inv, nil
}

// MarkInvoiceVoided implementa sale.Repository.MarkInvoiceVoided
func (t *pgTx) MarkInvoiceVoided(ctx context.Context, inv *sale.Invoice) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE invoices SET status = $1, void_reason = $2, voided_at = $3
		WHERE shop_id = $4 AND id = $5 AND status = $6`,
		inv.Status, inv.VoidReason, inv.VoidedAt, inv.ShopID, inv.ID, sale.StatusCompleted)
	if err != nil {
		return mapError(err, "venda", inv.ID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "venda", inv.ID)
	}
	return nil
}
