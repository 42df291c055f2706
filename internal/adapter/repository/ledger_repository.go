package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const stockColumns = `id::text, shop_id, product_id, change_qty, type, COALESCE(ref_type, ''),
	COALESCE(ref_id, ''), COALESCE(reverses_id::text, ''), COALESCE(created_by, ''), created_at`

const customerColumns = `id::text, shop_id, customer_id, type, direction, amount, COALESCE(ref_type, ''),
	COALESCE(ref_id, ''), COALESCE(reverses_id::text, ''), COALESCE(created_by, ''), created_at`

// StockOf implementa ledger.Reader.StockOf com a mesma soma de ledger.SumStock
func (t *pgTx) StockOf(ctx context.Context, shopID, productID string) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := t.tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(change_qty), 0)::text FROM stock_ledger WHERE shop_id = $1 AND product_id = $2`,
		shopID, productID).Scan(&qty)
	if err != nil {
		return decimal.Zero, mapError(err, "estoque", productID)
	}
	return qty, nil
}

// StockLevels implementa ledger.Reader.StockLevels
func (t *pgTx) StockLevels(ctx context.Context, shopID string) ([]ledger.StockLevel, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT product_id, SUM(change_qty)::text FROM stock_ledger
		WHERE shop_id = $1 GROUP BY product_id ORDER BY product_id`, shopID)
	if err != nil {
		return nil, mapError(err, "estoque", shopID)
	}
	defer rows.Close()

	var levels []ledger.StockLevel
	for rows.Next() {
		l := ledger.StockLevel{ShopID: shopID}
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("erro ao ler estoque: %w", err)
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

func scanStockEntries(rows pgx.Rows) ([]ledger.StockLedgerEntry, error) {
	defer rows.Close()

	var entries []ledger.StockLedgerEntry
	for rows.Next() {
		var e ledger.StockLedgerEntry
		if err := rows.Scan(&e.ID, &e.ShopID, &e.ProductID, &e.ChangeQty, &e.Type, &e.RefType,
			&e.RefID, &e.ReversesID, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler lançamento de estoque: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanCustomerEntries(rows pgx.Rows) ([]ledger.CustomerLedgerEntry, error) {
	defer rows.Close()

	var entries []ledger.CustomerLedgerEntry
	for rows.Next() {
		var e ledger.CustomerLedgerEntry
		if err := rows.Scan(&e.ID, &e.ShopID, &e.CustomerID, &e.Type, &e.Direction, &e.Amount,
			&e.RefType, &e.RefID, &e.ReversesID, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler lançamento de cliente: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// StockEntries implementa ledger.Reader.StockEntries
func (t *pgTx) StockEntries(ctx context.Context, shopID, productID string) ([]ledger.StockLedgerEntry, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+stockColumns+` FROM stock_ledger
		WHERE shop_id = $1 AND product_id = $2 ORDER BY created_at, id`, shopID, productID)
	if err != nil {
		return nil, mapError(err, "estoque", productID)
	}
	return scanStockEntries(rows)
}

// CustomerBalance implementa ledger.Reader.CustomerBalance com a mesma fórmula de ledger.Balance
func (t *pgTx) CustomerBalance(ctx context.Context, shopID, customerID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := t.tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(CASE direction WHEN 'DEBIT' THEN amount ELSE -amount END), 0)::text
		FROM customer_ledger WHERE shop_id = $1 AND customer_id = $2`,
		shopID, customerID).Scan(&balance)
	if err != nil {
		return decimal.Zero, mapError(err, "saldo", customerID)
	}
	return balance, nil
}

// CustomerEntries implementa ledger.Reader.CustomerEntries
func (t *pgTx) CustomerEntries(ctx context.Context, shopID, customerID string) ([]ledger.CustomerLedgerEntry, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+customerColumns+` FROM customer_ledger
		WHERE shop_id = $1 AND customer_id = $2 ORDER BY created_at, id`, shopID, customerID)
	if err != nil {
		return nil, mapError(err, "razão do cliente", customerID)
	}
	return scanCustomerEntries(rows)
}

// LockProducts adquire um advisory lock por (loja, produto), liberado no fim da transação.
// Os IDs devem chegar ordenados para que dois escritores nunca se bloqueiem mutuamente.
func (t *pgTx) LockProducts(ctx context.Context, shopID string, productIDs []string) error {
	for _, id := range productIDs {
		if _, err := t.tx.Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended($1 || ':' || $2, 0))`, shopID, id); err != nil {
			return mapError(err, "bloqueio de produto", id)
		}
	}
	return nil
}

// AppendStock implementa ledger.Writer.AppendStock
func (t *pgTx) AppendStock(ctx context.Context, entries ...ledger.StockLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO stock_ledger (id, shop_id, product_id, change_qty, type, ref_type, ref_id,
				reverses_id, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, '')::uuid, NULLIF($9, ''), $10)`,
			e.ID, e.ShopID, e.ProductID, e.ChangeQty, e.Type, e.RefType, e.RefID, e.ReversesID, e.CreatedBy, e.CreatedAt)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "razão de estoque", entries[0].RefID)
	}
	return nil
}

// AppendCustomer implementa ledger.Writer.AppendCustomer
func (t *pgTx) AppendCustomer(ctx context.Context, entries ...ledger.CustomerLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO customer_ledger (id, shop_id, customer_id, type, direction, amount, ref_type, ref_id,
				reverses_id, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, '')::uuid, NULLIF($10, ''), $11)`,
			e.ID, e.ShopID, e.CustomerID, e.Type, e.Direction, e.Amount, e.RefType, e.RefID, e.ReversesID, e.CreatedBy, e.CreatedAt)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "razão de clientes", entries[0].CustomerID)
	}
	return nil
}

// StockEntriesByRef implementa ledger.Writer.StockEntriesByRef
func (t *pgTx) StockEntriesByRef(ctx context.Context, shopID string, refType ledger.RefType, refID string) ([]ledger.StockLedgerEntry, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+stockColumns+` FROM stock_ledger
		WHERE shop_id = $1 AND ref_type = $2 AND ref_id = $3 ORDER BY created_at, id`, shopID, refType, refID)
	if err != nil {
		return nil, mapError(err, "razão de estoque", refID)
	}
	return scanStockEntries(rows)
}

// CustomerEntriesByRef implementa ledger.Writer.CustomerEntriesByRef
func (t *pgTx) CustomerEntriesByRef(ctx context.Context, shopID string, refType ledger.RefType, refID string) ([]ledger.CustomerLedgerEntry, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+customerColumns+` FROM customer_ledger
		WHERE shop_id = $1 AND ref_type = $2 AND ref_id = $3 ORDER BY created_at, id`, shopID, refType, refID)
	if err != nil {
		return nil, mapError(err, "razão de clientes", refID)
	}
	return scanCustomerEntries(rows)
}
