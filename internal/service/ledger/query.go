package ledger

import (
	"context"

	ledgerdomain "github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/internal/domain/store"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/shopspring/decimal"
)

// As leituras abaixo usam os mesmos métodos de soma que o escritor consulta
// durante a venda, então relatório e checagem nunca divergem.

// GetStock calcula o estoque corrente de um produto
func (w *Writer) GetStock(ctx context.Context, shopID, productID string) (*ledgerdomain.StockLevel, error) {
	var level *ledgerdomain.StockLevel
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		products, err := tx.ProductsByIDs(ctx, shopID, []string{productID})
		if err != nil {
			return err
		}
		if _, ok := products[productID]; !ok {
			return apperror.Newf(apperror.KindNotFound, "produto %s não encontrado", productID)
		}

		qty, err := tx.StockOf(ctx, shopID, productID)
		if err != nil {
			return err
		}
		level = &ledgerdomain.StockLevel{ShopID: shopID, ProductID: productID, Quantity: qty}
		return nil
	})
	return level, err
}

// ListStock calcula o estoque de todos os produtos movimentados
func (w *Writer) ListStock(ctx context.Context, shopID string) ([]ledgerdomain.StockLevel, error) {
	var levels []ledgerdomain.StockLevel
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		levels, err = tx.StockLevels(ctx, shopID)
		return err
	})
	return levels, err
}

// StockLedger lista o histórico de lançamentos de um produto
func (w *Writer) StockLedger(ctx context.Context, shopID, productID string) ([]ledgerdomain.StockLedgerEntry, error) {
	var entries []ledgerdomain.StockLedgerEntry
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		entries, err = tx.StockEntries(ctx, shopID, productID)
		return err
	})
	return entries, err
}

// CustomerBalance calcula o saldo devedor do cliente
func (w *Writer) CustomerBalance(ctx context.Context, shopID, customerID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.FindCustomer(ctx, shopID, customerID); err != nil {
			return err
		}
		var err error
		balance, err = tx.CustomerBalance(ctx, shopID, customerID)
		return err
	})
	return balance, err
}

// CustomerLedger lista o histórico de lançamentos do cliente
func (w *Writer) CustomerLedger(ctx context.Context, shopID, customerID string) ([]ledgerdomain.CustomerLedgerEntry, error) {
	var entries []ledgerdomain.CustomerLedgerEntry
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.FindCustomer(ctx, shopID, customerID); err != nil {
			return err
		}
		var err error
		entries, err = tx.CustomerEntries(ctx, shopID, customerID)
		return err
	})
	return entries, err
}

// Ping verifica o armazenamento
func (w *Writer) Ping(ctx context.Context) error {
	return w.store.Ping(ctx)
}
