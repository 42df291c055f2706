package ledger

import (
	"context"
	"errors"
	"fmt"

	ledgerdomain "github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/internal/domain/purchase"
	"github.com/hugohenrick/pdv-sync/internal/domain/store"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CreatePurchase grava a compra e as entradas de estoque. Entradas não violam a
// política de estoque negativo, portanto não há bloqueio por produto.
func (w *Writer) CreatePurchase(ctx context.Context, shopID, userID string, in purchase.Input) (*purchase.Result, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	var result *purchase.Result
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		if in.ClientEventID != "" {
			existing, err := tx.FindPurchaseByClientEvent(ctx, shopID, in.ClientEventID)
			if err == nil {
				result = &purchase.Result{Purchase: existing, Replayed: true}
				return nil
			}
			if !isNotFound(err) {
				return err
			}
		}

		ids := make([]string, 0, len(in.Lines))
		for _, l := range in.Lines {
			ids = append(ids, l.ProductID)
		}
		products, err := loadProducts(ctx, tx, shopID, ids)
		if err != nil {
			return err
		}

		tracked := make(map[string]bool, len(products))
		for id, p := range products {
			tracked[id] = p.TrackStock
		}

		p, err := purchase.NewPurchase(shopID, userID, in, tracked)
		if err != nil {
			return invalid(err)
		}

		if err := tx.InsertPurchase(ctx, p); err != nil {
			return err
		}

		var entries []ledgerdomain.StockLedgerEntry
		for _, l := range p.Lines {
			if !l.TrackStock {
				continue
			}
			e, err := ledgerdomain.NewStockEntry(shopID, l.ProductID, l.Qty,
				ledgerdomain.StockPurchase, ledgerdomain.RefPurchase, p.ID, userID)
			if err != nil {
				return invalid(err)
			}
			entries = append(entries, e)
		}
		if err := tx.AppendStock(ctx, entries...); err != nil {
			return fmt.Errorf("erro ao gravar entrada de estoque: %w", err)
		}

		result = &purchase.Result{Purchase: p}
		return nil
	})

	if err != nil {
		if isDuplicate(err) && in.ClientEventID != "" {
			return w.replayPurchase(ctx, shopID, in.ClientEventID)
		}
		return nil, err
	}

	if !result.Replayed {
		w.logger.Info("compra registrada", "shop_id", shopID, "purchase_id", result.Purchase.ID, "total", result.Purchase.Total.String())
	}
	return result, nil
}

func (w *Writer) replayPurchase(ctx context.Context, shopID, clientEventID string) (*purchase.Result, error) {
	var result *purchase.Result
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		p, err := tx.FindPurchaseByClientEvent(ctx, shopID, clientEventID)
		if err != nil {
			return err
		}
		result = &purchase.Result{Purchase: p, Replayed: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// VoidPurchase cancela a compra. Estornar uma entrada retira estoque, então a
// política de estoque negativo é aplicada como em uma venda.
func (w *Writer) VoidPurchase(ctx context.Context, shopID, purchaseID, userID, reason string) (*purchase.Result, error) {
	if reason == "" {
		return nil, invalid(purchase.ErrEmptyVoidReason)
	}

	var result *purchase.Result
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		p, err := tx.FindPurchaseForUpdate(ctx, shopID, purchaseID)
		if err != nil {
			return err
		}

		if err := p.Void(reason); err != nil {
			if errors.Is(err, purchase.ErrAlreadyVoided) {
				return apperror.Wrap(apperror.KindValidation, "compra "+purchaseID, err)
			}
			return invalid(err)
		}

		outgoing := make(map[string]decimal.Decimal)
		for _, l := range p.Lines {
			if l.TrackStock {
				outgoing[l.ProductID] = outgoing[l.ProductID].Add(l.Qty)
			}
		}

		warnings, err := reserveStock(ctx, tx, shopID, outgoing)
		if err != nil {
			return err
		}

		if err := reverseRef(ctx, tx, shopID, ledgerdomain.RefPurchase, p.ID, userID); err != nil {
			return err
		}

		if err := tx.MarkPurchaseVoided(ctx, p); err != nil {
			return err
		}

		result = &purchase.Result{Purchase: p, StockWarnings: warnings}
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.logger.Info("compra cancelada", "shop_id", shopID, "purchase_id", purchaseID, "reason", reason)
	return result, nil
}
