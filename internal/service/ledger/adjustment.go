package ledger

import (
	"context"
	"fmt"

	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	ledgerdomain "github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/internal/domain/store"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CreateStockAdjustment grava um ajuste manual. Ajustes negativos (incluindo
// avarias) passam pelo mesmo bloqueio e checagem de estoque de uma venda.
func (w *Writer) CreateStockAdjustment(ctx context.Context, shopID, userID string, in inventory.AdjustmentInput) (*inventory.AdjustmentResult, error) {
	adj, err := inventory.NewAdjustment(shopID, userID, in)
	if err != nil {
		return nil, invalid(err)
	}

	var result *inventory.AdjustmentResult
	err = w.store.InTx(ctx, func(tx store.Tx) error {
		if in.ClientEventID != "" {
			existing, err := tx.FindAdjustmentByClientEvent(ctx, shopID, in.ClientEventID)
			if err == nil {
				result = &inventory.AdjustmentResult{Adjustment: existing, Replayed: true}
				return nil
			}
			if !isNotFound(err) {
				return err
			}
		}

		products, err := loadProducts(ctx, tx, shopID, []string{adj.ProductID})
		if err != nil {
			return err
		}
		if !products[adj.ProductID].TrackStock {
			return apperror.Newf(apperror.KindValidation, "produto %s não controla estoque", adj.ProductID)
		}

		var warnings []ledgerdomain.StockWarning
		if adj.ChangeQty.IsNegative() {
			warnings, err = reserveStock(ctx, tx, shopID, map[string]decimal.Decimal{
				adj.ProductID: adj.ChangeQty.Neg(),
			})
			if err != nil {
				return err
			}
		}

		if err := tx.InsertAdjustment(ctx, adj); err != nil {
			return err
		}

		entry, err := ledgerdomain.NewStockEntry(shopID, adj.ProductID, adj.ChangeQty,
			adj.Kind, ledgerdomain.RefAdjustment, adj.ID, userID)
		if err != nil {
			return invalid(err)
		}
		if err := tx.AppendStock(ctx, entry); err != nil {
			return fmt.Errorf("erro ao gravar ajuste no razão: %w", err)
		}

		result = &inventory.AdjustmentResult{Adjustment: adj, StockWarnings: warnings}
		return nil
	})

	if err != nil {
		if isDuplicate(err) && in.ClientEventID != "" {
			return w.replayAdjustment(ctx, shopID, in.ClientEventID)
		}
		return nil, err
	}

	if !result.Replayed {
		w.logger.Info("ajuste de estoque registrado",
			"shop_id", shopID,
			"product_id", adj.ProductID,
			"kind", string(adj.Kind),
			"change_qty", adj.ChangeQty.String(),
		)
	}
	return result, nil
}

func (w *Writer) replayAdjustment(ctx context.Context, shopID, clientEventID string) (*inventory.AdjustmentResult, error) {
	var result *inventory.AdjustmentResult
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		adj, err := tx.FindAdjustmentByClientEvent(ctx, shopID, clientEventID)
		if err != nil {
			return err
		}
		result = &inventory.AdjustmentResult{Adjustment: adj, Replayed: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
