package ledger

import (
	"context"

	"github.com/hugohenrick/pdv-sync/internal/domain/expense"
	"github.com/hugohenrick/pdv-sync/internal/domain/store"
)

// CreateExpense grava uma despesa do caixa
func (w *Writer) CreateExpense(ctx context.Context, shopID, userID string, in expense.Input) (*expense.Result, error) {
	e, err := expense.NewExpense(shopID, userID, in)
	if err != nil {
		return nil, invalid(err)
	}

	var result *expense.Result
	err = w.store.InTx(ctx, func(tx store.Tx) error {
		if in.ClientEventID != "" {
			existing, err := tx.FindExpenseByClientEvent(ctx, shopID, in.ClientEventID)
			if err == nil {
				result = &expense.Result{Expense: existing, Replayed: true}
				return nil
			}
			if !isNotFound(err) {
				return err
			}
		}

		if err := tx.InsertExpense(ctx, e); err != nil {
			return err
		}
		result = &expense.Result{Expense: e}
		return nil
	})

	if err != nil {
		if isDuplicate(err) && in.ClientEventID != "" {
			// A chave já foi gravada por outro escritor; a segunda ida encontra o registro
			return w.CreateExpense(ctx, shopID, userID, in)
		}
		return nil, err
	}
	return result, nil
}
