package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/hugohenrick/pdv-sync/internal/domain/expense"
	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/internal/domain/store"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInTx_RollbackDiscardsWrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := s.InTx(ctx, func(tx store.Tx) error {
		e, err := ledger.NewStockEntry("s", "p", decimal.NewFromInt(3), ledger.StockPurchase, ledger.RefPurchase, "x", "u")
		require.NoError(t, err)
		require.NoError(t, tx.AppendStock(ctx, e))
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	require.NoError(t, s.InTx(ctx, func(tx store.Tx) error {
		qty, err := tx.StockOf(ctx, "s", "p")
		require.NoError(t, err)
		assert.True(t, qty.IsZero())
		return nil
	}))
}

func TestInsert_ClientEventIsUniquePerShop(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	insert := func(shopID, eventID string) error {
		return s.InTx(ctx, func(tx store.Tx) error {
			e, err := expense.NewExpense(shopID, "u", expense.Input{ClientEventID: eventID, Category: "Frete", Amount: decimal.NewFromInt(1)})
			require.NoError(t, err)
			return tx.InsertExpense(ctx, e)
		})
	}

	require.NoError(t, insert("a", "evt-1"))
	assert.Equal(t, apperror.KindDuplicate, apperror.KindOf(insert("a", "evt-1")))
	assert.NoError(t, insert("b", "evt-1"))

	// Sem chave de idempotência não há conflito
	assert.NoError(t, insert("a", ""))
	assert.NoError(t, insert("a", ""))
}

func TestInTx_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewStore().InTx(ctx, func(store.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
