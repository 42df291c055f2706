package ledger_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/hugohenrick/pdv-sync/internal/adapter/repository/memory"
	"github.com/hugohenrick/pdv-sync/internal/domain/customer"
	"github.com/hugohenrick/pdv-sync/internal/domain/store"
	"github.com/hugohenrick/pdv-sync/internal/service/ledger"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staleLookupStore esconde as primeiras buscas por evento, como se outra
// transação tivesse gravado o mesmo recebimento logo depois da checagem
type staleLookupStore struct {
	*memory.Store

	hide    atomic.Int32 // Buscas ainda escondidas; negativo esconde todas
	txCount atomic.Int32
}

func (s *staleLookupStore) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	s.txCount.Add(1)
	return s.Store.InTx(ctx, func(tx store.Tx) error {
		return fn(&staleLookupTx{Tx: tx, store: s})
	})
}

type staleLookupTx struct {
	store.Tx
	store *staleLookupStore
}

func (t *staleLookupTx) FindPaymentByClientEvent(ctx context.Context, shopID, clientEventID string) (*customer.Payment, error) {
	if n := t.store.hide.Load(); n < 0 || (n > 0 && t.store.hide.CompareAndSwap(n, n-1)) {
		return nil, apperror.ErrNotFound
	}
	return t.Tx.FindPaymentByClientEvent(ctx, shopID, clientEventID)
}

func TestRecordUdhaarPayment_LostRaceReturnsStoredPayment(t *testing.T) {
	st := &staleLookupStore{Store: memory.NewStore()}
	w := ledger.NewWriter(st, nil)
	ctx := context.Background()

	c, err := w.CreateCustomer(ctx, shopID, userID, customer.Input{Name: "Seu João", OpeningBalance: dec("50")})
	require.NoError(t, err)
	in := customer.PaymentInput{ClientEventID: "pay-1", CustomerID: c.Customer.ID, Amount: dec("20")}

	first, err := w.RecordUdhaarPayment(ctx, shopID, userID, in)
	require.NoError(t, err)

	st.hide.Store(1)
	st.txCount.Store(0)

	again, err := w.RecordUdhaarPayment(ctx, shopID, userID, in)
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, first.Payment.ID, again.Payment.ID)
	assert.Equal(t, "30", again.Balance.String())
	assert.EqualValues(t, 2, st.txCount.Load())

	balance, err := w.CustomerBalance(ctx, shopID, c.Customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "30", balance.String())
}

func TestRecordUdhaarPayment_ReplayIsBounded(t *testing.T) {
	st := &staleLookupStore{Store: memory.NewStore()}
	w := ledger.NewWriter(st, nil)
	ctx := context.Background()

	c, err := w.CreateCustomer(ctx, shopID, userID, customer.Input{Name: "Seu João", OpeningBalance: dec("50")})
	require.NoError(t, err)
	in := customer.PaymentInput{ClientEventID: "pay-1", CustomerID: c.Customer.ID, Amount: dec("5")}
	_, err = w.RecordUdhaarPayment(ctx, shopID, userID, in)
	require.NoError(t, err)

	// Com a busca sempre falhando, a repetição para na segunda transação
	st.hide.Store(-1)
	st.txCount.Store(0)

	_, err = w.RecordUdhaarPayment(ctx, shopID, userID, in)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.EqualValues(t, 2, st.txCount.Load())
}
