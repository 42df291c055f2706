package ledger_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/hugohenrick/pdv-sync/internal/adapter/repository/memory"
	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	"github.com/hugohenrick/pdv-sync/internal/domain/purchase"
	"github.com/hugohenrick/pdv-sync/internal/domain/store"
	"github.com/hugohenrick/pdv-sync/internal/service/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// traceStore registra a ordem dos bloqueios e leituras de saldo feitos dentro das transações
type traceStore struct {
	*memory.Store

	mu    sync.Mutex
	calls []string
}

func (s *traceStore) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.Store.InTx(ctx, func(tx store.Tx) error {
		return fn(&traceTx{Tx: tx, trace: s})
	})
}

func (s *traceStore) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *traceStore) reset() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := s.calls
	s.calls = nil
	return calls
}

type traceTx struct {
	store.Tx
	trace *traceStore
}

func (t *traceTx) LockProducts(ctx context.Context, shopID string, productIDs []string) error {
	t.trace.record("lock:" + strings.Join(productIDs, ","))
	return t.Tx.LockProducts(ctx, shopID, productIDs)
}

func (t *traceTx) StockOf(ctx context.Context, shopID, productID string) (decimal.Decimal, error) {
	t.trace.record("stock:" + productID)
	return t.Tx.StockOf(ctx, shopID, productID)
}

func newTraced(t *testing.T) (*traceStore, *ledger.Writer) {
	t.Helper()
	st := &traceStore{Store: memory.NewStore()}
	for _, id := range []string{"zeta", "alpha", "mid"} {
		st.PutProduct(inventory.Product{ID: id, ShopID: shopID, Name: id, Price: dec("3"), TrackStock: true})
	}
	st.PutProduct(inventory.Product{ID: "delivery", ShopID: shopID, Name: "Entrega", Price: dec("5"), TrackStock: false})

	w := ledger.NewWriter(st, nil)
	_, err := w.CreatePurchase(context.Background(), shopID, userID, purchase.Input{
		Lines: []purchase.LineInput{
			{ProductID: "zeta", Qty: dec("5"), UnitCost: dec("1")},
			{ProductID: "alpha", Qty: dec("5"), UnitCost: dec("1")},
			{ProductID: "mid", Qty: dec("5"), UnitCost: dec("1")},
		},
	})
	require.NoError(t, err)
	st.reset()
	return st, w
}

func TestCreateSale_LocksSortedProductsBeforeReadingStock(t *testing.T) {
	st, w := newTraced(t)

	_, err := w.CreateSale(context.Background(), shopID, userID,
		cashSale("", line("zeta", "1"), line("delivery", "1"), line("alpha", "2"), line("zeta", "1"), line("mid", "1")))
	require.NoError(t, err)

	calls := st.reset()
	require.NotEmpty(t, calls)
	assert.Equal(t, "lock:alpha,mid,zeta", calls[0])
	assert.Equal(t, []string{"lock:alpha,mid,zeta", "stock:alpha", "stock:mid", "stock:zeta"}, calls)
}

func TestVoidPurchase_LocksBeforeReadingStock(t *testing.T) {
	st, w := newTraced(t)

	res, err := w.CreatePurchase(context.Background(), shopID, userID, purchase.Input{
		Lines: []purchase.LineInput{
			{ProductID: "mid", Qty: dec("1"), UnitCost: dec("1")},
			{ProductID: "alpha", Qty: dec("1"), UnitCost: dec("1")},
		},
	})
	require.NoError(t, err)
	st.reset()

	_, err = w.VoidPurchase(context.Background(), shopID, res.Purchase.ID, userID, "nota errada")
	require.NoError(t, err)

	calls := st.reset()
	require.NotEmpty(t, calls)
	assert.Equal(t, "lock:alpha,mid", calls[0])
	for _, c := range calls[1:] {
		assert.True(t, strings.HasPrefix(c, "stock:"), c)
	}
}

func TestCreateSale_UntrackedOnlyTakesNoLock(t *testing.T) {
	st, w := newTraced(t)

	_, err := w.CreateSale(context.Background(), shopID, userID, cashSale("", line("delivery", "1")))
	require.NoError(t, err)
	assert.Empty(t, st.reset())
}
