package queue

import (
	"context"
	"encoding/json"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/hugohenrick/pdv-sync/internal/domain/syncevent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queue.db")
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func payload(s string) json.RawMessage {
	return json.RawMessage(s)
}

func localIDs(events []Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.LocalID)
	}
	return ids
}

func TestQueue_FIFOPerType(t *testing.T) {
	db, _ := openTemp(t)
	q := NewRegistry(db, "pos-1").For("shop-1")
	ctx := context.Background()

	var sales []string
	for i := 0; i < 3; i++ {
		id, err := q.Enqueue(ctx, syncevent.TypeSale, payload(`{"n":1}`))
		require.NoError(t, err)
		sales = append(sales, id)
	}
	_, err := q.Enqueue(ctx, syncevent.TypePurchase, payload(`{}`))
	require.NoError(t, err)

	pending, err := q.ListPending(ctx, syncevent.TypeSale)
	require.NoError(t, err)
	assert.Equal(t, sales, localIDs(pending))

	all, err := q.ListPending(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	for _, e := range pending {
		assert.Equal(t, KindPending, e.Status.Kind)
		assert.Equal(t, "shop-1", e.ShopID)
		assert.JSONEq(t, `{"n":1}`, string(e.Payload))
	}
}

func TestQueue_RejectsInvalidPayload(t *testing.T) {
	db, _ := openTemp(t)
	q := NewRegistry(db, "pos-1").For("shop-1")

	_, err := q.Enqueue(context.Background(), syncevent.TypeSale, payload(`{"lines":`))
	assert.Error(t, err)
}

func TestQueue_SurvivesReopen(t *testing.T) {
	db, path := openTemp(t)
	ctx := context.Background()
	q := NewRegistry(db, "pos-1").For("shop-1")

	first, err := q.Enqueue(ctx, syncevent.TypeSale, payload(`{"a":1}`))
	require.NoError(t, err)
	second, err := q.Enqueue(ctx, syncevent.TypeSale, payload(`{"a":2}`))
	require.NoError(t, err)

	// Simula queda no meio do envio
	require.NoError(t, q.MarkSyncing(ctx, first))
	require.NoError(t, db.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	q = NewRegistry(reopened, "pos-1").For("shop-1")
	pending, err := q.ListPending(ctx, syncevent.TypeSale)
	require.NoError(t, err)
	assert.Equal(t, []string{first, second}, localIDs(pending))
}

func TestQueue_ShopsAreIsolated(t *testing.T) {
	db, _ := openTemp(t)
	reg := NewRegistry(db, "pos-1")
	ctx := context.Background()

	a := reg.For("shop-a")
	b := reg.For("shop-b")
	assert.Same(t, a, reg.For("shop-a"))

	id, err := a.Enqueue(ctx, syncevent.TypeSale, payload(`{}`))
	require.NoError(t, err)

	_, err = b.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, b.MarkSynced(ctx, id))

	got, err := a.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.LocalID)

	_, err = b.Enqueue(ctx, syncevent.TypeExpense, payload(`{}`))
	require.NoError(t, err)

	shops, err := reg.Shops(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"shop-a", "shop-b"}, shops)
}

func TestQueue_AttemptsAndDueTime(t *testing.T) {
	db, _ := openTemp(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return now }

	q := NewRegistry(db, "pos-1").For("shop-1")
	ctx := context.Background()

	id, err := q.Enqueue(ctx, syncevent.TypeSale, payload(`{}`))
	require.NoError(t, err)

	require.NoError(t, q.IncrementAttempt(ctx, id, "estoque insuficiente", now.Add(time.Minute)))

	due, err := q.ListDue(ctx, syncevent.TypeSale)
	require.NoError(t, err)
	assert.Empty(t, due)

	pending, err := q.ListPending(ctx, syncevent.TypeSale)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Equal(t, "estoque insuficiente", pending[0].LastError)
	assert.Equal(t, now.Add(time.Minute), pending[0].NextAttemptAt)

	now = now.Add(2 * time.Minute)
	due, err = q.ListDue(ctx, syncevent.TypeSale)
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestQueue_ReleaseKeepsAttempts(t *testing.T) {
	db, _ := openTemp(t)
	q := NewRegistry(db, "pos-1").For("shop-1")
	ctx := context.Background()

	id, err := q.Enqueue(ctx, syncevent.TypeSale, payload(`{}`))
	require.NoError(t, err)
	require.NoError(t, q.MarkSyncing(ctx, id))

	got, err := q.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, KindSyncing, got.Status.Kind)

	require.NoError(t, q.Release(ctx, "servidor inacessível", id))
	got, err = q.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, KindPending, got.Status.Kind)
	assert.Equal(t, 0, got.Attempts)
	assert.Equal(t, "servidor inacessível", got.LastError)
}

func TestQueue_FailedRequeueAndPurge(t *testing.T) {
	db, _ := openTemp(t)
	q := NewRegistry(db, "pos-1").For("shop-1")
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := q.Enqueue(ctx, syncevent.TypeSale, payload(`{}`))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	for _, id := range ids {
		require.NoError(t, q.MarkFailed(ctx, id, "lote recusado"))
	}

	failed, err := q.ListFailed(ctx, "")
	require.NoError(t, err)
	require.Len(t, failed, 3)
	assert.Equal(t, Failed("lote recusado"), failed[0].Status)
	assert.Equal(t, "FAILED(lote recusado)", failed[0].Status.String())

	n, err := q.Requeue(ctx, ids[0])
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = q.Purge(ctx, ids[1])
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = q.PurgeFailed(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	pending, err := q.ListPending(ctx, syncevent.TypeSale)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[0]}, localIDs(pending))

	n, err = q.Requeue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestQueue_Stats(t *testing.T) {
	db, _ := openTemp(t)
	q := NewRegistry(db, "pos-1").For("shop-1")
	ctx := context.Background()

	s1, _ := q.Enqueue(ctx, syncevent.TypeSale, payload(`{}`))
	s2, _ := q.Enqueue(ctx, syncevent.TypeSale, payload(`{}`))
	_, _ = q.Enqueue(ctx, syncevent.TypeSale, payload(`{}`))
	_, _ = q.Enqueue(ctx, syncevent.TypeCustomer, payload(`{}`))

	require.NoError(t, q.MarkSyncing(ctx, s1))
	require.NoError(t, q.MarkFailed(ctx, s2, "recusado"))

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, TypeStats{Type: syncevent.TypeCustomer, Pending: 1}, stats[0])
	assert.Equal(t, TypeStats{Type: syncevent.TypeSale, Pending: 1, Syncing: 1, Failed: 1, LastError: "recusado"}, stats[1])
}

func TestEvent_DomainEvent(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e := Event{LocalID: "abc", Payload: payload(`{"x":1}`), CreatedAt: created}

	de := e.DomainEvent()
	assert.Equal(t, "abc", de.ID)
	assert.Equal(t, created, de.CreatedAt)
	assert.JSONEq(t, `{"x":1}`, string(de.Payload))
}

var localIDPattern = regexp.MustCompile(`^[0-9a-z]+-[0-9a-f]{8}-[0-9a-f]{12}$`)

func TestNewLocalID(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	a := newLocalIDAt(at, "pos-1/shop-1")
	b := newLocalIDAt(at, "pos-1/shop-1")
	c := newLocalIDAt(at, "pos-2/shop-1")

	assert.Regexp(t, localIDPattern, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a[:len(a)-12], b[:len(b)-12])
	assert.NotEqual(t, a[:len(a)-12], c[:len(c)-12])
	assert.Regexp(t, `^loyw3v28-`, a)

	assert.Regexp(t, localIDPattern, NewLocalID("x"))
}
