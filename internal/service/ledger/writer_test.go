package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hugohenrick/pdv-sync/internal/adapter/repository/memory"
	"github.com/hugohenrick/pdv-sync/internal/domain/customer"
	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	ledgerdomain "github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/internal/domain/purchase"
	"github.com/hugohenrick/pdv-sync/internal/domain/sale"
	"github.com/hugohenrick/pdv-sync/internal/domain/shop"
	"github.com/hugohenrick/pdv-sync/internal/service/ledger"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	shopID = "shop-1"
	userID = "user-1"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	store  *memory.Store
	writer *ledger.Writer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	st.PutProduct(inventory.Product{ID: "rice", ShopID: shopID, Name: "Arroz 5kg", Price: dec("10"), TrackStock: true})
	st.PutProduct(inventory.Product{ID: "beans", ShopID: shopID, Name: "Feijão 1kg", Price: dec("7.50"), TrackStock: true})
	st.PutProduct(inventory.Product{ID: "delivery", ShopID: shopID, Name: "Entrega", Price: dec("5"), TrackStock: false})
	return &fixture{store: st, writer: ledger.NewWriter(st, nil)}
}

func (f *fixture) receive(t *testing.T, productID, qty string) *purchase.Purchase {
	t.Helper()
	res, err := f.writer.CreatePurchase(context.Background(), shopID, userID, purchase.Input{
		SupplierName: "Atacadão",
		Lines:        []purchase.LineInput{{ProductID: productID, Qty: dec(qty), UnitCost: dec("6")}},
	})
	require.NoError(t, err)
	return res.Purchase
}

func (f *fixture) stock(t *testing.T, productID string) string {
	t.Helper()
	level, err := f.writer.GetStock(context.Background(), shopID, productID)
	require.NoError(t, err)
	return level.Quantity.String()
}

func cashSale(eventID string, lines ...sale.LineInput) sale.Input {
	return sale.Input{ClientEventID: eventID, PaymentMode: sale.PaymentCash, Lines: lines}
}

func line(productID, qty string) sale.LineInput {
	return sale.LineInput{ProductID: productID, Qty: dec(qty)}
}

func TestCreateSale_ConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture(t)
	f.receive(t, "rice", "5")

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.writer.CreateSale(context.Background(), shopID, userID, cashSale("", line("rice", "1")))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperror.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("erro inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 5, rejected)
	assert.Equal(t, "0", f.stock(t, "rice"))
}

func TestCreateSale_InsufficientStockNamesEveryProduct(t *testing.T) {
	f := newFixture(t)
	f.receive(t, "rice", "1")

	_, err := f.writer.CreateSale(context.Background(), shopID, userID,
		cashSale("", line("rice", "2"), line("beans", "1")))
	require.Error(t, err)

	var stockErr *ledgerdomain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.ElementsMatch(t, []string{"rice", "beans"}, stockErr.ProductIDs())
	assert.Equal(t, apperror.KindInsufficientStock, apperror.KindOf(err))

	// Nada foi gravado: o estoque continua o da compra
	assert.Equal(t, "1", f.stock(t, "rice"))
	entries, err := f.writer.StockLedger(context.Background(), shopID, "rice")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCreateSale_ReplayReturnsOriginalInvoice(t *testing.T) {
	f := newFixture(t)
	f.receive(t, "rice", "10")
	ctx := context.Background()

	first, err := f.writer.CreateSale(ctx, shopID, userID, cashSale("evt-1", line("rice", "2")))
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := f.writer.CreateSale(ctx, shopID, userID, cashSale("evt-1", line("rice", "2")))
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Invoice.ID, second.Invoice.ID)

	assert.Equal(t, "8", f.stock(t, "rice"))
}

func TestCreateSale_UsesCatalogPriceAndSkipsUntrackedLines(t *testing.T) {
	f := newFixture(t)
	f.receive(t, "rice", "3")

	res, err := f.writer.CreateSale(context.Background(), shopID, userID,
		cashSale("", line("rice", "2"), line("delivery", "1")))
	require.NoError(t, err)

	assert.Equal(t, "25", res.Invoice.Total.String())
	assert.Equal(t, res.Invoice.Total.String(), res.Invoice.AmountPaid.String())
	assert.Len(t, res.Invoice.Lines, 2)
	assert.Equal(t, "1", f.stock(t, "rice"))

	entries, err := f.writer.StockLedger(context.Background(), shopID, "delivery")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateSale_UnknownProductIsValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.writer.CreateSale(context.Background(), shopID, userID, cashSale("", line("ghost", "1")))
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestCreateSale_AllowNegativeStockReturnsWarnings(t *testing.T) {
	f := newFixture(t)
	f.store.PutSettings(shop.Settings{ShopID: shopID, AllowNegativeStock: true})
	f.receive(t, "rice", "1")

	res, err := f.writer.CreateSale(context.Background(), shopID, userID, cashSale("", line("rice", "3")))
	require.NoError(t, err)
	require.Len(t, res.StockWarnings, 1)

	w := res.StockWarnings[0]
	assert.Equal(t, "rice", w.ProductID)
	assert.Equal(t, "1", w.Available.String())
	assert.Equal(t, "-2", w.Resulting.String())
	assert.Equal(t, "-2", f.stock(t, "rice"))
}

func TestCreateSale_CreditPostsDebitAndDownPayment(t *testing.T) {
	f := newFixture(t)
	f.receive(t, "rice", "10")
	ctx := context.Background()

	c, err := f.writer.CreateCustomer(ctx, shopID, userID, customer.Input{Name: "Dona Maria"})
	require.NoError(t, err)

	res, err := f.writer.CreateSale(ctx, shopID, userID, sale.Input{
		CustomerID:  c.Customer.ID,
		PaymentMode: sale.PaymentCredit,
		AmountPaid:  dec("10"),
		Lines:       []sale.LineInput{line("rice", "3")},
	})
	require.NoError(t, err)
	assert.Equal(t, "30", res.Invoice.Total.String())

	balance, err := f.writer.CustomerBalance(ctx, shopID, c.Customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "20", balance.String())

	entries, err := f.writer.CustomerLedger(ctx, shopID, c.Customer.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ledgerdomain.CustomerSaleUdhaar, entries[0].Type)
	assert.Equal(t, ledgerdomain.CustomerPaymentReceived, entries[1].Type)
}

func TestCreateSale_CreditRespectsLimit(t *testing.T) {
	f := newFixture(t)
	f.receive(t, "rice", "10")
	ctx := context.Background()

	c, err := f.writer.CreateCustomer(ctx, shopID, userID, customer.Input{Name: "Seu João", CreditLimit: dec("15")})
	require.NoError(t, err)

	_, err = f.writer.CreateSale(ctx, shopID, userID, sale.Input{
		CustomerID:  c.Customer.ID,
		PaymentMode: sale.PaymentCredit,
		Lines:       []sale.LineInput{line("rice", "2")},
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.ErrorIs(t, err, customer.ErrCreditLimitExceeded)
	assert.Equal(t, "10", f.stock(t, "rice"))
}

func TestCreateSale_CreditRequiresKnownCustomer(t *testing.T) {
	f := newFixture(t)
	f.receive(t, "rice", "10")

	_, err := f.writer.CreateSale(context.Background(), shopID, userID, sale.Input{
		CustomerID:  "nobody",
		PaymentMode: sale.PaymentCredit,
		Lines:       []sale.LineInput{line("rice", "1")},
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestVoidSale_AppendsReversals(t *testing.T) {
	f := newFixture(t)
	f.receive(t, "rice", "10")
	ctx := context.Background()

	c, err := f.writer.CreateCustomer(ctx, shopID, userID, customer.Input{Name: "Dona Maria"})
	require.NoError(t, err)

	res, err := f.writer.CreateSale(ctx, shopID, userID, sale.Input{
		CustomerID:  c.Customer.ID,
		PaymentMode: sale.PaymentCredit,
		AmountPaid:  dec("5"),
		Lines:       []sale.LineInput{line("rice", "4")},
	})
	require.NoError(t, err)
	assert.Equal(t, "6", f.stock(t, "rice"))

	voided, err := f.writer.VoidSale(ctx, shopID, res.Invoice.ID, userID, "cliente desistiu")
	require.NoError(t, err)
	assert.True(t, voided.IsVoided())
	assert.NotNil(t, voided.VoidedAt)

	assert.Equal(t, "10", f.stock(t, "rice"))
	balance, err := f.writer.CustomerBalance(ctx, shopID, c.Customer.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	// Originais preservados: compra, venda e estorno
	entries, err := f.writer.StockLedger(ctx, shopID, "rice")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, ledgerdomain.StockReversal, entries[2].Type)
	assert.Equal(t, entries[1].ID, entries[2].ReversesID)

	custEntries, err := f.writer.CustomerLedger(ctx, shopID, c.Customer.ID)
	require.NoError(t, err)
	assert.Len(t, custEntries, 4)

	_, err = f.writer.VoidSale(ctx, shopID, res.Invoice.ID, userID, "de novo")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.ErrorIs(t, err, sale.ErrAlreadyVoided)
}

func TestVoidSale_UnknownInvoice(t *testing.T) {
	f := newFixture(t)

	_, err := f.writer.VoidSale(context.Background(), shopID, "missing", userID, "erro")
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.writer.VoidSale(context.Background(), shopID, "missing", userID, "")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestVoidPurchase_RefusesWhenGoodsWereSold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.receive(t, "rice", "5")

	_, err := f.writer.CreateSale(ctx, shopID, userID, cashSale("", line("rice", "3")))
	require.NoError(t, err)

	_, err = f.writer.VoidPurchase(ctx, shopID, p.ID, userID, "nota errada")
	require.Error(t, err)
	var stockErr *ledgerdomain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, []string{"rice"}, stockErr.ProductIDs())
	assert.Equal(t, "2", f.stock(t, "rice"))
}

func TestVoidPurchase_ReversesEntry(t *testing.T) {
	f := newFixture(t)
	p := f.receive(t, "beans", "4")

	res, err := f.writer.VoidPurchase(context.Background(), shopID, p.ID, userID, "devolvida ao fornecedor")
	require.NoError(t, err)
	assert.True(t, res.Purchase.IsVoided())
	assert.Equal(t, "0", f.stock(t, "beans"))
}

func TestCreateStockAdjustment(t *testing.T) {
	f := newFixture(t)
	f.receive(t, "rice", "2")
	ctx := context.Background()

	t.Run("avaria dentro do estoque", func(t *testing.T) {
		_, err := f.writer.CreateStockAdjustment(ctx, shopID, userID, inventory.AdjustmentInput{
			ProductID: "rice", Kind: ledgerdomain.StockDamage, ChangeQty: dec("-1"), Reason: "saco rasgado",
		})
		require.NoError(t, err)
		assert.Equal(t, "1", f.stock(t, "rice"))
	})

	t.Run("avaria acima do estoque", func(t *testing.T) {
		_, err := f.writer.CreateStockAdjustment(ctx, shopID, userID, inventory.AdjustmentInput{
			ProductID: "rice", Kind: ledgerdomain.StockDamage, ChangeQty: dec("-5"), Reason: "enchente",
		})
		assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	})

	t.Run("contagem positiva", func(t *testing.T) {
		_, err := f.writer.CreateStockAdjustment(ctx, shopID, userID, inventory.AdjustmentInput{
			ProductID: "rice", Kind: ledgerdomain.StockAdjustment, ChangeQty: dec("4"), Reason: "inventário",
		})
		require.NoError(t, err)
		assert.Equal(t, "5", f.stock(t, "rice"))
	})

	t.Run("produto sem controle de estoque", func(t *testing.T) {
		_, err := f.writer.CreateStockAdjustment(ctx, shopID, userID, inventory.AdjustmentInput{
			ProductID: "delivery", Kind: ledgerdomain.StockAdjustment, ChangeQty: dec("1"), Reason: "teste",
		})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestRecordUdhaarPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.writer.CreateCustomer(ctx, shopID, userID, customer.Input{Name: "Dona Maria", OpeningBalance: dec("50")})
	require.NoError(t, err)

	res, err := f.writer.RecordUdhaarPayment(ctx, shopID, userID, customer.PaymentInput{
		ClientEventID: "pay-1", CustomerID: c.Customer.ID, Amount: dec("20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "30", res.Balance.String())
	assert.Equal(t, "CASH", res.Payment.Method)

	again, err := f.writer.RecordUdhaarPayment(ctx, shopID, userID, customer.PaymentInput{
		ClientEventID: "pay-1", CustomerID: c.Customer.ID, Amount: dec("20"),
	})
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, "30", again.Balance.String())

	_, err = f.writer.RecordUdhaarPayment(ctx, shopID, userID, customer.PaymentInput{CustomerID: "nobody", Amount: dec("1")})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestReads_UnknownEntities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.writer.GetStock(ctx, shopID, "ghost")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.writer.CustomerBalance(ctx, shopID, "nobody")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.writer.GetInvoice(ctx, shopID, "missing")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestListStock_ShopsAreIsolated(t *testing.T) {
	f := newFixture(t)
	f.store.PutProduct(inventory.Product{ID: "rice", ShopID: "shop-2", Price: dec("10"), TrackStock: true})
	f.receive(t, "rice", "3")

	levels, err := f.writer.ListStock(context.Background(), shopID)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, "3", levels[0].Quantity.String())

	other, err := f.writer.GetStock(context.Background(), "shop-2", "rice")
	require.NoError(t, err)
	assert.True(t, other.Quantity.IsZero())
}
