package ledger

import (
	"errors"
	"testing"

	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockEntry(t *testing.T) {
	_, err := NewStockEntry("s", "", decimal.NewFromInt(1), StockSale, RefInvoice, "i", "u")
	assert.ErrorIs(t, err, ErrEmptyProduct)

	_, err = NewStockEntry("s", "p", decimal.Zero, StockSale, RefInvoice, "i", "u")
	assert.ErrorIs(t, err, ErrZeroQuantity)

	e, err := NewStockEntry("s", "p", decimal.NewFromInt(-2), StockSale, RefInvoice, "i", "u")
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "-2", e.ChangeQty.String())
}

func TestStockEntry_Reverse(t *testing.T) {
	e, err := NewStockEntry("s", "p", decimal.NewFromInt(-2), StockSale, RefInvoice, "i", "u")
	require.NoError(t, err)

	r := e.Reverse("manager")
	assert.NotEqual(t, e.ID, r.ID)
	assert.Equal(t, e.ID, r.ReversesID)
	assert.Equal(t, StockReversal, r.Type)
	assert.Equal(t, e.RefID, r.RefID)
	assert.True(t, SumStock([]StockLedgerEntry{e, r}).IsZero())

	// O original não muda
	assert.Equal(t, "-2", e.ChangeQty.String())
	assert.Equal(t, StockSale, e.Type)
}

func TestNewCustomerEntry(t *testing.T) {
	_, err := NewCustomerEntry("s", "", CustomerSaleUdhaar, Debit, decimal.NewFromInt(1), RefInvoice, "i", "u")
	assert.ErrorIs(t, err, ErrEmptyCustomer)

	_, err = NewCustomerEntry("s", "c", CustomerSaleUdhaar, Debit, decimal.NewFromInt(-1), RefInvoice, "i", "u")
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = NewCustomerEntry("s", "c", CustomerSaleUdhaar, Direction("SIDEWAYS"), decimal.NewFromInt(1), RefInvoice, "i", "u")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestBalance(t *testing.T) {
	debit, _ := NewCustomerEntry("s", "c", CustomerSaleUdhaar, Debit, decimal.RequireFromString("30.50"), RefInvoice, "i", "u")
	credit, _ := NewCustomerEntry("s", "c", CustomerPaymentReceived, Credit, decimal.RequireFromString("10.25"), RefInvoice, "i", "u")

	entries := []CustomerLedgerEntry{debit, credit}
	assert.Equal(t, "20.25", Balance(entries).String())

	entries = append(entries, debit.Reverse("u"))
	assert.Equal(t, "-10.25", Balance(entries).String())
	assert.Equal(t, Credit, entries[2].Direction)
	assert.True(t, Balance(nil).IsZero())
}

func TestInsufficientStockError(t *testing.T) {
	err := error(&InsufficientStockError{Lines: []Shortfall{
		{ProductID: "a", Requested: decimal.NewFromInt(3), Available: decimal.NewFromInt(1)},
		{ProductID: "b", Requested: decimal.NewFromInt(1), Available: decimal.Zero},
	}})

	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.False(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, apperror.KindInsufficientStock, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "a (solicitado 3, disponível 1)")
	assert.Contains(t, err.Error(), "b (solicitado 1, disponível 0)")
}
