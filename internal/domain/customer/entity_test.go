package customer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	_, err := NewCustomer("s", "u", Input{})
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewCustomer("s", "u", Input{Name: "A", OpeningBalance: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrNegativeOpening)

	_, err = NewCustomer("s", "u", Input{Name: "A", CreditLimit: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidCreditLimit)

	c, err := NewCustomer("s", "u", Input{Name: "Dona Maria"})
	require.NoError(t, err)
	assert.True(t, c.IsActive())
}

func TestCustomer_CanOwe(t *testing.T) {
	c := &Customer{Status: StatusActive, CreditLimit: decimal.NewFromInt(100)}

	assert.NoError(t, c.CanOwe(decimal.NewFromInt(60), decimal.NewFromInt(40)))
	assert.ErrorIs(t, c.CanOwe(decimal.NewFromInt(60), decimal.NewFromInt(41)), ErrCreditLimitExceeded)

	unlimited := &Customer{Status: StatusActive}
	assert.NoError(t, unlimited.CanOwe(decimal.NewFromInt(1_000_000), decimal.NewFromInt(1)))

	blocked := &Customer{Status: StatusBlocked}
	assert.ErrorIs(t, blocked.CanOwe(decimal.Zero, decimal.NewFromInt(1)), ErrInactiveCustomer)
}

func TestNewPayment(t *testing.T) {
	_, err := NewPayment("s", "u", PaymentInput{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrEmptyCustomerID)

	_, err = NewPayment("s", "u", PaymentInput{CustomerID: "c", Amount: decimal.Zero})
	assert.ErrorIs(t, err, ErrNonPositivePayment)

	p, err := NewPayment("s", "u", PaymentInput{CustomerID: "c", Amount: decimal.NewFromInt(5), Method: "PIX"})
	require.NoError(t, err)
	assert.Equal(t, "PIX", p.Method)
}
