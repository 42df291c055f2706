package dto

import (
	"github.com/hugohenrick/pdv-sync/internal/domain/customer"
	"github.com/hugohenrick/pdv-sync/internal/domain/expense"
	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// CustomerResponse é o retorno do cadastro de cliente
type CustomerResponse struct {
	Customer *customer.Customer `json:"customer"`
	Replayed bool               `json:"replayed"`
}

// PaymentResponse é o retorno de um recebimento de fiado
type PaymentResponse struct {
	Payment  *customer.Payment `json:"payment"`
	Balance  decimal.Decimal   `json:"balance"`
	Replayed bool              `json:"replayed"`
}

// BalanceResponse é o saldo devedor do cliente
type BalanceResponse struct {
	CustomerID string          `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
}

// CustomerLedgerResponse é o extrato do cliente
type CustomerLedgerResponse struct {
	CustomerID string                       `json:"customer_id"`
	Balance    decimal.Decimal              `json:"balance"`
	Entries    []ledger.CustomerLedgerEntry `json:"entries"`
}

// NewCustomerLedgerResponse calcula o saldo a partir do extrato
func NewCustomerLedgerResponse(customerID string, entries []ledger.CustomerLedgerEntry) CustomerLedgerResponse {
	if entries == nil {
		entries = []ledger.CustomerLedgerEntry{}
	}
	return CustomerLedgerResponse{
		CustomerID: customerID,
		Balance:    ledger.Balance(entries),
		Entries:    entries,
	}
}

// ExpenseResponse é o retorno do lançamento de despesa
type ExpenseResponse struct {
	Expense  *expense.Expense `json:"expense"`
	Replayed bool             `json:"replayed"`
}
