package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrZeroQuantity     = errors.New("quantidade do lançamento não pode ser zero")
	ErrNegativeAmount   = errors.New("valor do lançamento não pode ser negativo")
	ErrEmptyProduct     = errors.New("produto não informado")
	ErrEmptyCustomer    = errors.New("cliente não informado")
	ErrInvalidDirection = errors.New("direção do lançamento inválida")
)

// StockEntryType classifica um lançamento do razão de estoque
type StockEntryType string

const (
	StockPurchase   StockEntryType = "PURCHASE"
	StockSale       StockEntryType = "SALE"
	StockAdjustment StockEntryType = "ADJUSTMENT"
	StockDamage     StockEntryType = "DAMAGE"
	StockOpening    StockEntryType = "OPENING"
	StockReversal   StockEntryType = "REVERSAL"
)

// RefType identifica o documento que originou o lançamento
type RefType string

const (
	RefInvoice    RefType = "INVOICE"
	RefPurchase   RefType = "PURCHASE"
	RefAdjustment RefType = "ADJUSTMENT"
	RefPayment    RefType = "PAYMENT"
	RefCustomer   RefType = "CUSTOMER"
)

// Direction indica se o lançamento aumenta (DEBIT) ou reduz (CREDIT) o saldo devedor
type Direction string

const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"
)

// Opposite retorna a direção inversa
func (d Direction) Opposite() Direction {
	if d == Debit {
		return Credit
	}
	return Debit
}

// CustomerEntryType classifica um lançamento do razão de clientes
type CustomerEntryType string

const (
	CustomerSaleUdhaar      CustomerEntryType = "SALE_UDHAAR"
	CustomerPaymentReceived CustomerEntryType = "PAYMENT_RECEIVED"
	CustomerOpeningBalance  CustomerEntryType = "OPENING_BALANCE"
	CustomerReversal        CustomerEntryType = "REVERSAL"
)

// StockLedgerEntry é uma linha imutável do razão de estoque
type StockLedgerEntry struct {
	ID         string          `json:"id"`
	ShopID     string          `json:"shop_id"`
	ProductID  string          `json:"product_id"`
	ChangeQty  decimal.Decimal `json:"change_qty"` // Positivo entra, negativo sai
	Type       StockEntryType  `json:"type"`
	RefType    RefType         `json:"ref_type,omitempty"`
	RefID      string          `json:"ref_id,omitempty"`
	ReversesID string          `json:"reverses_id,omitempty"`
	CreatedBy  string          `json:"created_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CustomerLedgerEntry é uma linha imutável do razão de clientes
type CustomerLedgerEntry struct {
	ID         string            `json:"id"`
	ShopID     string            `json:"shop_id"`
	CustomerID string            `json:"customer_id"`
	Type       CustomerEntryType `json:"type"`
	Direction  Direction         `json:"direction"`
	Amount     decimal.Decimal   `json:"amount"`
	RefType    RefType           `json:"ref_type,omitempty"`
	RefID      string            `json:"ref_id,omitempty"`
	ReversesID string            `json:"reverses_id,omitempty"`
	CreatedBy  string            `json:"created_by,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewStockEntry cria um lançamento de estoque
func NewStockEntry(
	shopID string,
	productID string,
	changeQty decimal.Decimal,
	entryType StockEntryType,
	refType RefType,
	refID string,
	createdBy string,
) (StockLedgerEntry, error) {
	if productID == "" {
		return StockLedgerEntry{}, ErrEmptyProduct
	}
	if changeQty.IsZero() {
		return StockLedgerEntry{}, ErrZeroQuantity
	}

	return StockLedgerEntry{
		ID:        uuid.New().String(),
		ShopID:    shopID,
		ProductID: productID,
		ChangeQty: changeQty,
		Type:      entryType,
		RefType:   refType,
		RefID:     refID,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewCustomerEntry cria um lançamento no razão de clientes
func NewCustomerEntry(
	shopID string,
	customerID string,
	entryType CustomerEntryType,
	direction Direction,
	amount decimal.Decimal,
	refType RefType,
	refID string,
	createdBy string,
) (CustomerLedgerEntry, error) {
	if customerID == "" {
		return CustomerLedgerEntry{}, ErrEmptyCustomer
	}
	if amount.IsNegative() {
		return CustomerLedgerEntry{}, ErrNegativeAmount
	}
	if direction != Debit && direction != Credit {
		return CustomerLedgerEntry{}, ErrInvalidDirection
	}

	return CustomerLedgerEntry{
		ID:         uuid.New().String(),
		ShopID:     shopID,
		CustomerID: customerID,
		Type:       entryType,
		Direction:  direction,
		Amount:     amount,
		RefType:    refType,
		RefID:      refID,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Reverse gera o lançamento compensatório. O original nunca é alterado.
func (e StockLedgerEntry) Reverse(createdBy string) StockLedgerEntry {
	return StockLedgerEntry{
		ID:         uuid.New().String(),
		ShopID:     e.ShopID,
		ProductID:  e.ProductID,
		ChangeQty:  e.ChangeQty.Neg(),
		Type:       StockReversal,
		RefType:    e.RefType,
		RefID:      e.RefID,
		ReversesID: e.ID,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC(),
	}
}

// Reverse gera o lançamento compensatório com a direção invertida
func (e CustomerLedgerEntry) Reverse(createdBy string) CustomerLedgerEntry {
	return CustomerLedgerEntry{
		ID:         uuid.New().String(),
		ShopID:     e.ShopID,
		CustomerID: e.CustomerID,
		Type:       CustomerReversal,
		Direction:  e.Direction.Opposite(),
		Amount:     e.Amount,
		RefType:    e.RefType,
		RefID:      e.RefID,
		ReversesID: e.ID,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC(),
	}
}

// Signed retorna o efeito do lançamento sobre o saldo devedor
func (e CustomerLedgerEntry) Signed() decimal.Decimal {
	if e.Direction == Credit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// SumStock é a fórmula única do estoque corrente: Σ change_qty.
// As consultas SQL dos repositórios reproduzem exatamente esta soma.
func SumStock(entries []StockLedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.ChangeQty)
	}
	return total
}

// Balance é a fórmula única do saldo devedor: Σdébito − Σcrédito
func Balance(entries []CustomerLedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Signed())
	}
	return total
}

// StockLevel é o estoque calculado de um produto
type StockLevel struct {
	ShopID    string          `json:"shop_id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}
