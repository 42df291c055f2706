package customer

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName           = errors.New("nome não pode ser vazio")
	ErrNegativeOpening     = errors.New("saldo inicial não pode ser negativo")
	ErrEmptyCustomerID     = errors.New("cliente não informado")
	ErrNonPositivePayment  = errors.New("valor do pagamento deve ser positivo")
	ErrInvalidCreditLimit  = errors.New("limite de crédito não pode ser negativo")
	ErrInactiveCustomer    = errors.New("cliente inativo")
	ErrCreditLimitExceeded = errors.New("limite de crédito excedido")
)

// Status representa o estado do cliente
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBlocked  Status = "blocked"
)

// Customer representa um cliente de crediário (udhaar).
// O saldo não é armazenado aqui; é sempre derivado do razão do cliente.
type Customer struct {
	ID             string          `json:"id"`
	ShopID         string          `json:"shop_id"`
	ClientEventID  string          `json:"client_event_id,omitempty"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	Document       string          `json:"document,omitempty"` // CPF/CNPJ
	CreditLimit    decimal.Decimal `json:"credit_limit"`       // Zero = sem limite
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Status         Status          `json:"status"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Input são os dados de entrada de um cliente
type Input struct {
	ClientEventID  string          `json:"client_event_id,omitempty"`
	Name           string          `json:"name" validate:"required,max=120"`
	Phone          string          `json:"phone,omitempty" validate:"omitempty,max=30"`
	Document       string          `json:"document,omitempty" validate:"omitempty,max=20"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// NewCustomer cria um novo cliente
func NewCustomer(shopID, userID string, in Input) (*Customer, error) {
	if in.Name == "" {
		return nil, ErrEmptyName
	}
	if in.OpeningBalance.IsNegative() {
		return nil, ErrNegativeOpening
	}
	if in.CreditLimit.IsNegative() {
		return nil, ErrInvalidCreditLimit
	}

	now := time.Now().UTC()
	return &Customer{
		ID:             uuid.New().String(),
		ShopID:         shopID,
		ClientEventID:  in.ClientEventID,
		Name:           in.Name,
		Phone:          in.Phone,
		Document:       in.Document,
		CreditLimit:    in.CreditLimit,
		OpeningBalance: in.OpeningBalance,
		Status:         StatusActive,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsActive verifica se o cliente está ativo
func (c *Customer) IsActive() bool {
	return c.Status == StatusActive
}

// CanOwe verifica se o cliente pode assumir mais dívida mantendo o limite
func (c *Customer) CanOwe(currentBalance, extra decimal.Decimal) error {
	if !c.IsActive() {
		return ErrInactiveCustomer
	}
	if c.CreditLimit.IsZero() {
		return nil
	}
	if currentBalance.Add(extra).GreaterThan(c.CreditLimit) {
		return ErrCreditLimitExceeded
	}
	return nil
}

// Payment é um recebimento de dívida (udhaar)
type Payment struct {
	ID            string          `json:"id"`
	ShopID        string          `json:"shop_id"`
	ClientEventID string          `json:"client_event_id,omitempty"`
	CustomerID    string          `json:"customer_id"`
	InvoiceID     string          `json:"invoice_id,omitempty"` // Pagamento feito no ato da venda fiado
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Note          string          `json:"note,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentInput são os dados de entrada de um recebimento
type PaymentInput struct {
	ClientEventID string          `json:"client_event_id,omitempty"`
	CustomerID    string          `json:"customer_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method" validate:"omitempty,oneof=CASH PIX CARD TRANSFER"`
	Note          string          `json:"note,omitempty" validate:"max=255"`
}

// NewPayment cria um recebimento a partir da entrada
func NewPayment(shopID, userID string, in PaymentInput) (*Payment, error) {
	if in.CustomerID == "" {
		return nil, ErrEmptyCustomerID
	}
	if !in.Amount.IsPositive() {
		return nil, ErrNonPositivePayment
	}

	method := in.Method
	if method == "" {
		method = "CASH"
	}

	return &Payment{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		ClientEventID: in.ClientEventID,
		CustomerID:    in.CustomerID,
		Amount:        in.Amount,
		Method:        method,
		Note:          in.Note,
		CreatedBy:     userID,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// Result é o retorno da criação de um cliente
type Result struct {
	Customer *Customer `json:"customer"`
	Replayed bool      `json:"-"`
}

// PaymentResult é o retorno da gravação de um recebimento
type PaymentResult struct {
	Payment  *Payment        `json:"payment"`
	Balance  decimal.Decimal `json:"balance"`
	Replayed bool            `json:"-"`
}
