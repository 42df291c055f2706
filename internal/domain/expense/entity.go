package expense

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCategory     = errors.New("categoria não pode ser vazia")
	ErrNonPositiveAmount = errors.New("valor da despesa deve ser positivo")
)

// Expense é uma despesa do caixa (aluguel, frete, energia...).
// Não movimenta estoque nem saldo de cliente.
type Expense struct {
	ID            string          `json:"id"`
	ShopID        string          `json:"shop_id"`
	ClientEventID string          `json:"client_event_id,omitempty"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note,omitempty"`
	SpentAt       time.Time       `json:"spent_at"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Input são os dados de entrada de uma despesa
type Input struct {
	ClientEventID string          `json:"client_event_id,omitempty"`
	Category      string          `json:"category" validate:"required,max=60"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note,omitempty" validate:"max=255"`
	SpentAt       *time.Time      `json:"spent_at,omitempty"`
}

// NewExpense cria uma despesa
func NewExpense(shopID, userID string, in Input) (*Expense, error) {
	if in.Category == "" {
		return nil, ErrEmptyCategory
	}
	if !in.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	now := time.Now().UTC()
	spent := now
	if in.SpentAt != nil {
		spent = in.SpentAt.UTC()
	}

	return &Expense{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		ClientEventID: in.ClientEventID,
		Category:      in.Category,
		Amount:        in.Amount,
		Note:          in.Note,
		SpentAt:       spent,
		CreatedBy:     userID,
		CreatedAt:     now,
	}, nil
}

// Result é o retorno da gravação de uma despesa
type Result struct {
	Expense  *Expense `json:"expense"`
	Replayed bool     `json:"-"`
}

// Repository define o acesso a despesas
type Repository interface {
	InsertExpense(ctx context.Context, e *Expense) error
	FindExpenseByClientEvent(ctx context.Context, shopID, clientEventID string) (*Expense, error)
}
