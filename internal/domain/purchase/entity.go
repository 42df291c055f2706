package purchase

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyLines      = errors.New("a compra deve ter ao menos um item")
	ErrInvalidQuantity = errors.New("quantidade do item deve ser positiva")
	ErrNegativeCost    = errors.New("custo do item não pode ser negativo")
	ErrEmptyProduct    = errors.New("produto não informado")
	ErrAlreadyVoided   = errors.New("compra já cancelada")
	ErrEmptyVoidReason = errors.New("motivo do cancelamento não pode ser vazio")
)

// Status representa o estado da compra
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusVoided    Status = "VOIDED"
)

// Line representa um item da compra
type Line struct {
	ID         string          `json:"id"`
	PurchaseID string          `json:"purchase_id"`
	ProductID  string          `json:"product_id"`
	Qty        decimal.Decimal `json:"qty"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Total      decimal.Decimal `json:"total"`
	TrackStock bool            `json:"track_stock"`
}

// Purchase representa uma entrada de mercadoria de fornecedor
type Purchase struct {
	ID            string          `json:"id"`
	ShopID        string          `json:"shop_id"`
	ClientEventID string          `json:"client_event_id,omitempty"`
	SupplierName  string          `json:"supplier_name,omitempty"`
	InvoiceNumber string          `json:"invoice_number,omitempty"` // Número da nota do fornecedor
	UserID        string          `json:"user_id"`
	Status        Status          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	Lines         []Line          `json:"lines"`
	VoidReason    string          `json:"void_reason,omitempty"`
	VoidedAt      *time.Time      `json:"voided_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LineInput são os dados de entrada de um item
type LineInput struct {
	ProductID string          `json:"product_id" validate:"required"`
	Qty       decimal.Decimal `json:"qty"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// Input são os dados de entrada de uma compra
type Input struct {
	ClientEventID string      `json:"client_event_id,omitempty"`
	SupplierName  string      `json:"supplier_name,omitempty" validate:"max=120"`
	InvoiceNumber string      `json:"invoice_number,omitempty" validate:"max=60"`
	Lines         []LineInput `json:"lines" validate:"required,min=1,dive"`
	OccurredAt    *time.Time  `json:"occurred_at,omitempty"`
}

// Validate aplica as regras que não dependem do banco
func (in Input) Validate() error {
	if len(in.Lines) == 0 {
		return ErrEmptyLines
	}
	for i, l := range in.Lines {
		if l.ProductID == "" {
			return fmt.Errorf("item %d: %w", i+1, ErrEmptyProduct)
		}
		if !l.Qty.IsPositive() {
			return fmt.Errorf("item %d: %w", i+1, ErrInvalidQuantity)
		}
		if l.UnitCost.IsNegative() {
			return fmt.Errorf("item %d: %w", i+1, ErrNegativeCost)
		}
	}
	return nil
}

// NewPurchase monta a compra. trackStock informa quais produtos movimentam estoque.
func NewPurchase(shopID, userID string, in Input, trackStock map[string]bool) (*Purchase, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p := &Purchase{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		ClientEventID: in.ClientEventID,
		SupplierName:  in.SupplierName,
		InvoiceNumber: in.InvoiceNumber,
		UserID:        userID,
		Status:        StatusCompleted,
		CreatedAt:     time.Now().UTC(),
	}
	if in.OccurredAt != nil && !in.OccurredAt.IsZero() {
		p.CreatedAt = in.OccurredAt.UTC()
	}

	total := decimal.Zero
	for _, l := range in.Lines {
		tracked, ok := trackStock[l.ProductID]
		if !ok {
			return nil, fmt.Errorf("produto %s não encontrado", l.ProductID)
		}
		lineTotal := l.Qty.Mul(l.UnitCost)
		p.Lines = append(p.Lines, Line{
			ID:         uuid.New().String(),
			PurchaseID: p.ID,
			ProductID:  l.ProductID,
			Qty:        l.Qty,
			UnitCost:   l.UnitCost,
			Total:      lineTotal,
			TrackStock: tracked,
		})
		total = total.Add(lineTotal)
	}
	p.Total = total

	return p, nil
}

// IsVoided verifica se a compra foi cancelada
func (p *Purchase) IsVoided() bool {
	return p.Status == StatusVoided
}

// Void cancela a compra
func (p *Purchase) Void(reason string) error {
	if p.IsVoided() {
		return ErrAlreadyVoided
	}
	if reason == "" {
		return ErrEmptyVoidReason
	}
	now := time.Now().UTC()
	p.Status = StatusVoided
	p.VoidReason = reason
	p.VoidedAt = &now
	return nil
}

// Result é o retorno da criação de uma compra
type Result struct {
	Purchase      *Purchase             `json:"purchase"`
	StockWarnings []ledger.StockWarning `json:"stockWarnings,omitempty"`
	Replayed      bool                  `json:"-"`
}
